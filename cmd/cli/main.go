package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type flavor struct {
	ProductID   string
	ProductName string
	Price       float64
}

type scenario struct {
	Name        string
	Description string
}

type model struct {
	flavors     []flavor
	scenarios   []scenario
	selectedFlv int
	selectedScn int
	email       string
	status      string
	result      string
	busy        bool
}

func initialModel() model {
	return model{
		flavors: []flavor{
			{"VAN-01", "Vanilla Tub", 3.5},
			{"MNT-02", "Mint Swirl", 4.0},
			{"CHC-03", "Choco Fudge", 4.5},
			{"STR-04", "Strawberry Scoop", 3.0},
		},
		scenarios: []scenario{
			{"place", "Place an order for the selected flavor"},
			{"orders", "List this session's orders"},
			{"bench", "Run a short order placement benchmark"},
		},
		email:  fmt.Sprintf("cli-%s@icecream.local", uuid.NewString()[:8]),
		status: "Ready",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up":
			if m.selectedFlv > 0 {
				m.selectedFlv--
			}
		case "down":
			if m.selectedFlv < len(m.flavors)-1 {
				m.selectedFlv++
			}
		case "left":
			if m.selectedScn > 0 {
				m.selectedScn--
			}
		case "right":
			if m.selectedScn < len(m.scenarios)-1 {
				m.selectedScn++
			}
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Running..."
			return m, runScenarioCmd(m.scenarios[m.selectedScn].Name, m.flavors[m.selectedFlv], m.email)
		}
	case scenarioResult:
		m.busy = false
		m.status = msg.status
		m.result = msg.result
	}
	return m, nil
}

func (m model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Icecream Store CLI")
	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Customer: %s\n", m.email)
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "Flavors:")
	for i, f := range m.flavors {
		marker := " "
		if i == m.selectedFlv {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %s (%s) %.2f USD\n", marker, f.ProductName, f.ProductID, f.Price)
	}
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "Scenarios (use left/right):")
	for i, scn := range m.scenarios {
		marker := " "
		if i == m.selectedScn {
			marker = "*"
		}
		fmt.Fprintf(b, " %s %s - %s\n", marker, scn.Name, scn.Description)
	}
	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Status: %s\n", m.status)
	if m.result != "" {
		fmt.Fprintf(b, "Result: %s\n", m.result)
	}
	fmt.Fprintln(b, "\nControls: up/down select flavor, left/right select scenario, enter to run, q to quit")
	return b.String()
}

type scenarioResult struct {
	status string
	result string
}

func runScenarioCmd(scn string, f flavor, email string) tea.Cmd {
	return func() tea.Msg {
		baseURL := getenv("ORDER_BASE_URL", "http://localhost:8082")
		switch scn {
		case "bench":
			return scenarioResult{status: "Benchmark finished", result: runBenchmark(baseURL, email)}
		case "orders":
			body, err := fetchOrders(baseURL, email)
			if err != nil {
				return scenarioResult{status: fmt.Sprintf("Lookup failed: %v", err)}
			}
			return scenarioResult{status: "Orders fetched", result: body}
		default:
			body, err := placeOrder(baseURL, orderPayload(f, email, 2))
			if err != nil {
				return scenarioResult{status: fmt.Sprintf("Order failed: %v", err)}
			}
			return scenarioResult{status: "Order placed", result: body}
		}
	}
}

func orderPayload(f flavor, email string, qty int) map[string]any {
	return map[string]any{
		"userEmail": email,
		"items": []map[string]any{{
			"productId":   f.ProductID,
			"productName": f.ProductName,
			"quantity":    qty,
			"price":       f.Price,
		}},
		"totalAmount":     f.Price * float64(qty),
		"shippingAddress": "12 Sundae Lane",
	}
}

func placeOrder(baseURL string, payload any) (string, error) {
	data, _ := json.Marshal(payload)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := strings.TrimRight(baseURL, "/") + "/api/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return string(body), nil
}

func fetchOrders(baseURL, email string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := strings.TrimRight(baseURL, "/") + "/api/orders/user/" + email
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return string(body), nil
}

func runBenchmark(baseURL, email string) string {
	duration := 5 * time.Second
	vus := 5
	var mu sync.Mutex
	var total time.Duration
	var count int
	var errors int
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	payload := orderPayload(flavor{"VAN-01", "Vanilla Tub", 3.5}, email, 1)

	var wg sync.WaitGroup
	for i := 0; i < vus; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
					start := time.Now()
					_, err := placeOrder(baseURL, payload)
					mu.Lock()
					if err != nil {
						errors++
					} else {
						count++
						total += time.Since(start)
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	avg := time.Duration(0)
	if count > 0 {
		avg = total / time.Duration(count)
	}
	throughput := float64(count) / duration.Seconds()
	return fmt.Sprintf("count=%d errors=%d avg=%s throughput=%.2f orders/s", count, errors, avg, throughput)
}

func main() {
	runCmd := flag.String("run", "", "run scenario: place|orders|bench")
	flag.Parse()

	if *runCmd != "" {
		m := initialModel()
		res := runScenarioCmd(*runCmd, m.flavors[0], m.email)().(scenarioResult)
		fmt.Println(res.status)
		if res.result != "" {
			fmt.Println(res.result)
		}
		return
	}

	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

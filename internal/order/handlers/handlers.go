package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/order/domain"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/metrics"
)

// Service is the order workflow surface the HTTP layer depends on.
type Service interface {
	PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	OrdersByUser(ctx context.Context, email string) ([]domain.Order, error)
}

type Handler struct {
	svc     Service
	logger  *zap.Logger
	metrics *metrics.ServerMetrics
}

func New(svc Service, logger *zap.Logger, m *metrics.ServerMetrics) *Handler {
	return &Handler{svc: svc, logger: logger, metrics: m}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/orders", h.placeOrder)
	mux.HandleFunc("/api/orders/user/", h.ordersByUser)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		h.respond(w, "place_order", http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"}, start)
		return
	}

	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		// Malformed input surfaces as a generic server error; the API defines
		// no validation responses.
		h.logger.Error("failed to decode order request", zap.Error(err))
		h.respond(w, "place_order", http.StatusInternalServerError, map[string]any{"error": "order placement failed"}, start)
		return
	}

	placed, err := h.svc.PlaceOrder(r.Context(), order)
	if err != nil {
		h.logger.Error("order placement failed", zap.String("user_email", order.UserEmail), zap.Error(err))
		h.respond(w, "place_order", http.StatusInternalServerError, map[string]any{"error": "order placement failed"}, start)
		return
	}

	h.logger.Info("order placed",
		zap.Int64("order_id", placed.ID),
		zap.String("user_email", placed.UserEmail),
		zap.Float64("total_amount", placed.TotalAmount))
	h.respond(w, "place_order", http.StatusOK, placed, start)
}

func (h *Handler) ordersByUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodGet {
		h.respond(w, "orders_by_user", http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"}, start)
		return
	}

	email := strings.TrimPrefix(r.URL.Path, "/api/orders/user/")
	orders, err := h.svc.OrdersByUser(r.Context(), email)
	if err != nil {
		h.logger.Error("order lookup failed", zap.String("user_email", email), zap.Error(err))
		h.respond(w, "orders_by_user", http.StatusInternalServerError, map[string]any{"error": "order lookup failed"}, start)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	h.respond(w, "orders_by_user", http.StatusOK, orders, start)
}

func (h *Handler) respond(w http.ResponseWriter, handler string, code int, v any, start time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
	if h.metrics != nil {
		h.metrics.Observe(handler, strconv.Itoa(code), float64(time.Since(start).Milliseconds()))
	}
}

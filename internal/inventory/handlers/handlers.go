package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/inventory/domain"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/inventory/store"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/metrics"
)

type Store interface {
	Get(ctx context.Context, productID string) (domain.Item, error)
	Adjust(ctx context.Context, productID string, delta int) (domain.Item, error)
}

type Handler struct {
	store   Store
	logger  *zap.Logger
	metrics *metrics.ServerMetrics
}

func New(s Store, logger *zap.Logger, m *metrics.ServerMetrics) *Handler {
	return &Handler{store: s, logger: logger, metrics: m}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/inventory/", h.route)
}

// route dispatches /api/inventory/{productId} and
// /api/inventory/{productId}/adjust off one prefix registration.
func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/inventory/")
	if productID, ok := strings.CutSuffix(rest, "/adjust"); ok {
		h.adjust(w, r, productID)
		return
	}
	h.get(w, r, rest)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, productID string) {
	start := time.Now()
	if r.Method != http.MethodGet {
		h.respond(w, "get_stock", http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"}, start)
		return
	}

	item, err := h.store.Get(r.Context(), productID)
	if errors.Is(err, store.ErrNotFound) {
		h.respond(w, "get_stock", http.StatusNotFound, map[string]any{"error": "not found"}, start)
		return
	}
	if err != nil {
		h.logger.Error("stock lookup failed", zap.String("product_id", productID), zap.Error(err))
		h.respond(w, "get_stock", http.StatusInternalServerError, map[string]any{"error": "stock lookup failed"}, start)
		return
	}
	h.respond(w, "get_stock", http.StatusOK, item, start)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, productID string) {
	start := time.Now()
	if r.Method != http.MethodPost {
		h.respond(w, "adjust_stock", http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"}, start)
		return
	}
	if productID == "" {
		h.respond(w, "adjust_stock", http.StatusBadRequest, map[string]any{"error": "product id is required"}, start)
		return
	}
	delta, err := strconv.Atoi(r.URL.Query().Get("adjustment"))
	if err != nil {
		h.respond(w, "adjust_stock", http.StatusBadRequest, map[string]any{"error": "adjustment must be an integer"}, start)
		return
	}

	item, err := h.store.Adjust(r.Context(), productID, delta)
	if err != nil {
		h.logger.Error("stock adjustment failed", zap.String("product_id", productID), zap.Int("delta", delta), zap.Error(err))
		h.respond(w, "adjust_stock", http.StatusInternalServerError, map[string]any{"error": "stock adjustment failed"}, start)
		return
	}

	h.logger.Info("stock adjusted",
		zap.String("product_id", productID),
		zap.Int("delta", delta),
		zap.Int("stock_count", item.StockCount))
	h.respond(w, "adjust_stock", http.StatusOK, item, start)
}

func (h *Handler) respond(w http.ResponseWriter, handler string, code int, v any, start time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
	if h.metrics != nil {
		h.metrics.Observe(handler, strconv.Itoa(code), float64(time.Since(start).Milliseconds()))
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/notification/domain"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/internal/notification/store"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/idempotency"
	"github.com/AkhilMylaram/IcecreamStore-microservices-project/pkg/metrics"
)

type Store interface {
	Save(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

type SendRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
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
	mux.HandleFunc("/api/notifications/send", h.send)
	mux.HandleFunc("/", h.root)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"message":"Welcome to Notification Service"}`))
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		h.respond(w, "send", http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"}, start)
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond(w, "send", http.StatusBadRequest, map[string]any{"error": "invalid json"}, start)
		return
	}
	if strings.TrimSpace(req.Recipient) == "" {
		h.respond(w, "send", http.StatusBadRequest, map[string]any{"error": "recipient is required"}, start)
		return
	}

	// A repeated Idempotency-Key maps to the same event id, so retried sends
	// collapse into the original row instead of a second delivery.
	eventID := idempotency.Key(r)
	if eventID == "" {
		eventID = uuid.NewString()
	}

	n := domain.Notification{
		EventID:   eventID,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
	}
	saved, err := h.store.Save(r.Context(), n)
	if errors.Is(err, store.ErrDuplicate) {
		h.respond(w, "send", http.StatusOK, map[string]any{"status": "duplicate", "recipient": req.Recipient}, start)
		return
	}
	if err != nil {
		h.logger.Error("failed to store notification", zap.String("recipient", req.Recipient), zap.Error(err))
		h.respond(w, "send", http.StatusInternalServerError, map[string]any{"error": "notification send failed"}, start)
		return
	}

	h.logger.Info("notification accepted",
		zap.String("recipient", saved.Recipient),
		zap.String("subject", saved.Subject),
		zap.String("event_id", saved.EventID))
	h.respond(w, "send", http.StatusOK, map[string]any{"status": "sent", "recipient": saved.Recipient}, start)
}

func (h *Handler) respond(w http.ResponseWriter, handler string, code int, v any, start time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
	if h.metrics != nil {
		h.metrics.Observe(handler, strconv.Itoa(code), float64(time.Since(start).Milliseconds()))
	}
}

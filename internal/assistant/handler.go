package assistant

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sathviktm/AI-Health-Assistant/internal/observability/metrics"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

// Handler exposes the chat relay over HTTP.
type Handler struct {
	service *Service
	metrics *metrics.APIMetrics
	logger  *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(service *Service, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, metrics: m, logger: logger}
}

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		h.observe(http.StatusBadRequest, start)
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		h.observe(http.StatusBadRequest, start)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "message is required")
		h.observe(http.StatusBadRequest, start)
		return
	}

	reply, err := h.service.Respond(r.Context(), req.UserID, req.Message)
	if err != nil {
		h.logger.Error("chat relay failed", "user_id", req.UserID, "error", err)
		h.writeError(w, http.StatusBadGateway, "assistant is unavailable")
		h.observe(http.StatusBadGateway, start)
		return
	}

	h.writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
	h.observe(http.StatusOK, start)
}

func (h *Handler) observe(status int, start time.Time) {
	h.metrics.ObserveRelay("chat", status)
	h.metrics.ObserveRelayLatency("chat", time.Since(start).Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sathviktm/AI-Health-Assistant/internal/assistant"
	"github.com/sathviktm/AI-Health-Assistant/internal/compliance"
	"github.com/sathviktm/AI-Health-Assistant/internal/observability/metrics"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

// maxUploadBytes caps image uploads at 10MB.
const maxUploadBytes = 10 << 20

// Handler exposes the image analysis relay over HTTP.
type Handler struct {
	analyzer   *Analyzer
	assistant  *assistant.Service
	disclaimer *compliance.DisclaimerService
	metrics    *metrics.APIMetrics
	logger     *logging.Logger
}

// NewHandler creates an image analysis handler.
func NewHandler(a *Analyzer, svc *assistant.Service, disclaimer *compliance.DisclaimerService, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if disclaimer == nil {
		disclaimer = compliance.NewDisclaimerService(compliance.DefaultDisclaimerConfig())
	}
	return &Handler{
		analyzer:   a,
		assistant:  svc,
		disclaimer: disclaimer,
		metrics:    m,
		logger:     logger,
	}
}

// ImageAnalysisResponse carries the model's analysis text.
type ImageAnalysisResponse struct {
	Analysis string `json:"analysis"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// AnalyzeImage handles POST /analyze-image. It expects a multipart form
// with user_id, an optional prompt and an image_file upload.
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid multipart form", start)
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		userID = strings.TrimSpace(r.URL.Query().Get("user_id"))
	}
	if userID == "" {
		h.fail(w, http.StatusBadRequest, "user_id is required", start)
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		prompt = strings.TrimSpace(r.URL.Query().Get("prompt"))
	}

	file, header, err := r.FormFile("image_file")
	if err != nil {
		h.fail(w, http.StatusBadRequest, "image_file is required", start)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "failed to read image_file", start)
		return
	}
	if len(image) == 0 {
		h.fail(w, http.StatusBadRequest, "uploaded file is empty", start)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), header.Filename, prompt, image)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			h.fail(w, http.StatusUnsupportedMediaType, "unsupported image format", start)
			return
		}
		h.logger.Error("image analysis failed", "user_id", userID, "error", err)
		h.fail(w, http.StatusBadGateway, "image analysis is unavailable", start)
		return
	}

	analysis = h.disclaimer.AddDisclaimer(analysis)

	if h.assistant != nil {
		if prompt == "" {
			prompt = DefaultPrompt
		}
		h.assistant.RecordExchange(r.Context(), userID,
			fmt.Sprintf("[Uploaded an image with prompt: %s]", prompt),
			fmt.Sprintf("[Image analysis]: %s", analysis),
		)
	}

	h.writeJSON(w, http.StatusOK, ImageAnalysisResponse{Analysis: analysis})
	h.observe(http.StatusOK, start)
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string, start time.Time) {
	h.writeJSON(w, status, errorResponse{Error: msg})
	h.observe(status, start)
}

func (h *Handler) observe(status int, start time.Time) {
	h.metrics.ObserveRelay("vision", status)
	h.metrics.ObserveRelayLatency("vision", time.Since(start).Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

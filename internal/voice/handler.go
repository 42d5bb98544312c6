package voice

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sathviktm/AI-Health-Assistant/internal/assistant"
	"github.com/sathviktm/AI-Health-Assistant/internal/observability/metrics"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

// maxUploadBytes caps voice uploads at 25MB.
const maxUploadBytes = 25 << 20

// Handler exposes the voice relay over HTTP: audio in, transcript plus
// assistant reply out.
type Handler struct {
	transcriber Transcriber
	assistant   *assistant.Service
	metrics     *metrics.APIMetrics
	logger      *logging.Logger
}

// NewHandler creates a voice handler.
func NewHandler(t Transcriber, a *assistant.Service, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{transcriber: t, assistant: a, metrics: m, logger: logger}
}

// VoiceResponse carries the assistant's reply plus what the recognizer
// heard.
type VoiceResponse struct {
	Response        string `json:"response"`
	TranscribedText string `json:"transcribed_text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// VoiceToText handles POST /voice-to-text. It expects a multipart form
// with a user_id field and an audio_file upload.
func (h *Handler) VoiceToText(w http.ResponseWriter, r *http.Request) {
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

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		h.fail(w, http.StatusBadRequest, "audio_file is required", start)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "failed to read audio_file", start)
		return
	}
	if len(audio) == 0 {
		h.fail(w, http.StatusBadRequest, "uploaded file is empty", start)
		return
	}

	text, err := h.transcriber.Transcribe(r.Context(), header.Filename, audio)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			h.fail(w, http.StatusUnsupportedMediaType, "unsupported audio format", start)
		case errors.Is(err, ErrNoSpeech):
			h.fail(w, http.StatusBadRequest, "no speech recognized in audio", start)
		default:
			h.logger.Error("transcription failed", "user_id", userID, "error", err)
			h.fail(w, http.StatusBadGateway, "transcription is unavailable", start)
		}
		return
	}

	reply, err := h.assistant.Respond(r.Context(), userID, text)
	if err != nil {
		h.logger.Error("voice relay chat failed", "user_id", userID, "error", err)
		h.fail(w, http.StatusBadGateway, "assistant is unavailable", start)
		return
	}

	h.writeJSON(w, http.StatusOK, VoiceResponse{Response: reply, TranscribedText: text})
	h.observe(http.StatusOK, start)
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string, start time.Time) {
	h.writeJSON(w, status, errorResponse{Error: msg})
	h.observe(status, start)
}

func (h *Handler) observe(status int, start time.Time) {
	h.metrics.ObserveRelay("voice", status)
	h.metrics.ObserveRelayLatency("voice", time.Since(start).Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sathviktm/AI-Health-Assistant/internal/dates"
	"github.com/sathviktm/AI-Health-Assistant/internal/observability/metrics"
	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	metrics *metrics.APIMetrics
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, m *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// AppointmentResponse is an appointment record plus the outcome of its
// best-effort notification.
type AppointmentResponse struct {
	Appointment
	Notification NotificationOutcome `json:"notification"`
}

// ListAppointmentsResponse is the response for listing a user's appointments.
type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}

// DeleteAppointmentResponse confirms a deletion.
type DeleteAppointmentResponse struct {
	Message      string              `json:"message"`
	Reason       string              `json:"reason"`
	Notification NotificationOutcome `json:"notification"`
}

// CreateAppointment handles POST /appointments requests
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode create request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		h.observe("create", http.StatusBadRequest)
		return
	}

	result, err := h.service.Create(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		h.logger.Error("failed to create appointment", "error", err, "user_id", req.UserID)
		http.Error(w, err.Error(), status)
		h.observe("create", status)
		return
	}

	h.logger.Info("appointment created",
		"id", result.Appointment.ID,
		"user_id", result.Appointment.UserID,
		"notified", result.Notification.Sent,
	)
	h.observe("create", http.StatusCreated)
	writeJSON(w, http.StatusCreated, AppointmentResponse{
		Appointment:  result.Appointment,
		Notification: result.Notification,
	})
}

// ListAppointments handles GET /appointments/{userID} requests
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	appts, err := h.service.List(r.Context(), userID)
	if err != nil {
		status := statusForError(err)
		http.Error(w, err.Error(), status)
		h.observe("list", status)
		return
	}

	h.observe("list", http.StatusOK)
	writeJSON(w, http.StatusOK, ListAppointmentsResponse{
		Appointments: appts,
		Count:        len(appts),
	})
}

// UpdateAppointment handles PUT /appointments/{appointmentID} requests
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	var req UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		h.observe("update", http.StatusBadRequest)
		return
	}

	result, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		status := statusForError(err)
		h.logger.Error("failed to update appointment", "error", err, "id", id)
		http.Error(w, err.Error(), status)
		h.observe("update", status)
		return
	}

	h.logger.Info("appointment updated", "id", id, "notified", result.Notification.Sent)
	h.observe("update", http.StatusOK)
	writeJSON(w, http.StatusOK, AppointmentResponse{
		Appointment:  result.Appointment,
		Notification: result.Notification,
	})
}

// DeleteAppointment handles DELETE /appointments/{appointmentID} requests
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")
	reason := r.URL.Query().Get("reason")

	result, err := h.service.Delete(r.Context(), id, reason)
	if err != nil {
		status := statusForError(err)
		h.logger.Error("failed to delete appointment", "error", err, "id", id)
		http.Error(w, err.Error(), status)
		h.observe("delete", status)
		return
	}

	h.logger.Info("appointment deleted", "id", id, "reason", result.Reason)
	h.observe("delete", http.StatusOK)
	writeJSON(w, http.StatusOK, DeleteAppointmentResponse{
		Message:      "Appointment deleted successfully",
		Reason:       result.Reason,
		Notification: result.Notification,
	})
}

func (h *Handler) observe(op string, status int) {
	h.metrics.ObserveAppointmentOp(op, status)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dates.ErrInvalidDateFormat),
		errors.Is(err, ErrMissingUserID),
		errors.Is(err, ErrMissingDateTime),
		errors.Is(err, ErrMissingPurpose),
		errors.Is(err, ErrInvalidEmail):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

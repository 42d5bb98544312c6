package appointments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sathviktm/AI-Health-Assistant/internal/dates"
)

func newTestRouter(notifier Notifier) http.Handler {
	svc := NewService(NewStore(), dates.NewParser(), notifier, nil, WithClock(fixedClock()))
	handler := NewHandler(svc, nil, nil)

	r := chi.NewRouter()
	r.Post("/appointments", handler.CreateAppointment)
	r.Get("/appointments/{userID}", handler.ListAppointments)
	r.Put("/appointments/{appointmentID}", handler.UpdateAppointment)
	r.Delete("/appointments/{appointmentID}", handler.DeleteAppointment)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAppointment_Success(t *testing.T) {
	router := newTestRouter(&recordingNotifier{})

	w := doJSON(t, router, http.MethodPost, "/appointments", validCreateRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var resp AppointmentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected a generated id")
	}
	if resp.UserID != "u1" {
		t.Errorf("expected user_id u1, got %s", resp.UserID)
	}
	if !resp.Notification.Sent {
		t.Error("expected notification to be reported as sent")
	}
}

func TestCreateAppointment_InvalidJSON(t *testing.T) {
	router := newTestRouter(&recordingNotifier{})

	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateAppointment_ValidationFailures(t *testing.T) {
	router := newTestRouter(&recordingNotifier{})

	tests := []struct {
		name   string
		mutate func(*CreateAppointmentRequest)
	}{
		{"bad email", func(r *CreateAppointmentRequest) { r.Email = "nope" }},
		{"missing purpose", func(r *CreateAppointmentRequest) { r.Purpose = "" }},
		{"bad date", func(r *CreateAppointmentRequest) { r.DateTime = "???" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			w := doJSON(t, router, http.MethodPost, "/appointments", req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestCreateAppointment_DeliveryFailureStillCreates(t *testing.T) {
	router := newTestRouter(&recordingNotifier{fail: true})

	w := doJSON(t, router, http.MethodPost, "/appointments", validCreateRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var resp AppointmentResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Notification.Sent {
		t.Error("expected notification failure to be reported")
	}
	if resp.Notification.Error == "" {
		t.Error("expected notification error diagnostic")
	}

	list := doJSON(t, router, http.MethodGet, "/appointments/u1", nil)
	var listResp ListAppointmentsResponse
	if err := json.NewDecoder(list.Body).Decode(&listResp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if listResp.Count != 1 {
		t.Errorf("expected the record to be listed despite delivery failure, count=%d", listResp.Count)
	}
}

func TestListAppointments_Empty(t *testing.T) {
	router := newTestRouter(&recordingNotifier{})

	w := doJSON(t, router, http.MethodGet, "/appointments/u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp ListAppointmentsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 0 || resp.Appointments == nil {
		t.Errorf("expected empty list, got %+v", resp)
	}
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	router := newTestRouter(&recordingNotifier{})

	purpose := "followup"
	w := doJSON(t, router, http.MethodPut, "/appointments/nonexistent", UpdateAppointmentRequest{Purpose: &purpose})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	router := newTestRouter(&recordingNotifier{})

	// create
	w := doJSON(t, router, http.MethodPost, "/appointments", validCreateRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected %d, got %d", http.StatusCreated, w.Code)
	}
	var created AppointmentResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	// list returns exactly that record
	w = doJSON(t, router, http.MethodGet, "/appointments/u1", nil)
	var listed ListAppointmentsResponse
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Count != 1 || listed.Appointments[0].ID != created.ID {
		t.Fatalf("expected exactly the created record, got %+v", listed)
	}

	// partial update changes only purpose
	purpose := "followup"
	w = doJSON(t, router, http.MethodPut, "/appointments/"+created.ID, UpdateAppointmentRequest{Purpose: &purpose})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected %d, got %d", http.StatusOK, w.Code)
	}
	var updated AppointmentResponse
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updated.Purpose != "followup" {
		t.Errorf("expected purpose followup, got %s", updated.Purpose)
	}
	if updated.Email != created.Email || !updated.DateTime.Equal(created.DateTime) {
		t.Error("update must change only the supplied field")
	}

	// delete empties the list
	w = doJSON(t, router, http.MethodDelete, "/appointments/"+created.ID+"?reason=resolved", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected %d, got %d", http.StatusOK, w.Code)
	}
	var deleted DeleteAppointmentResponse
	if err := json.NewDecoder(w.Body).Decode(&deleted); err != nil {
		t.Fatalf("decode delete: %v", err)
	}
	if deleted.Reason != "resolved" {
		t.Errorf("expected reason resolved, got %s", deleted.Reason)
	}

	w = doJSON(t, router, http.MethodGet, "/appointments/u1", nil)
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Count != 0 {
		t.Errorf("expected empty list after delete, got %d", listed.Count)
	}

	// delete again
	w = doJSON(t, router, http.MethodDelete, "/appointments/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected %d on re-delete, got %d", http.StatusNotFound, w.Code)
	}
}

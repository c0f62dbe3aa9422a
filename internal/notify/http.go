package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
)

// HTTPHandler exposes the notification triggers over HTTP so the host
// application can fire domain events without linking the gateway as a
// library. Routes are mounted under an internal prefix and are expected
// to sit behind network-level access control.
type HTTPHandler struct {
	service *Service
}

// NewHTTPHandler wraps a Service for HTTP triggering.
func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type otpRequest struct {
	EventID string `json:"event_id"`
	Phone   string `json:"phone"`
	OTP     string `json:"otp"`
}

type registrationRequest struct {
	EventID string `json:"event_id"`
	Phone   string `json:"phone"`
	Name    string `json:"name"`
}

type appointmentRequest struct {
	EventID     string    `json:"event_id"`
	Phone       string    `json:"phone"`
	PatientName string    `json:"patient_name"`
	Facility    string    `json:"facility"`
	Slot        time.Time `json:"slot"`
}

// HandleOTP triggers an OTP notification.
func (h *HTTPHandler) HandleOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.OTP == "" {
		writeError(w, http.StatusBadRequest, "phone and otp are required")
		return
	}
	h.respond(w, r, h.service.NotifyOTP(r.Context(), OTPIssued{
		EventID: req.EventID,
		Phone:   req.Phone,
		OTP:     req.OTP,
	}))
}

// HandleRegistration triggers a registration greeting.
func (h *HTTPHandler) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "phone and name are required")
		return
	}
	h.respond(w, r, h.service.NotifyRegistration(r.Context(), PatientRegistered{
		EventID: req.EventID,
		Phone:   req.Phone,
		Name:    req.Name,
	}))
}

// HandleAppointment triggers an appointment reminder.
func (h *HTTPHandler) HandleAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" || req.PatientName == "" {
		writeError(w, http.StatusBadRequest, "phone and patient_name are required")
		return
	}
	h.respond(w, r, h.service.NotifyAppointment(r.Context(), AppointmentScheduled{
		EventID:     req.EventID,
		Phone:       req.Phone,
		PatientName: req.PatientName,
		Facility:    req.Facility,
		Slot:        req.Slot,
	}))
}

func (h *HTTPHandler) respond(w http.ResponseWriter, _ *http.Request, err error) {
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"sent"}`))
	case errors.Is(err, messaging.ErrParameterMismatch), errors.Is(err, messaging.ErrUnknownTemplate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusBadGateway, "delivery failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

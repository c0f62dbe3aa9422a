// Package notify turns domain events emitted by the host application into
// outbound WhatsApp messages. Event-triggered sends skip webhook
// verification and classification and enter the pipeline at the template
// layer.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ohcnetwork/care-whatsapp/internal/care"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/templates"
	"github.com/ohcnetwork/care-whatsapp/pkg/logging"
)

const slotLayout = "02 Jan, 3:04 PM"

// Sender delivers an outbound message through the delivery policy.
type Sender interface {
	Send(ctx context.Context, out messaging.Outbound) (string, error)
}

// OTPIssued fires when the host generates a login OTP for a phone number.
type OTPIssued struct {
	EventID string
	Phone   string
	OTP     string
}

// PatientRegistered fires when a new patient record is created.
type PatientRegistered struct {
	EventID string
	Phone   string
	Name    string
}

// AppointmentScheduled fires when an outpatient token/appointment is
// booked.
type AppointmentScheduled struct {
	EventID     string
	PatientName string
	Phone       string
	Facility    string
	Slot        time.Time
}

// Service sends notification templates for domain events.
type Service struct {
	sender Sender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(sender Sender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sender: sender, logger: logger}
}

// NotifyOTP sends the care_otp template (body slot + URL button slot).
func (s *Service) NotifyOTP(ctx context.Context, evt OTPIssued) error {
	out := messaging.NewTemplate(care.NormalizePhone(evt.Phone), templates.TemplateOTP, evt.OTP, evt.OTP)
	return s.send(ctx, eventID(evt.EventID), "otp_issued", out)
}

// NotifyRegistration greets a newly registered patient.
func (s *Service) NotifyRegistration(ctx context.Context, evt PatientRegistered) error {
	out := messaging.NewTemplate(care.NormalizePhone(evt.Phone), templates.TemplateGreeting,
		evt.Name,
		"Your registration is successful.",
		"Please ensure your details are correct.",
	)
	return s.send(ctx, eventID(evt.EventID), "patient_registered", out)
}

// NotifyAppointment sends the three-slot appointment reminder.
func (s *Service) NotifyAppointment(ctx context.Context, evt AppointmentScheduled) error {
	out := messaging.NewTemplate(care.NormalizePhone(evt.Phone), templates.TemplateAppointmentReminder,
		evt.PatientName,
		evt.Facility,
		evt.Slot.Format(slotLayout),
	)
	return s.send(ctx, eventID(evt.EventID), "appointment_scheduled", out)
}

func (s *Service) send(ctx context.Context, eventID, eventType string, out messaging.Outbound) error {
	id, err := s.sender.Send(ctx, out)
	if err != nil {
		s.logger.Error("notification send failed",
			"error", err,
			"event_id", eventID,
			"event_type", eventType,
			"recipient", out.Recipient,
		)
		return fmt.Errorf("notify: %s: %w", eventType, err)
	}
	s.logger.Info("notification sent",
		"event_id", eventID,
		"event_type", eventType,
		"recipient", out.Recipient,
		"provider_message_id", id,
	)
	return nil
}

func eventID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

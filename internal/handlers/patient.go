package handlers

import (
	"context"

	"github.com/ohcnetwork/care-whatsapp/internal/care"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/templates"
)

// MedicationsHandler answers "medications" with the sender's active
// medication list via the care_medications template.
type MedicationsHandler struct{ Deps }

func (h MedicationsHandler) Match(msg messaging.Inbound) bool {
	return containsWord(msg, "medications")
}

func (h MedicationsHandler) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	p := h.patient(ctx, msg.SenderID)
	if p == nil {
		return reply(msg, registerPrompt), nil
	}
	meds, err := h.Records.ActiveMedications(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return replyTemplate(msg, templates.TemplateMedications, formatMedications(meds)), nil
}

// RecordsHandler answers "records" with the care_patient_record template.
type RecordsHandler struct{ Deps }

func (h RecordsHandler) Match(msg messaging.Inbound) bool {
	return containsWord(msg, "records")
}

func (h RecordsHandler) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	p := h.patient(ctx, msg.SenderID)
	if p == nil {
		return reply(msg, registerPrompt), nil
	}
	return replyTemplate(msg, templates.TemplatePatientRecord,
		p.ID, p.Name, p.Age, formatLastVisit(p.LastVisit), formatPatientDetails(p)), nil
}

// ProceduresHandler answers "procedures" with the care_procedures template.
type ProceduresHandler struct{ Deps }

func (h ProceduresHandler) Match(msg messaging.Inbound) bool {
	return containsWord(msg, "procedures")
}

func (h ProceduresHandler) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	p := h.patient(ctx, msg.SenderID)
	if p == nil {
		return reply(msg, registerPrompt), nil
	}
	procs, err := h.Records.Procedures(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return replyTemplate(msg, templates.TemplateProcedures, formatProcedures(procs)), nil
}

// TokenHandler answers "token" with the sender's outpatient booking via
// the care_token template.
type TokenHandler struct{ Deps }

func (h TokenHandler) Match(msg messaging.Inbound) bool {
	return containsWord(msg, "token")
}

func (h TokenHandler) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	p := h.patient(ctx, msg.SenderID)
	if p == nil {
		return reply(msg, "No patient record found. Please register to get your token booking details."), nil
	}
	tb, err := h.Records.TokenBooking(ctx, p.ID)
	if err != nil && err != care.ErrNotFound {
		return nil, err
	}
	return replyTemplate(msg, templates.TemplateToken, formatTokenBooking(tb)), nil
}

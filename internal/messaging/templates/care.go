package templates

import "github.com/ohcnetwork/care-whatsapp/internal/messaging"

// Template names pre-approved for the CARE business account. These are
// contract constants: the provider rejects sends for names it has not
// approved.
const (
	TemplateHelpPatient         = "care_help_patient"
	TemplateHelpStaff           = "care_help_staff"
	TemplateMedications         = "care_medications"
	TemplatePatientRecord       = "care_patient_record"
	TemplateProcedures          = "care_procedures"
	TemplateToken               = "care_token"
	TemplateOTP                 = "care_otp"
	TemplateGreeting            = "care_greeting"
	TemplateAppointmentReminder = "care_appointment_reminder"
)

func bodyText(names ...string) []Slot {
	slots := make([]Slot, 0, len(names))
	for _, n := range names {
		slots = append(slots, Slot{Name: n, Type: messaging.ParamText, Component: ComponentBody})
	}
	return slots
}

// CareDefinitions returns the template schema shipped with the gateway.
func CareDefinitions() []Definition {
	return []Definition{
		{Name: TemplateHelpPatient},
		{Name: TemplateHelpStaff},
		{Name: TemplateMedications, Slots: bodyText("summary")},
		{Name: TemplatePatientRecord, Slots: bodyText("id", "name", "age", "last_visit", "details")},
		{Name: TemplateProcedures, Slots: bodyText("summary")},
		{Name: TemplateToken, Slots: bodyText("summary")},
		{Name: TemplateOTP, Slots: append(bodyText("otp"),
			Slot{Name: "otp_button", Type: messaging.ParamText, Component: ComponentButton, ButtonIndex: 0})},
		{Name: TemplateGreeting, Slots: bodyText("name", "line1", "line2")},
		{Name: TemplateAppointmentReminder, Slots: bodyText("name", "facility", "slot")},
	}
}

// NewCareRegistry builds the registry preloaded with the CARE templates.
func NewCareRegistry(language string) (*Registry, error) {
	return NewRegistry(language, CareDefinitions()...)
}

package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/ohcnetwork/care-whatsapp/internal/care"
)

const lastVisitLayout = "02 January, 2006"

// formatMedications flattens the medication list into the single body
// line the care_medications template expects.
func formatMedications(meds []care.Medication) string {
	if len(meds) == 0 {
		return "📋 You don't have any active medications at this time. Please consult your doctor if you need any prescriptions."
	}
	parts := make([]string, 0, len(meds))
	for _, m := range meds {
		part := "*" + m.Name + "*"
		if m.Dosage != "" {
			part += " - " + m.Dosage
		}
		if m.Frequency != "" {
			part += " " + m.Frequency
		}
		parts = append(parts, part)
	}
	return "💊 " + strings.Join(parts, " | ")
}

func formatProcedures(procs []care.Procedure) string {
	if len(procs) == 0 {
		return "No procedures found."
	}
	parts := make([]string, 0, len(procs))
	for _, p := range procs {
		parts = append(parts, fmt.Sprintf("%s - %s", p.Name, p.Date.Format(lastVisitLayout)))
	}
	return "🔬 " + strings.Join(parts, " | ")
}

func formatTokenBooking(tb *care.TokenBooking) string {
	if tb == nil {
		return "🚫 No token booking details found."
	}
	summary := fmt.Sprintf("🎟️ Booked on: %s, Status: %s, Reason: %s",
		tb.BookedOn.Format(lastVisitLayout), tb.Status, tb.Reason)
	if tb.SlotDate != "" && tb.SlotTime != "" {
		summary += fmt.Sprintf(", Slot: %s at %s", tb.SlotDate, tb.SlotTime)
	}
	return summary
}

func formatLastVisit(t time.Time) string {
	if t.IsZero() {
		return "Not Available"
	}
	return t.Format(lastVisitLayout)
}

func formatPatientDetails(p *care.Patient) string {
	blood := p.BloodGroup
	if blood == "" {
		blood = "Not Available"
	}
	return fmt.Sprintf("Gender: %s, Blood Group: %s", p.Gender, blood)
}

func formatShifts(shifts []care.Shift) string {
	if len(shifts) == 0 {
		return "No upcoming shifts scheduled."
	}
	lines := make([]string, 0, len(shifts))
	for _, s := range shifts {
		lines = append(lines, fmt.Sprintf("• %s - %s: %s", s.Date, s.Time, s.Location))
	}
	return "📅 *Your Schedule*\n\n" + strings.Join(lines, "\n")
}

func formatResources(resources []care.Resource) string {
	if len(resources) == 0 {
		return "No inventory data available."
	}
	lines := make([]string, 0, len(resources))
	for _, r := range resources {
		lines = append(lines, fmt.Sprintf("• %s: %d %s available", r.Name, r.Quantity, r.Unit))
	}
	return "📦 *Inventory Status*\n\n" + strings.Join(lines, "\n")
}

const registerPrompt = "No patient records found. Please visit a facility to register."

// unregisteredMessage is the onboarding walkthrough sent to numbers the
// directory does not know.
func unregisteredMessage() string {
	return strings.Join([]string{
		"🏥 *You are not registered in our system*",
		"",
		"1️⃣ Visit your nearest CARE-registered hospital during OPD hours.",
		"2️⃣ Carry a valid ID, address proof and any previous medical records.",
		"3️⃣ Share this WhatsApp number at the registration desk to link it to your Patient ID.",
		"",
		"After registration you can view records, check appointments and receive medication reminders here.",
		"Type 'help' anytime to see available commands.",
	}, "\n")
}

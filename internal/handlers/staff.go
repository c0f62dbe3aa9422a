package handlers

import (
	"context"
	"strings"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
)

const staffOnlyPrompt = "This command is available to registered facility staff only."

// facilityArg extracts the facility id from "/s <facility>" style
// commands; empty when the command carries none. The id keeps its
// original casing, only the command prefix is case-insensitive.
func facilityArg(msg messaging.Inbound, prefix string) (string, bool) {
	if !strings.HasPrefix(command(msg), prefix) {
		return "", false
	}
	fields := strings.Fields(strings.TrimSpace(msg.Body))
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// ScheduleHandler answers "schedule" or "/s <facility>" with the staff
// member's upcoming shifts as plain text.
type ScheduleHandler struct{ Deps }

func (h ScheduleHandler) Match(msg messaging.Inbound) bool {
	return containsWord(msg, "schedule") || strings.HasPrefix(command(msg), "/s ")
}

func (h ScheduleHandler) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	s := h.staff(ctx, msg.SenderID)
	if s == nil {
		return reply(msg, staffOnlyPrompt), nil
	}
	facilityID := s.FacilityID
	if arg, ok := facilityArg(msg, "/s "); ok {
		facilityID = arg
	} else if strings.HasPrefix(command(msg), "/s") && !containsWord(msg, "schedule") {
		return reply(msg, "Invalid command. Use '/s <facility_number>'"), nil
	}
	shifts, err := h.Records.StaffSchedule(ctx, s.ID, facilityID)
	if err != nil {
		return nil, err
	}
	return reply(msg, formatShifts(shifts)), nil
}

// ResourceHandler answers "resource" or "/r <facility>" with the facility
// inventory status as plain text.
type ResourceHandler struct{ Deps }

func (h ResourceHandler) Match(msg messaging.Inbound) bool {
	return containsWord(msg, "resource") || strings.HasPrefix(command(msg), "/r ")
}

func (h ResourceHandler) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	s := h.staff(ctx, msg.SenderID)
	if s == nil {
		return reply(msg, staffOnlyPrompt), nil
	}
	facilityID := s.FacilityID
	if arg, ok := facilityArg(msg, "/r "); ok {
		facilityID = arg
	}
	resources, err := h.Records.ResourceStatus(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	return reply(msg, formatResources(resources)), nil
}

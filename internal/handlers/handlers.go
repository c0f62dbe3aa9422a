// Package handlers contains the business handlers registered with the
// dispatcher: free-text commands from patients and staff of the CARE
// network, plus the configurable fallback.
package handlers

import (
	"context"
	"strings"

	"github.com/ohcnetwork/care-whatsapp/internal/care"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/pkg/logging"
)

// Deps carries the external collaborators every handler shares.
type Deps struct {
	Directory care.Directory
	Records   care.Records
	Logger    *logging.Logger
}

func (d Deps) logger() *logging.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Default()
}

// command lowercases and trims the routable text of a message. Interactive
// replies route by their button/list title, same as typed commands.
func command(msg messaging.Inbound) string {
	return strings.ToLower(strings.TrimSpace(msg.Body))
}

// containsWord matches the original command style: "medications" anywhere
// in the text triggers the medications handler.
func containsWord(msg messaging.Inbound, word string) bool {
	return strings.Contains(command(msg), word)
}

// patient resolves the sender to a patient record, nil when unregistered.
func (d Deps) patient(ctx context.Context, senderID string) *care.Patient {
	p, err := d.Directory.PatientByPhone(ctx, care.NormalizePhone(senderID))
	if err != nil {
		if err != care.ErrNotFound {
			d.logger().Error("patient lookup failed", "error", err, "sender", senderID)
		}
		return nil
	}
	return p
}

// staff resolves the sender to a staff record, nil when unregistered.
func (d Deps) staff(ctx context.Context, senderID string) *care.Staff {
	s, err := d.Directory.StaffByPhone(ctx, care.NormalizePhone(senderID))
	if err != nil {
		if err != care.ErrNotFound {
			d.logger().Error("staff lookup failed", "error", err, "sender", senderID)
		}
		return nil
	}
	return s
}

func reply(msg messaging.Inbound, text string) []messaging.Outbound {
	return []messaging.Outbound{messaging.NewText(msg.SenderID, text)}
}

func replyTemplate(msg messaging.Inbound, name string, values ...string) []messaging.Outbound {
	return []messaging.Outbound{messaging.NewTemplate(msg.SenderID, name, values...)}
}

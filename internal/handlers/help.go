package handlers

import (
	"context"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/templates"
)

// HelpHandler answers "help" with the role-appropriate help template.
type HelpHandler struct{ Deps }

func (h HelpHandler) Match(msg messaging.Inbound) bool {
	return command(msg) == "help"
}

func (h HelpHandler) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	return h.helpReply(ctx, msg), nil
}

func (h HelpHandler) helpReply(ctx context.Context, msg messaging.Inbound) []messaging.Outbound {
	if h.patient(ctx, msg.SenderID) != nil {
		return replyTemplate(msg, templates.TemplateHelpPatient)
	}
	if h.staff(ctx, msg.SenderID) != nil {
		return replyTemplate(msg, templates.TemplateHelpStaff)
	}
	return reply(msg, unregisteredMessage())
}

// FallbackMode selects what the dispatcher does with messages no handler
// claims.
type FallbackMode string

const (
	// FallbackHelp replies with the role help message (the original
	// plugin's behavior for unknown commands).
	FallbackHelp FallbackMode = "help"
	// FallbackEcho echoes the message body back to the sender.
	FallbackEcho FallbackMode = "echo"
	// FallbackSilent acknowledges without replying.
	FallbackSilent FallbackMode = "silent"
)

// Fallback is the catch-all handler. It matches everything, including
// media and unknown message kinds, so no authenticated message is ever
// silently dropped by the routing layer.
type Fallback struct {
	Deps
	Mode FallbackMode
}

func (h Fallback) Match(messaging.Inbound) bool { return true }

func (h Fallback) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	switch h.Mode {
	case FallbackSilent:
		return nil, nil
	case FallbackEcho:
		if msg.Body == "" {
			return nil, nil
		}
		return reply(msg, msg.Body), nil
	default:
		return HelpHandler{h.Deps}.helpReply(ctx, msg), nil
	}
}

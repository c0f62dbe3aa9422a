// Package messaging defines the shared vocabulary of the instant-messaging
// core: normalized inbound and outbound message shapes and the error
// taxonomy used across the verifier, classifier, dispatcher and delivery
// layers.
package messaging

import "time"

// Kind classifies an inbound message by its provider payload type.
type Kind string

const (
	KindText        Kind = "text"
	KindInteractive Kind = "interactive"
	KindMedia       Kind = "media"
	KindUnknown     Kind = "unknown"
)

// Inbound is the normalized representation of a message received from the
// provider webhook. It is immutable once constructed by the classifier.
type Inbound struct {
	// ProviderMessageID is the provider's message id (wamid). It is the
	// idempotency key for deduplicating at-least-once webhook deliveries
	// and must be carried through bit-exact.
	ProviderMessageID string
	// SenderID is the sender's channel address (wa_id / phone number).
	SenderID string
	Kind     Kind
	// Body holds the text body for text messages, or the interactive
	// reply title/id for interactive messages.
	Body string
	// ReplyID is the button/list reply id for interactive messages.
	ReplyID    string
	ReceivedAt time.Time
	// Raw keeps the provider message object for handlers that need
	// fields the normalized shape does not carry.
	Raw map[string]any
}

// ParamType enumerates WhatsApp template parameter types.
type ParamType string

const (
	ParamText     ParamType = "text"
	ParamCurrency ParamType = "currency"
	ParamDateTime ParamType = "date_time"
)

// ParamBinding is one positional value supplied for a template slot.
type ParamBinding struct {
	Type  ParamType
	Value string
}

// TemplateRef names a registered template together with its parameter
// bindings, in slot order.
type TemplateRef struct {
	Name   string
	Params []ParamBinding
}

// Outbound is a message to be delivered to a recipient. Exactly one of
// Text or Template is set; Template wins when both are present.
type Outbound struct {
	Recipient string
	Text      string
	Template  *TemplateRef
}

// NewText builds a plain-text outbound message.
func NewText(recipient, text string) Outbound {
	return Outbound{Recipient: recipient, Text: text}
}

// NewTemplate builds a templated outbound message with positional text
// parameters.
func NewTemplate(recipient, name string, values ...string) Outbound {
	params := make([]ParamBinding, 0, len(values))
	for _, v := range values {
		params = append(params, ParamBinding{Type: ParamText, Value: v})
	}
	return Outbound{Recipient: recipient, Template: &TemplateRef{Name: name, Params: params}}
}

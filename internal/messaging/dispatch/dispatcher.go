// Package dispatch routes normalized inbound messages to registered
// handlers and forwards the outbound replies they produce to the delivery
// layer.
package dispatch

import (
	"context"
	"fmt"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/internal/observability/metrics"
	"github.com/ohcnetwork/care-whatsapp/pkg/logging"
)

// Handler is the sole extension point of the routing core: a predicate
// plus the business logic run when the predicate matches.
type Handler interface {
	Match(msg messaging.Inbound) bool
	Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error)
}

// HandlerFunc adapts a pair of functions to the Handler interface.
type HandlerFunc struct {
	MatchFunc  func(msg messaging.Inbound) bool
	HandleFunc func(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error)
}

func (h HandlerFunc) Match(msg messaging.Inbound) bool { return h.MatchFunc(msg) }

func (h HandlerFunc) Handle(ctx context.Context, msg messaging.Inbound) ([]messaging.Outbound, error) {
	return h.HandleFunc(ctx, msg)
}

// Sender delivers an outbound message, returning the provider message id.
type Sender interface {
	Send(ctx context.Context, out messaging.Outbound) (string, error)
}

// Dispatcher matches inbound messages against registered handlers in
// registration order and invokes the first match. Registration happens
// during initialization only; the registry is read-only afterwards, so
// dispatch needs no locking around the handler slice.
type Dispatcher struct {
	handlers []Handler
	fallback Handler
	dedupe   DedupeStore
	sender   Sender
	logger   *logging.Logger
	metrics  *metrics.MessagingMetrics
}

// New creates a dispatcher. The dedupe store and metrics may be nil.
func New(sender Sender, dedupe DedupeStore, logger *logging.Logger, m *metrics.MessagingMetrics) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		dedupe:  dedupe,
		sender:  sender,
		logger:  logger,
		metrics: m,
	}
}

// Register appends handlers in match order. First match wins, so more
// specific handlers must be registered before general ones. Not safe for
// concurrent use; call during initialization only.
func (d *Dispatcher) Register(handlers ...Handler) {
	d.handlers = append(d.handlers, handlers...)
}

// SetFallback installs the handler invoked when nothing matches. Dispatch
// never silently drops a message.
func (d *Dispatcher) SetFallback(h Handler) {
	d.fallback = h
}

// Dispatch routes one inbound message. Handler and delivery failures are
// logged and isolated here: they never propagate to the webhook
// acknowledgment path, and one failing message never blocks others.
func (d *Dispatcher) Dispatch(ctx context.Context, msg messaging.Inbound) {
	if d.dedupe != nil {
		fresh, err := d.dedupe.MarkProcessed(ctx, msg.ProviderMessageID)
		if err != nil {
			// Fail open: a dedupe outage must not drop real messages.
			d.logger.Error("dedupe check failed", "error", err, "message_id", msg.ProviderMessageID)
		} else if !fresh {
			d.logger.Info("duplicate delivery suppressed", "message_id", msg.ProviderMessageID)
			d.metrics.ObserveDedupe()
			return
		}
	}

	handler := d.match(msg)
	if handler == nil {
		d.logger.Debug("no handler matched", "message_id", msg.ProviderMessageID, "kind", msg.Kind)
		return
	}

	outs, err := d.invoke(ctx, handler, msg)
	if err != nil {
		d.logger.Error("handler failed",
			"error", fmt.Errorf("%v: %w", err, messaging.ErrHandlerFailure),
			"message_id", msg.ProviderMessageID,
			"sender", msg.SenderID,
		)
		return
	}

	for _, out := range outs {
		d.deliver(ctx, out)
	}
}

func (d *Dispatcher) match(msg messaging.Inbound) Handler {
	for _, h := range d.handlers {
		if h.Match(msg) {
			return h
		}
	}
	return d.fallback
}

// invoke runs a handler with panic isolation: a panicking handler is a
// HandlerFailure, not a crashed webhook worker.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, msg messaging.Inbound) (outs []messaging.Outbound, err error) {
	defer func() {
		if r := recover(); r != nil {
			outs = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, msg)
}

func (d *Dispatcher) deliver(ctx context.Context, out messaging.Outbound) {
	if d.sender == nil {
		return
	}
	msgType := "text"
	if out.Template != nil {
		msgType = "template"
	}
	id, err := d.sender.Send(ctx, out)
	if err != nil {
		d.logger.Error("outbound delivery failed",
			"error", err,
			"recipient", out.Recipient,
			"type", msgType,
		)
		d.metrics.ObserveOutbound(msgType, "failed")
		return
	}
	d.logger.Info("outbound delivered",
		"recipient", out.Recipient,
		"type", msgType,
		"provider_message_id", id,
	)
	d.metrics.ObserveOutbound(msgType, "sent")
}

package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/internal/observability/metrics"
	"github.com/ohcnetwork/care-whatsapp/pkg/logging"
)

var webhookTracer = otel.Tracer("care.whatsapp.webhook")

// Dispatcher routes a classified inbound message to its handler. It never
// returns an error: handler failures are isolated at the dispatch boundary.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg messaging.Inbound)
}

// ReadAcker marks inbound messages as read on the provider side.
type ReadAcker interface {
	MarkRead(ctx context.Context, providerMessageID string) error
}

// WebhookHandler serves the Meta webhook endpoints: the GET subscription
// handshake and the POST message-event feed.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	dispatcher  Dispatcher
	acker       ReadAcker
	logger      *logging.Logger
	metrics     *metrics.MessagingMetrics
}

// NewWebhookHandler creates the webhook handler. acker and m may be nil.
func NewWebhookHandler(verifyToken, appSecret string, dispatcher Dispatcher, acker ReadAcker, logger *logging.Logger, m *metrics.MessagingMetrics) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		dispatcher:  dispatcher,
		acker:       acker,
		logger:      logger,
		metrics:     m,
	}
}

// HandleVerification handles GET /webhooks/whatsapp (Meta challenge).
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && VerifyToken(token, h.verifyToken) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	h.logger.Warn("webhook verification rejected", "mode", mode)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleEvents handles POST /webhooks/whatsapp (inbound message events).
// Once a request is authenticated and classified the provider always sees
// a 200, regardless of handler or delivery outcome, so Meta does not
// re-queue the event indefinitely.
func (h *WebhookHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := webhookTracer.Start(r.Context(), "whatsapp.webhook.events")
	defer span.End()
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		h.metrics.ObserveInbound("unknown", "read_error")
		return
	}

	if err := VerifySignature(h.appSecret, body, r.Header.Get(SignatureHeader)); err != nil {
		span.RecordError(err)
		if errors.Is(err, messaging.ErrMalformedRequest) {
			h.logger.Warn("webhook missing signature", "error", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			h.metrics.ObserveInbound("unknown", "malformed")
			return
		}
		h.logger.Warn("webhook signature rejected", "error", err)
		http.Error(w, "Forbidden", http.StatusForbidden)
		h.metrics.ObserveInbound("unknown", "unauthorized")
		return
	}

	msgs, err := Classify(body)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("webhook body unparsable", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		h.metrics.ObserveInbound("unknown", "malformed")
		return
	}
	span.SetAttributes(attribute.Int("care.whatsapp.messages", len(msgs)))

	// Ack before dispatch: provider acknowledgment is orthogonal to
	// business processing.
	w.WriteHeader(http.StatusOK)

	for _, msg := range msgs {
		h.metrics.ObserveInbound(string(msg.Kind), "accepted")
		if h.acker != nil {
			if err := h.acker.MarkRead(ctx, msg.ProviderMessageID); err != nil {
				h.logger.Debug("mark read failed", "error", err, "message_id", msg.ProviderMessageID)
			}
		}
		if h.dispatcher != nil {
			h.dispatcher.Dispatch(ctx, msg)
		}
	}

	h.metrics.ObserveWebhookLatency(time.Since(start).Seconds())
}

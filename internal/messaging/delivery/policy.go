// Package delivery wraps the channel client with retry, backoff and
// cancellation so handler and template logic stay free of transport
// concerns.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
	"github.com/ohcnetwork/care-whatsapp/internal/whatsapp"
	"github.com/ohcnetwork/care-whatsapp/pkg/logging"
)

// ChannelClient is the thin provider boundary the policy retries over.
type ChannelClient interface {
	SendText(ctx context.Context, recipient, text string) (string, error)
	SendTemplate(ctx context.Context, recipient string, payload whatsapp.TemplatePayload) (string, error)
}

// TemplateRenderer turns a template reference into the provider wire
// payload, failing before any network call on schema violations.
type TemplateRenderer interface {
	Render(name string, params []messaging.ParamBinding) (whatsapp.TemplatePayload, error)
}

// Policy sends outbound messages with bounded exponential backoff. Only
// transient provider failures are retried; permanent rejections and
// rendering errors surface immediately.
type Policy struct {
	client      ChannelClient
	renderer    TemplateRenderer
	logger      *logging.Logger
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// NewPolicy creates a delivery policy with the default 3-attempt ceiling
// and 500ms base delay.
func NewPolicy(client ChannelClient, renderer TemplateRenderer, logger *logging.Logger) *Policy {
	if logger == nil {
		logger = logging.Default()
	}
	return &Policy{
		client:      client,
		renderer:    renderer,
		logger:      logger,
		maxAttempts: 3,
		baseDelay:   500 * time.Millisecond,
		maxDelay:    5 * time.Second,
	}
}

func (p *Policy) WithMaxAttempts(n int) *Policy {
	if n > 0 {
		p.maxAttempts = n
	}
	return p
}

func (p *Policy) WithBaseDelay(d time.Duration) *Policy {
	if d > 0 {
		p.baseDelay = d
	}
	return p
}

// Send delivers one outbound message and returns the provider message id
// of the terminal attempt. The caller decides whether a final failure is
// user-visible or just logged.
func (p *Policy) Send(ctx context.Context, out messaging.Outbound) (string, error) {
	attempt := func(ctx context.Context) (string, error) {
		if out.Template != nil {
			payload, err := p.renderTemplate(out.Template)
			if err != nil {
				return "", err
			}
			return p.client.SendTemplate(ctx, out.Recipient, payload)
		}
		return p.client.SendText(ctx, out.Recipient, out.Text)
	}

	// Render once up front so schema violations fail fast with zero
	// network attempts.
	if out.Template != nil {
		if _, err := p.renderTemplate(out.Template); err != nil {
			return "", err
		}
	}

	var lastErr error
	for i := 0; i < p.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("delivery: %v: %w", err, messaging.ErrCancelled)
		}
		id, err := attempt(ctx)
		if err == nil {
			return id, nil
		}
		if messaging.AsCancelled(err) {
			return "", fmt.Errorf("delivery: attempt %d: %w", i+1, messaging.ErrCancelled)
		}
		if !messaging.IsRetryable(err) {
			return "", err
		}
		lastErr = err
		if i+1 < p.maxAttempts {
			p.logger.Warn("transient send failure, backing off",
				"attempt", i+1,
				"recipient", out.Recipient,
				"error", err,
			)
			if err := p.sleep(ctx, i); err != nil {
				return "", fmt.Errorf("delivery: %v: %w", err, messaging.ErrCancelled)
			}
		}
	}
	return "", fmt.Errorf("delivery: %d attempts exhausted: %w", p.maxAttempts, lastErr)
}

func (p *Policy) renderTemplate(ref *messaging.TemplateRef) (whatsapp.TemplatePayload, error) {
	if p.renderer == nil {
		return whatsapp.TemplatePayload{}, errors.New("delivery: no template renderer configured")
	}
	return p.renderer.Render(ref.Name, ref.Params)
}

// sleep waits base<<attempt with ±50% jitter, capped, honoring the
// caller's deadline so no retry timer dangles after cancellation. Jitter
// uses the top-level rand source; Send runs on concurrent goroutines.
func (p *Policy) sleep(ctx context.Context, attempt int) error {
	delay := p.baseDelay * time.Duration(1<<attempt)
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay))) - delay/2
	timer := time.NewTimer(delay + jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

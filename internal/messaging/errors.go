package messaging

import (
	"context"
	"errors"
)

// Error taxonomy for the messaging core. Callers classify with errors.Is;
// lower layers wrap these sentinels with context via fmt.Errorf("...: %w").
var (
	// ErrUnauthorized marks a webhook that failed token or signature
	// verification. Surfaced as HTTP 403, never retried.
	ErrUnauthorized = errors.New("messaging: unauthorized")

	// ErrMalformedRequest marks a webhook missing required headers or
	// carrying an unparsable body. Surfaced as HTTP 400.
	ErrMalformedRequest = errors.New("messaging: malformed request")

	// ErrUnknownTemplate is returned when rendering a template name that
	// was never registered.
	ErrUnknownTemplate = errors.New("messaging: unknown template")

	// ErrParameterMismatch is returned when supplied bindings do not
	// satisfy a template's positional arity or slot types.
	ErrParameterMismatch = errors.New("messaging: template parameter mismatch")

	// ErrTransient marks a provider failure worth retrying (429, 5xx,
	// network timeouts).
	ErrTransient = errors.New("messaging: transient provider failure")

	// ErrPermanent marks a provider rejection that retrying cannot fix
	// (bad recipient, bad payload, auth failure).
	ErrPermanent = errors.New("messaging: permanent provider failure")

	// ErrHandlerFailure marks a panic or error inside a registered
	// handler. Logged at the dispatcher boundary, never propagated to
	// the webhook acknowledgment path.
	ErrHandlerFailure = errors.New("messaging: handler failure")

	// ErrCancelled marks a delivery abandoned because the caller's
	// deadline expired mid-retry.
	ErrCancelled = errors.New("messaging: delivery cancelled")
)

// IsRetryable reports whether a delivery error should be retried by the
// delivery policy.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// AsCancelled maps context termination onto the taxonomy so callers see a
// single cancellation sentinel regardless of how the deadline fired.
func AsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTemporary         = errors.New("temporary failure")
	ErrMalformedResponse = errors.New("malformed assessment response")
	ErrQuotaExceeded     = errors.New("daily assessment quota exceeded")
)

// QuotaExceededError carries the UTC instant at which the caller's daily
// allowance resets. It unwraps to ErrQuotaExceeded so IsKind still applies.
type QuotaExceededError struct {
	OwnerID string
	Limit   int
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily assessment quota exceeded for owner %s (limit %d, resets %s)",
		e.OwnerID, e.Limit, e.ResetAt.Format(time.RFC3339))
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

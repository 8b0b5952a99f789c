package httpadapter

import (
	"errors"
	"net/http"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

// writeDomainError translates domain error kinds into HTTP responses. Quota
// denials include the reset instant so clients know when to try again.
func writeDomainError(w http.ResponseWriter, err error) {
	var quotaErr *domain.QuotaExceededError
	if errors.As(err, &quotaErr) {
		w.Header().Set("Retry-After", quotaErr.ResetAt.UTC().Format(http.TimeFormat))
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":    "daily assessment quota exceeded",
			"limit":    quotaErr.Limit,
			"reset_at": quotaErr.ResetAt.UTC().Format(time.RFC3339),
		})
		return
	}

	writeError(w, mapErrorToHTTPStatus(err), err.Error())
}

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

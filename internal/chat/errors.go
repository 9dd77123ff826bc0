package chat

import (
	"errors"
	"net/http"

	"github.com/yungbote/superfunded-backend/internal/platform/apierr"
)

// User-facing messages are fixed; upstream bodies are only ever logged.
var (
	ErrRateLimited      = apierr.New(http.StatusTooManyRequests, "rate_limited", errors.New("Rate limit exceeded. Please try again in a moment."))
	ErrQuotaExceeded    = apierr.New(http.StatusPaymentRequired, "quota_exceeded", errors.New("AI usage limit reached. Please try again later."))
	ErrUpstream         = apierr.New(http.StatusInternalServerError, "upstream_error", errors.New("AI service error"))
	ErrMalformedRequest = apierr.New(http.StatusBadRequest, "malformed_request", errors.New("malformed request"))
)

func malformed(msg string) *apierr.Error {
	return apierr.New(http.StatusBadRequest, ErrMalformedRequest.Code, errors.New(msg))
}

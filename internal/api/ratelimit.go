package api

import (
	"context"

	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/ratelimit"
)

// errTooManyRequests is returned when a client exceeds its rate limit.
var errTooManyRequests = &domainerrors.Error{
	Code:    domainerrors.CodeRateLimited,
	Message: "Too many requests. Please try again later.",
}

// checkRateLimit rejects the request when the caller's bucket is empty.
func (s *Server) checkRateLimit(ctx context.Context, limiter *ratelimit.KeyedRateLimiter, operation string) error {
	key := clientIP(ctx)
	if limiter.Allow(key) {
		return nil
	}
	s.logger.Warn("Rate limit exceeded", "ip", key, "operation", operation)
	return errTooManyRequests
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Limiter counts hits per subject within a scope.
type Limiter interface {
	Allow(ctx context.Context, scope, subject string) (bool, time.Duration, error)
}

// RateLimit rejects callers over the limit with 429, keyed by client IP.
// Limiter errors let the request through.
func RateLimit(limiter Limiter, scope string, log zerolog.Logger, onLimited func(scope string)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, reset, err := limiter.Allow(c.Request().Context(), scope, c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				return next(c)
			}
			if !ok {
				if onLimited != nil {
					onLimited(scope)
				}
				secs := int(reset.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}

package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "legumes/internal/errors"
)

// rateWindow is the fixed window rate limits are counted over.
const rateWindow = time.Minute

// Counter increments a windowed counter. A zero result means the count is unknown.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) int64
}

// RateLimit allows limit requests per client IP per minute on a route.
// It fails open: when the counter is unavailable every request passes.
func RateLimit(counter Counter, scope string, limit int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if counter == nil || limit <= 0 {
			return next
		}
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", scope, c.RealIP())
			if n := counter.Incr(c.Request().Context(), key, rateWindow); n > int64(limit) {
				c.Response().Header().Set(echo.HeaderRetryAfter, "60")
				return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.FailureResponse{
					Success: false,
					Error:   "Too many requests",
				})
			}
			return next(c)
		}
	}
}

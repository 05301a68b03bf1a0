package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/infrastructure/ratelimit"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
	"github.com/MichaelVenturi/House-marketplace/pkg/response"
)

// RateLimit throttles requests per client IP and route.
func RateLimit(limiter *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + " " + c.Path()

			allowed, wait := limiter.Allow(key)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("Rate limit hit for %s", key)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests(fmt.Sprintf("Too many attempts, try again in %d seconds", retryAfter)))
			}

			return next(c)
		}
	}
}

// Package middleware provides HTTP middleware for the pipeline API.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIKeyAuth validates the API key from the Authorization header, standing
// in for the hosting platform's function keys. Uses constant-time comparison
// to prevent timing attacks. An empty key disables the check (development).
func APIKeyAuth(apiKey string, logger *slog.Logger) echo.MiddlewareFunc {
	if apiKey == "" && logger != nil {
		logger.Warn("API_KEY not set - processor endpoint is UNSECURED")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()

			// Skip auth for health endpoints
			if strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/ready") {
				return next(c)
			}

			if apiKey == "" {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if logger != nil {
					logger.Warn("missing authorization header",
						slog.String("ip", c.RealIP()),
						slog.String("path", path))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{
					"error": "missing authorization header",
					"code":  "UNAUTHORIZED",
				})
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			token = strings.TrimSpace(token)

			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				if logger != nil {
					logger.Warn("invalid API key attempt",
						slog.String("ip", c.RealIP()),
						slog.String("path", path))
				}
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]string{
					"error": "invalid API key",
					"code":  "UNAUTHORIZED",
				})
			}

			return next(c)
		}
	}
}

package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"lokasi/internal/pkg/logger"
)

// LoggerMiddleware creates a middleware for request logging
func LoggerMiddleware(appLogger *logger.AppLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			path := c.Request().URL.Path
			raw := c.Request().URL.RawQuery

			err := next(c)

			latency := time.Since(start)
			statusCode := c.Response().Status

			if raw != "" {
				path = path + "?" + raw
			}

			fields := []logger.Field{
				logger.Int("status", statusCode),
				logger.Duration("latency", latency),
				logger.String("client_ip", c.RealIP()),
				logger.String("method", c.Request().Method),
				logger.String("path", path),
				logger.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			}

			// Log with appropriate level based on status code
			if statusCode >= 500 {
				appLogger.Error("Server error", fields...)
			} else if statusCode >= 400 {
				appLogger.Warn("Client error", fields...)
			} else {
				appLogger.Info("Request processed", fields...)
			}

			return err
		}
	}
}

package middleware

import (
	"github.com/google/uuid"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(logger.RequestIDKey, requestID)
		c.Response().Header().Set(logger.RequestIDKey, requestID)

		// Request-scoped logger
		c.Set("logger", logger.GetLogger().With(zap.String("request_id", requestID)))

		return next(c)
	}
}

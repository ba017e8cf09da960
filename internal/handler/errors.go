package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ivens03/microservices-padoca/internal/cart"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/internal/session"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError turns a failed operation into the JSON alert payload.
// Backend 4xx answers keep their status; anything else from the backend is a 502.
func respondError(c echo.Context, action string, err error) error {
	log := logger.FromContext(c)

	var validation *model.ValidationError
	var apiErr *padoca.APIError
	status := http.StatusBadGateway
	message := action + " failed"

	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		message = validation.Reason
	case errors.Is(err, cart.ErrEmpty):
		status = http.StatusBadRequest
		message = "cart is empty"
	case errors.Is(err, padoca.ErrUnauthenticated), session.IsMissing(err):
		status = http.StatusUnauthorized
		message = "login required"
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		status = apiErr.StatusCode
		if apiErr.Body != "" {
			message = message + ": " + apiErr.Body
		}
	case errors.Is(err, padoca.ErrTransport):
		message = action + " failed: backend unreachable"
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.String("action", action), zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.String("action", action), zap.Int("status", status), zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": message})
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, model.ErrInvalid(name + " must be a positive number")
	}
	return uint(id), nil
}

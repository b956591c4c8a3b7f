package http

import (
	"context"
	"errors"
	"net/http"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	var (
		insufficient *common.InsufficientPositionError
		conflict     *common.ConcurrentGenerationError
		gap          *common.DataGapError
	)
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &gap):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, log *logger.Logger, msg string, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), msg, logger.ErrorField(err), logger.StringField("path", c.Path()))
	}
	return c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

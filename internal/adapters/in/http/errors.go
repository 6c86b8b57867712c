package http

import (
	"errors"
	"net/http"

	"pickingpacking/internal/core/application/usecases/commands"
	"pickingpacking/internal/core/domain/model/event"
	"pickingpacking/internal/core/domain/model/order"
	"pickingpacking/internal/core/domain/model/resource"
	"pickingpacking/internal/core/domain/model/session"
	"pickingpacking/internal/core/domain/services"
	"pickingpacking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps a use case error to the HTTP status reported for it.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrOutOfSequenceLineUpdate),
		errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, resource.ErrResourceLeaseViolation),
		errors.Is(err, event.ErrEventAlreadyProcessed),
		errors.Is(err, commands.ErrDuplicateOrder):
		return http.StatusConflict
	case errors.Is(err, services.ErrResourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
		msg = http.StatusText(code)
	}
	return ctx.JSON(code, Error{Code: code, Message: msg})
}

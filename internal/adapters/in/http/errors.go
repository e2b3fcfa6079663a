package http

import (
	"errors"
	"net/http"

	"dispatch/internal/jobs"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type successBody struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respond(ctx echo.Context, status int, data any, message string) error {
	return ctx.JSON(status, successBody{Success: true, Data: data, Message: message})
}

// badRequestErrors are business rejections of the caller's request, as opposed
// to unknown resources or internal faults.
var badRequestErrors = []error{
	errs.ErrValidationFailed,
	errs.ErrInvalidTransition,
	errs.ErrTransitionNotPermitted,
	errs.ErrProgressionBlocked,
	errs.ErrNoCourierAssigned,
	errs.ErrAlreadyTerminal,
	errs.ErrValueIsRequired,
	errs.ErrValueIsInvalid,
	errs.ErrValueIsOutOfRange,
	jobs.ErrSimulationAlreadyRunning,
	jobs.ErrSimulationNotRunning,
}

func fail(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	default:
		for _, target := range badRequestErrors {
			if errors.Is(err, target) {
				status = http.StatusBadRequest
				break
			}
		}
	}
	return ctx.JSON(status, errorBody{Success: false, Error: err.Error()})
}

func failBadBody(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, errorBody{Success: false, Error: "invalid request body"})
}

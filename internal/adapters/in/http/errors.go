package http

import (
	"log/slog"
	"net/http"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware renders every handler error as the API's Error body.
type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	body := classify(err)
	if body.Code >= http.StatusInternalServerError {
		m.logger.Error("request failed",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
			slog.String("method", c.Request().Method),
		)
	} else {
		m.logger.Debug("request rejected",
			slog.Any("error", err),
			slog.Int("status", body.Code),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(body.Code)
		return
	}
	_ = c.JSON(body.Code, body)
}

// classify maps the lifecycle failure classes onto status codes. Order matters:
// a consistency failure may wrap an external one, and a declined payment is
// also an external failure.
func classify(err error) Error {
	var (
		consistency *errs.ConsistencyFailureError
		guardErr    *errs.GuardViolationError
		reqErr      *openapi3filter.RequestError
		validation  validator.ValidationErrors
		httpErr     *echo.HTTPError
	)

	switch {
	case errors.As(err, &consistency):
		if consistency.Compensated {
			return Error{Code: http.StatusConflict, Message: err.Error()}
		}
		return Error{Code: http.StatusInternalServerError, Message: "operation requires manual reconciliation"}
	case errors.Is(err, ports.ErrPaymentDeclined):
		return Error{Code: http.StatusPaymentRequired, Message: "payment declined"}
	case errors.Is(err, errs.ErrExternalFailure):
		return Error{Code: http.StatusBadGateway, Message: err.Error()}
	case errors.Is(err, errs.ErrConcurrentConflict):
		return Error{Code: http.StatusConflict, Message: err.Error()}
	case errors.As(err, &guardErr):
		return Error{Code: http.StatusUnprocessableEntity, Message: guardErr.Reason, Guard: guardErr.Guard}
	case errors.Is(err, errs.ErrObjectNotFound):
		return Error{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return Error{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.As(err, &reqErr):
		return Error{Code: http.StatusBadRequest, Message: reqErr.Error()}
	case errors.As(err, &validation):
		return Error{Code: http.StatusBadRequest, Message: validation.Error()}
	case errors.As(err, &httpErr):
		msg := http.StatusText(httpErr.Code)
		if s, ok := httpErr.Message.(string); ok {
			msg = s
		}
		return Error{Code: httpErr.Code, Message: msg}
	default:
		return Error{Code: http.StatusInternalServerError, Message: "internal server error"}
	}
}

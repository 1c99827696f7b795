// Package httputil implements the uniform response envelope shared by every
// endpoint: success {ok:true,data,trace_id}, failure
// {ok:false,error:{code,message,details?},trace_id}. Device-side gates
// pattern-match on the HTTP status plus the error code, so the mapping here is
// part of the wire protocol.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	apperrors "github.com/leadgrid/leadgrid/internal/errors"
)

// Envelope is the uniform response shape for all API endpoints.
type Envelope struct {
	OK      bool       `json:"ok"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	TraceID string     `json:"trace_id"`
}

// ErrorBody carries a machine-readable code plus a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error codes carried in the envelope. Clients never invent new codes; an
// unrecognized code degrades to a generic error screen.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodePaymentRequired   = "PAYMENT_REQUIRED"
	CodeInvalidToken      = "INVALID_PROVISION_TOKEN"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL"
)

// OK writes a success envelope with the given status and data.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{
		OK:      true,
		Data:    data,
		TraceID: requestid.Get(c),
	})
}

// Fail maps a domain error to an HTTP status and failure envelope.
// Unrecognized errors are reported as INTERNAL without exposing details; the
// trace id lets support correlate the response with server logs.
func Fail(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status, body := mapError(err)

	if status == http.StatusInternalServerError {
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("trace_id", requestid.Get(c)),
			slog.String("path", c.Request.URL.Path),
		)
	}

	c.JSON(status, Envelope{
		OK:      false,
		Error:   &body,
		TraceID: requestid.Get(c),
	})
}

// FailCoded writes a failure envelope with an explicit status and code.
// Handlers use it where the protocol requires a more specific code than the
// sentinel mapping produces (INVALID_PROVISION_TOKEN, INVALID_CREDENTIAL).
func FailCoded(c *gin.Context, status int, code, message string) {
	c.JSON(status, Envelope{
		OK:      false,
		Error:   &ErrorBody{Code: code, Message: message},
		TraceID: requestid.Get(c),
	})
}

// FailValidation reports a malformed request body or parameter.
func FailValidation(c *gin.Context, err error, logger *slog.Logger) {
	Fail(c, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()), logger)
}

func mapError(err error) (int, ErrorBody) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity, ErrorBody{
			Code:    CodeValidation,
			Message: err.Error(),
		}
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorBody{
			Code:    CodeNotFound,
			Message: err.Error(),
		}
	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorBody{
			Code:    CodeConflict,
			Message: err.Error(),
		}
	case apperrors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorBody{
			Code:    CodeUnauthenticated,
			Message: "authentication required",
		}
	case apperrors.Is(err, apperrors.ErrPaymentRequired):
		return http.StatusPaymentRequired, ErrorBody{
			Code:    CodePaymentRequired,
			Message: "an active license is required",
		}
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorBody{
			Code:    CodeRateLimited,
			Message: "too many requests",
		}
	default:
		return http.StatusInternalServerError, ErrorBody{
			Code:    CodeInternal,
			Message: "an internal error occurred",
		}
	}
}

package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/go-chi/render"
)

// statusFor maps an error kind to the HTTP status shown to the caller.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Response is the JSON body of every API reply.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func OK() Response {
	return Response{Status: "ok"}
}

// errorResponse hides internal detail: only validation messages reach the
// caller verbatim.
func errorResponse(err error) Response {
	msg := http.StatusText(statusFor(err))
	if errors.Is(err, common.ErrorValidation) {
		msg = err.Error()
	}
	return Response{Status: "error", Error: msg}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, statusFor(err))
	render.JSON(w, r, errorResponse(err))
}

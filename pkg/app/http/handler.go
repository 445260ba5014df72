// Package http holds the error-returning handler adapter and server lifecycle
// shared by the dashboard's HTTP surfaces.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
)

// HandlerFunc is an http handler that reports failures by returning them.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// HandleError adapts h for chi, writing returned errors with DefaultErrorHandler.
//
//	r.Get("/snapshot", apphttp.HandleError(h.snapshot))
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, err, middleware.GetReqID(r.Context()))
		}
	}
}

// DefaultErrorHandler writes err as an ErrorResponse. A ServiceError keeps its
// status and message; anything else becomes an opaque 500.
func DefaultErrorHandler(w http.ResponseWriter, err error) {
	writeError(w, err, "")
}

func writeError(w http.ResponseWriter, err error, requestID string) {
	resp := ErrorResponse{
		Error:     "Unexpected Service Error",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
	}

	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		resp.Error = svcErr.Message
		resp.Code = svcErr.StatusCode()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_ = json.NewEncoder(w).Encode(&resp)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/camden-git/persongraph/logger"
	"github.com/camden-git/persongraph/services"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	ID     string `json:"id,omitempty"`
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeAPIErrorDetail(w, httpStatus, APIErrorDetail{Code: code, Detail: detail})
}

func writeAPIErrorDetail(w http.ResponseWriter, httpStatus int, detail APIErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	detail.Status = strconv.Itoa(httpStatus)
	_ = json.NewEncoder(w).Encode(APIErrorResponse{Errors: []APIErrorDetail{detail}})
}

// StatusFor maps a service error kind to an HTTP status.
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError renders err. Internal errors get an error id that is
// logged with the cause; the cause itself is not sent to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	kind := services.KindOf(err)
	status := StatusFor(kind)

	if kind != services.KindInternal {
		writeAPIErrorDetail(w, status, APIErrorDetail{Code: kind.String(), Detail: err.Error()})
		return
	}

	errorID := uuid.NewString()
	log.Error("request failed",
		"error_id", errorID,
		"request_id", middleware.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeAPIErrorDetail(w, status, APIErrorDetail{
		ID:     errorID,
		Code:   kind.String(),
		Detail: "internal server error",
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/learnhub.net/internal/handlers/response"
	"gitlab.com/learnhub.net/internal/static/errs"
)

// maxBodyBytes bounds request bodies; submissions are source files.
const maxBodyBytes = 1 << 20

func ResponseWithJson(w http.ResponseWriter, statusCode int, data interface{}) {
	response.WriteSuccess(w, statusCode, data)
}

func ResponseError(w http.ResponseWriter, message string, code int) {
	response.WriteError(w, response.ErrorMessage{Message: message, StatusCode: code})
}

// ResponseServiceError maps a service error onto an HTTP status.
func ResponseServiceError(w http.ResponseWriter, err error) {
	ResponseError(w, err.Error(), StatusFromError(err))
}

func StatusFromError(err error) int {
	switch {
	case errors.Is(err, errs.NotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.InvalidRequest), errors.Is(err, errs.UnknownLanguage):
		return http.StatusBadRequest
	case errors.Is(err, errs.InvalidToken), errors.Is(err, errs.MissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, errs.InterpreterUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return nil
}

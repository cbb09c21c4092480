package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope for every JSON body the API writes
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

// ResponseError writes a failure envelope; an empty message falls back to the
// status text.
func ResponseError(w http.ResponseWriter, code int, message string, errors any) {
	if message == "" {
		message = http.StatusText(code)
	}
	ResponseJSON(w, code, false, message, nil, errors)
}

// 200
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// 201
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseError(w, http.StatusBadRequest, message, errors)
}

func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, message, nil)
}

func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, message, nil)
}

func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message, nil)
}

func ResponseConflict(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusConflict, message, nil)
}

func ResponseBadGateway(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusBadGateway, message, nil)
}

func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message, nil)
}

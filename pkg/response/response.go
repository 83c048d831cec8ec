package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"stockroom-api/pkg/apierror"
)

// Response is the standard success envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes a filtered listing.
type Meta struct {
	Count int `json:"count"`
	Total int `json:"total"`
}

// JSON sends a success envelope with the given status code.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, Response{Success: true, Data: data})
}

// JSONWithMeta sends a success envelope with listing metadata.
func JSONWithMeta(w http.ResponseWriter, statusCode int, data interface{}, count, total int) {
	writeJSON(w, statusCode, Response{Success: true, Data: data, Meta: &Meta{Count: count, Total: total}})
}

func writeJSON(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// Error sends an error envelope. Errors that are not *apierror.Error become
// a generic 500.
func Error(w http.ResponseWriter, err error) {
	apiErr := asAPIError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.StatusCode)
	w.Write(apiErr.ToJSON())
}

// Text sends a plain-text body.
func Text(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

// TextError sends only the error message as plain text, for clients that
// read the body with response.text().
func TextError(w http.ResponseWriter, err error) {
	apiErr := asAPIError(err)
	Text(w, apiErr.StatusCode, apiErr.Message)
}

func asAPIError(err error) *apierror.Error {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierror.InternalError("an unexpected error occurred")
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Created sends a 201 Created response with the created resource.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

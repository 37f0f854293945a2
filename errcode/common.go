package errcode

import "net/http"

// Module code 1 holds the errors shared by every HTTP endpoint.
var (
	ErrBadRequest = New(1, 1001, "common", "invalid request", http.StatusBadRequest)
	ErrValidation = New(1, 1010, "common", "validation failed", http.StatusBadRequest)
	ErrNotFound   = New(1, 1404, "common", "resource not found", http.StatusNotFound)
	ErrInternal   = New(1, 1500, "common", "internal server error", http.StatusInternalServerError)
)

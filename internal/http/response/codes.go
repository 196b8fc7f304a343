package response

import "net/http"

const (
	CodeBadRequest      = http.StatusBadRequest
	CodeUnauthorized    = http.StatusUnauthorized
	CodeForbidden       = http.StatusForbidden
	CodeNotFound        = http.StatusNotFound
	CodeTooManyRequests = http.StatusTooManyRequests
	CodeInternal        = http.StatusInternalServerError
	CodeUnavailable     = http.StatusServiceUnavailable
)

package xhttp

import "net/http"

const (
	StatusNotFound            = http.StatusNotFound
	StatusRequestTimeout      = http.StatusRequestTimeout
	StatusInternalServerError = http.StatusInternalServerError
)

// StatusText returns the standard text for an HTTP status code.
func StatusText(code int) string {
	return http.StatusText(code)
}

package http

import (
	"net/http"
	"net/url"
	"strings"
)

// MonthParam returns the sanitized month query parameter and whether it was given.
func MonthParam(query url.Values) (string, bool) {
	month := sanitizeInput(query.Get("month"))
	return month, month != ""
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET is a convenience function for read-only handlers.
func RequireGET(r *http.Request) *ResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

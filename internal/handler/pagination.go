package handler

import (
	"net/http"
	"strconv"
)

// ParseLimit reads an optional ?limit= query parameter. Missing or
// malformed values come back as 0 so the service applies its default.
func ParseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

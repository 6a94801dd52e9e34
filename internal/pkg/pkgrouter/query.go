package pkgrouter

import (
	"net/http"
	"strings"
)

// Query returns the trimmed value of a query string parameter.
func Query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

package wshandler

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	ws "github.com/Temutjin2k/ride-coordinator/pkg/wsHub"
)

// errorResponse is written before the upgrade, the client still speaks HTTP.
func errorResponse(w http.ResponseWriter, status int, message any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": message})
}

// sendError reports a failure over an upgraded connection.
func sendError(conn *ws.Conn, message any) error {
	return conn.Send(map[string]any{"error": message})
}

// originChecker allows any origin when allowed is empty.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.ContainsFunc(allowed, func(a string) bool {
			return strings.EqualFold(a, origin)
		})
	}
}

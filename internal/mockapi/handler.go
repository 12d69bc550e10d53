// Package mockapi is a local stand-in for a run API endpoint, used by tests
// and by the run-api-server script.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/biztositok/biztositok-go/api"
)

// Handler serves these functions under /api/run/:
//
//	echo   success, echoes params, query and X-* headers back under "data"
//	fail   failure with one error entry per "fields" param (comma separated)
//	text   a non-JSON body
//
// Any other function answers 404 with a JSON failure envelope.
type Handler struct {
	creds  api.Credentials
	logger *zap.Logger
	calls  atomic.Int64
}

// NewHandler returns a handler that accepts creds. Empty credentials accept
// every caller.
func NewHandler(creds api.Credentials, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{creds: creds, logger: logger}
}

// Calls returns how many requests were served.
func (h *Handler) Calls() int64 {
	return h.calls.Load()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls.Add(1)

	function, ok := strings.CutPrefix(r.URL.Path, "/"+api.RunRoute)
	if !ok || r.Method != http.MethodPost {
		writeJSON(w, http.StatusNotFound, failure("unknown route"))
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, failure("malformed form body"))
		return
	}

	var auth api.Credentials
	_ = json.Unmarshal([]byte(r.PostForm.Get("auth")), &auth)
	h.logger.Debug("mock call", zap.String("function", function), zap.String("user", auth.Username))

	if h.creds != (api.Credentials{}) && auth != h.creds {
		writeJSON(w, http.StatusUnauthorized, failure("authentication failed"))
		return
	}

	switch function {
	case "echo":
		writeJSON(w, http.StatusOK, map[string]any{
			"success": 1,
			"message": "ok",
			"data": map[string]any{
				"user":    auth.Username,
				"params":  flatten(r.PostForm, "auth"),
				"query":   flatten(r.URL.Query(), ""),
				"headers": customHeaders(r.Header),
			},
		})
	case "fail":
		var errs []any
		for _, field := range strings.Split(r.PostForm.Get("fields"), ",") {
			if field = strings.TrimSpace(field); field != "" {
				errs = append(errs, map[string]any{"field": field, "error_message": field + " is invalid"})
			}
		}
		body := failure("invalid input")
		body["errors"] = errs
		writeJSON(w, http.StatusOK, body)
	case "text":
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("maintenance"))
	default:
		writeJSON(w, http.StatusNotFound, failure("unknown function "+function))
	}
}

func failure(message string) map[string]any {
	return map[string]any{"success": 0, "message": message}
}

func flatten(values map[string][]string, skip string) map[string]string {
	out := make(map[string]string, len(values))
	for key, v := range values {
		if key == skip || len(v) == 0 {
			continue
		}
		out[key] = v[0]
	}
	return out
}

func customHeaders(h http.Header) map[string]string {
	out := map[string]string{}
	for key := range h {
		if strings.HasPrefix(key, "X-") {
			out[key] = h.Get(key)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

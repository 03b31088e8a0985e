package utilities

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON response contract of the contests API. Success
// responses carry {"status": ..., "data": {"count": N, "objects": [...]}},
// error responses carry {"status": "error", "error_description": ...}.
type Envelope map[string]any

// SuccessEnvelope builds a success envelope. An empty status defaults to
// "success"; a nil data omits the data field entirely.
func SuccessEnvelope(status string, data any) Envelope {
	if status == "" {
		status = "success"
	}
	if data == nil {
		return Envelope{"status": status}
	}
	return Envelope{"status": status, "data": data}
}

// ErrorEnvelope builds an error envelope with a human readable description.
func ErrorEnvelope(desc string) Envelope {
	return Envelope{"status": "error", "error_description": desc}
}

// Collection wraps a list payload with its count.
func Collection(count int, objects any) map[string]any {
	return map[string]any{"count": count, "objects": objects}
}

// WriteJSON writes v as a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

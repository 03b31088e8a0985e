package utilities

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestSuccessEnvelope(t *testing.T) {
	env := SuccessEnvelope("", nil)
	if env["status"] != "success" {
		t.Errorf("default status = %v, want success", env["status"])
	}
	if _, ok := env["data"]; ok {
		t.Error("nil data must omit the data field")
	}

	env = SuccessEnvelope("created", Collection(2, []int{1, 2}))
	if env["status"] != "created" {
		t.Errorf("status = %v, want created", env["status"])
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("data has wrong shape: %T", env["data"])
	}
	if data["count"] != 2 {
		t.Errorf("count = %v, want 2", data["count"])
	}
}

func TestErrorEnvelope(t *testing.T) {
	env := ErrorEnvelope("boom")
	if env["status"] != "error" || env["error_description"] != "boom" {
		t.Errorf("unexpected envelope: %v", env)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, 418, ErrorEnvelope("teapot"))

	if w.Code != 418 {
		t.Errorf("status = %d, want 418", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["error_description"] != "teapot" {
		t.Errorf("body = %v", body)
	}
}

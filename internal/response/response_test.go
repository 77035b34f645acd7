package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()

	headers := http.Header{"X-Trace-Id": []string{"abc"}}
	if err := JSONWithHeaders(w, http.StatusCreated, JSONObject{"status": "OK"}, headers); err != nil {
		t.Fatalf("JSONWithHeaders failed: %v", err)
	}

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if got := w.Header().Get("X-Trace-Id"); got != "abc" {
		t.Errorf("expected trace header, got %q", got)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if body["status"] != "OK" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestMetricsResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	mw := NewMetricsResponseWriter(rec)

	mw.WriteHeader(http.StatusTeapot)
	mw.WriteHeader(http.StatusOK)
	_, _ = mw.Write([]byte("hello"))

	if mw.StatusCode != http.StatusTeapot {
		t.Errorf("expected first status to stick, got %d", mw.StatusCode)
	}
	if mw.BytesCount != 5 {
		t.Errorf("expected 5 bytes, got %d", mw.BytesCount)
	}

	implicit := NewMetricsResponseWriter(httptest.NewRecorder())
	_, _ = implicit.Write([]byte("x"))
	if implicit.StatusCode != http.StatusOK {
		t.Errorf("expected implicit 200, got %d", implicit.StatusCode)
	}
}

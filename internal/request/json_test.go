package request

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type payload struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		strict  bool
		wantErr string
	}{
		{name: "valid", body: `{"name":"Ann","age":3}`},
		{name: "unknown field tolerated", body: `{"name":"Ann","extra":1}`},
		{name: "unknown field strict", body: `{"name":"Ann","extra":1}`, strict: true, wantErr: `unknown key "extra"`},
		{name: "empty", body: ``, wantErr: "must not be empty"},
		{name: "syntax", body: `{"name":}`, wantErr: "badly-formed JSON"},
		{name: "wrong type", body: `{"age":"three"}`, wantErr: `incorrect JSON type for field "age"`},
		{name: "two values", body: `{"name":"a"}{"name":"b"}`, wantErr: "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			var err error
			if tt.strict {
				err = DecodeJSONStrict(w, r, &dst)
			} else {
				err = DecodeJSON(w, r, &dst)
			}

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

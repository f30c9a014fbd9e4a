package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestSanitizePayloadMasksCredentials(t *testing.T) {
	payload := map[string]any{
		"username":     "ada",
		"password":     "secret",
		"Confirmation": "secret",
		"nested": map[string]any{
			"access-token": "abc",
		},
	}

	sanitized, ok := SanitizePayload(payload).(map[string]any)
	if !ok {
		t.Fatalf("expected map payload, got %T", SanitizePayload(payload))
	}
	if sanitized["username"] != "ada" {
		t.Fatalf("expected username to be kept, got %v", sanitized["username"])
	}
	if sanitized["password"] != "******" || sanitized["Confirmation"] != "******" {
		t.Fatalf("expected password fields masked, got %v", sanitized)
	}
	nested := sanitized["nested"].(map[string]any)
	if nested["access-token"] != "******" {
		t.Fatalf("expected nested token masked, got %v", nested)
	}
}

func TestErrorWritesJSONWithErrorField(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(defaultOutput()) })

	Error("trade service buy failed", errors.New("boom"), Fields{"password": "x", "symbol": "AAA"})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "trade service buy failed" {
		t.Fatalf("unexpected msg: %v", line["msg"])
	}
	if line["error"] != "boom" {
		t.Fatalf("expected error field, got %v", line["error"])
	}
	if line["password"] != "******" {
		t.Fatalf("expected masked password, got %v", line["password"])
	}
	if line["symbol"] != "AAA" {
		t.Fatalf("expected symbol field, got %v", line["symbol"])
	}
}

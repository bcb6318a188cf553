package configutil

import (
	"strings"
	"testing"
	"time"
)

func TestDecodeSettingsNormalizedKeys(t *testing.T) {
	var out struct {
		ServerURL string `mapstructure:"server_url"`
		TimeoutMS int    `mapstructure:"timeout_ms"`
	}
	in := map[string]any{
		"Server-URL": "http://localhost:8989",
		"timeoutms":  "2500",
	}
	if err := DecodeSettings(in, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ServerURL != "http://localhost:8989" {
		t.Fatalf("unexpected server url %q", out.ServerURL)
	}
	if out.TimeoutMS != 2500 {
		t.Fatalf("expected weak typing to coerce 2500, got %d", out.TimeoutMS)
	}
}

func TestValidateSettingsReportsMissingAndUnknown(t *testing.T) {
	err := ValidateSettings(map[string]any{
		"api_key": "",
		"bogus":   1,
	}, Schema{Required: []string{"api_key"}, Optional: []string{"model"}})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "missing: api_key") {
		t.Fatalf("expected missing api_key in %q", msg)
	}
	if !strings.Contains(msg, "unknown: bogus") {
		t.Fatalf("expected unknown bogus in %q", msg)
	}
}

func TestValidateSettingsAllowUnknown(t *testing.T) {
	err := ValidateSettings(map[string]any{
		"server_url": "http://localhost:8989",
		"extra":      true,
	}, Schema{Optional: []string{"server_url"}, AllowUnknown: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFallbackHelpers(t *testing.T) {
	if DurationMS(0, 10*time.Second) != 10*time.Second {
		t.Fatalf("expected fallback duration")
	}
	if DurationMS(250, time.Second) != 250*time.Millisecond {
		t.Fatalf("expected 250ms")
	}
	v := 5
	if IntValue(&v, 1) != 5 || IntValue(nil, 1) != 1 {
		t.Fatalf("IntValue fallback broken")
	}
	b := true
	if !BoolValue(&b, false) || BoolValue(nil, false) {
		t.Fatalf("BoolValue fallback broken")
	}
}

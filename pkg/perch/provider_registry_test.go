package perch

import (
	"strings"
	"testing"

	"github.com/perchvoice/perch/pkg/providers/canary"
	"github.com/perchvoice/perch/pkg/providers/mock"
)

func TestBuildSTTUnknownProvider(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.BuildSTT(VendorConfig{Provider: "whisper"}, nil, nil)
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestBuildCanaryFromSettings(t *testing.T) {
	r := DefaultRegistry()
	rec, err := r.BuildSTT(VendorConfig{
		Provider: "canary",
		Settings: map[string]any{
			"server_url": "http://stt.internal:8989",
			"language":   "fr",
			"timeout_ms": 5000,
		},
	}, nil, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer rec.Close()
	if _, ok := rec.(*canary.Recognizer); !ok {
		t.Fatalf("expected canary recognizer, got %T", rec)
	}
	if rec.Name() != "canary" {
		t.Fatalf("unexpected name %q", rec.Name())
	}
}

func TestBuildCanaryRejectsUnknownSetting(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.BuildSTT(VendorConfig{
		Provider: "canary",
		Settings: map[string]any{"endpoint": "http://x"},
	}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown: endpoint") {
		t.Fatalf("expected unknown-key error, got %v", err)
	}
}

func TestBuildDeepgramRequiresAPIKey(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.BuildSTT(VendorConfig{
		Provider: "deepgram",
		Settings: map[string]any{"model": "nova-2"},
	}, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("expected missing api_key error, got %v", err)
	}
}

func TestBuildMock(t *testing.T) {
	r := DefaultRegistry()
	rec, err := r.BuildSTT(VendorConfig{
		Provider: "MOCK",
		Settings: map[string]any{"transcript": "hi"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer rec.Close()
	if _, ok := rec.(*mock.Recognizer); !ok {
		t.Fatalf("expected mock recognizer, got %T", rec)
	}
}

package deepgram

import (
	"testing"
	"time"
)

func TestNewAppliesDefaults(t *testing.T) {
	r := New(Config{APIKey: "key"})
	if r.cfg.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", r.cfg.Model)
	}
	if r.cfg.Language != DefaultLanguage {
		t.Fatalf("expected default language, got %q", r.cfg.Language)
	}
	if r.cfg.SampleRate != DefaultSampleRate {
		t.Fatalf("expected default sample rate, got %d", r.cfg.SampleRate)
	}
	if r.cfg.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %v", r.cfg.Timeout)
	}
}

func TestNewKeepsExplicitConfig(t *testing.T) {
	r := New(Config{APIKey: "key", Model: "nova-3", Language: "de", SampleRate: 16000, Timeout: 5 * time.Second})
	if r.cfg.Model != "nova-3" || r.cfg.Language != "de" || r.cfg.SampleRate != 16000 {
		t.Fatalf("explicit config overwritten: %+v", r.cfg)
	}
}

func TestCapabilities(t *testing.T) {
	r := New(Config{APIKey: "key"})
	caps := r.Capabilities()
	if caps.Streaming || caps.InterimResults {
		t.Fatalf("prerecorded recognizer must be non-streaming: %+v", caps)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

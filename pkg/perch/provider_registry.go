package perch

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/perchvoice/perch/pkg/adapters/stt"
	"github.com/perchvoice/perch/pkg/configutil"
	"github.com/perchvoice/perch/pkg/metrics"
	"github.com/perchvoice/perch/pkg/providers/canary"
	"github.com/perchvoice/perch/pkg/providers/deepgram"
	"github.com/perchvoice/perch/pkg/providers/mock"
)

// STTFactory builds a recognizer from vendor settings.
type STTFactory func(settings map[string]any, logger *slog.Logger, obs metrics.Observer) (stt.Recognizer, error)

type Registry struct {
	stt map[string]STTFactory
}

func NewRegistry() *Registry {
	return &Registry{stt: make(map[string]STTFactory)}
}

func (r *Registry) RegisterSTT(name string, factory STTFactory) {
	r.stt[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *Registry) BuildSTT(cfg VendorConfig, logger *slog.Logger, obs metrics.Observer) (stt.Recognizer, error) {
	fn := r.stt[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", cfg.Provider)
	}
	return fn(cfg.Settings, logger, obs)
}

type canarySettings struct {
	ServerURL string `mapstructure:"server_url"`
	Language  string `mapstructure:"language"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

type deepgramSettings struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Language   string `mapstructure:"language"`
	SampleRate int    `mapstructure:"sample_rate"`
	TimeoutMS  int    `mapstructure:"timeout_ms"`
}

type mockSettings struct {
	Transcript string `mapstructure:"transcript"`
	Language   string `mapstructure:"language"`
	DelayMS    int    `mapstructure:"delay_ms"`
}

// DefaultRegistry wires the built-in providers.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterSTT("canary", func(settings map[string]any, logger *slog.Logger, obs metrics.Observer) (stt.Recognizer, error) {
		if err := configutil.ValidateSettings(settings, configutil.Schema{
			Optional: []string{"server_url", "language", "timeout_ms"},
		}); err != nil {
			return nil, fmt.Errorf("canary settings: %w", err)
		}
		var s canarySettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, fmt.Errorf("canary settings: %w", err)
		}
		return canary.New(canary.Config{
			ServerURL: s.ServerURL,
			Language:  s.Language,
			Timeout:   configutil.DurationMS(s.TimeoutMS, canary.DefaultTimeout),
			Logger:    logger,
			Observer:  obs,
		}), nil
	})

	r.RegisterSTT("deepgram", func(settings map[string]any, logger *slog.Logger, obs metrics.Observer) (stt.Recognizer, error) {
		if err := configutil.ValidateSettings(settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model", "language", "sample_rate", "timeout_ms"},
		}); err != nil {
			return nil, fmt.Errorf("deepgram settings: %w", err)
		}
		var s deepgramSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, fmt.Errorf("deepgram settings: %w", err)
		}
		if err := configutil.RequireString(s.APIKey, "stt.settings.api_key"); err != nil {
			return nil, err
		}
		return deepgram.New(deepgram.Config{
			APIKey:     s.APIKey,
			Model:      s.Model,
			Language:   s.Language,
			SampleRate: s.SampleRate,
			Timeout:    configutil.DurationMS(s.TimeoutMS, deepgram.DefaultTimeout),
			Logger:     logger,
		}), nil
	})

	r.RegisterSTT("mock", func(settings map[string]any, logger *slog.Logger, obs metrics.Observer) (stt.Recognizer, error) {
		var s mockSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, fmt.Errorf("mock settings: %w", err)
		}
		return mock.NewSTT(mock.STTConfig{
			Transcript: s.Transcript,
			Language:   s.Language,
			Delay:      time.Duration(s.DelayMS) * time.Millisecond,
		}), nil
	})

	return r
}

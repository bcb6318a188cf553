package mock

import (
	"context"
	"sync"
	"time"

	"github.com/perchvoice/perch/pkg/adapters/stt"
	"github.com/perchvoice/perch/pkg/audio"
	"github.com/perchvoice/perch/pkg/frames"
)

type STTConfig struct {
	Transcript string
	Language   string
	// Err, when set, is returned from every Recognize call wrapped as a
	// connection error, mimicking an unreachable vendor.
	Err error
	// Delay simulates vendor latency before each result.
	Delay time.Duration
}

// Recognizer is a canned batch recognizer for tests and host bring-up.
type Recognizer struct {
	cfg STTConfig

	mu       sync.Mutex
	calls    int
	lastPCM  int
	lastLang string
}

func NewSTT(cfg STTConfig) *Recognizer {
	if cfg.Transcript == "" {
		cfg.Transcript = "mock transcript"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Recognizer{cfg: cfg}
}

func (r *Recognizer) Name() string { return "mock_stt" }

func (r *Recognizer) Capabilities() stt.Capabilities {
	return stt.Capabilities{Streaming: false, InterimResults: false}
}

func (r *Recognizer) Recognize(ctx context.Context, buf frames.Buffer, params stt.RecognizeParams) (stt.Result, error) {
	if r.cfg.Delay > 0 {
		select {
		case <-time.After(r.cfg.Delay):
		case <-ctx.Done():
			return stt.Result{}, stt.NewConnectionError(ctx.Err())
		}
	}
	if r.cfg.Err != nil {
		return stt.Result{}, stt.NewConnectionError(r.cfg.Err)
	}

	lang := r.cfg.Language
	if params.Language != "" {
		lang = params.Language
	}

	r.mu.Lock()
	r.calls++
	r.lastPCM = len(audio.FlattenBuffer(buf))
	r.lastLang = lang
	r.mu.Unlock()

	return stt.Result{
		Type:     stt.EventFinalTranscript,
		Text:     r.cfg.Transcript,
		Language: lang,
	}, nil
}

func (r *Recognizer) Close() error { return nil }

// Calls reports how many Recognize calls completed successfully.
func (r *Recognizer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// LastPCMLen reports the flattened byte length of the last buffer received.
func (r *Recognizer) LastPCMLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPCM
}

// LastLanguage reports the effective language of the last call.
func (r *Recognizer) LastLanguage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastLang
}

var _ stt.Recognizer = (*Recognizer)(nil)

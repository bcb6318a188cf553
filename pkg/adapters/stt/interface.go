package stt

import (
	"context"
	"time"

	"github.com/perchvoice/perch/pkg/frames"
)

// EventType classifies a recognition result.
type EventType string

const (
	// EventFinalTranscript is a complete recognition of the whole submitted
	// buffer. Batch recognizers only ever produce this.
	EventFinalTranscript EventType = "final_transcript"
)

// Result is a completed recognition of one audio buffer.
type Result struct {
	Type     EventType
	Text     string
	Language string
}

// TextFrame converts a result into a frame for downstream pipeline stages,
// stamped with the source adapter and language.
func (r Result) TextFrame(streamID string, pts int64) frames.TextFrame {
	return frames.NewTextFrame(streamID, pts, r.Text, map[string]string{
		frames.MetaSource:   "stt",
		frames.MetaLanguage: r.Language,
		frames.MetaIsFinal:  "true",
	})
}

// Capabilities describes what a recognizer supports.
type Capabilities struct {
	Streaming      bool
	InterimResults bool
}

// ConnectOptions bounds a single recognition call.
type ConnectOptions struct {
	// Timeout caps the whole network round trip. Zero means the provider
	// default.
	Timeout time.Duration
}

// RecognizeParams carries per-call overrides. Overrides apply to the single
// call they are passed to and never touch the recognizer's configuration.
type RecognizeParams struct {
	// Language overrides the configured language code when non-empty.
	Language string
	// TraceID correlates the call with the host's pipeline trace. Providers
	// attach it to their logs and metrics when non-empty.
	TraceID string
	Conn    ConnectOptions
}

// Recognizer is the contract for one-shot, non-streaming STT vendors.
// Implementations are safe for concurrent use; each call is independent.
type Recognizer interface {
	// Name returns the adapter name for logging/metrics.
	Name() string
	// Capabilities reports what the vendor supports.
	Capabilities() Capabilities
	// Recognize transcribes one complete audio buffer. Failures of any
	// variety surface as a *ConnectionError.
	Recognize(ctx context.Context, buf frames.Buffer, params RecognizeParams) (Result, error)
	// Close releases pooled resources. Safe to call more than once; never
	// fails the caller's shutdown path.
	Close() error
}

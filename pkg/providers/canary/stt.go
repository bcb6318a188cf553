package canary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/perchvoice/perch/pkg/adapters/stt"
	"github.com/perchvoice/perch/pkg/audio"
	"github.com/perchvoice/perch/pkg/errorsx"
	"github.com/perchvoice/perch/pkg/frames"
	"github.com/perchvoice/perch/pkg/logging"
	"github.com/perchvoice/perch/pkg/metrics"
)

const (
	DefaultServerURL  = "http://localhost:8989"
	DefaultLanguage   = "en"
	DefaultSampleRate = 24000
	DefaultTimeout    = 10 * time.Second

	transcribePath = "/v1/transcribe/canary"
	userAgent      = "CanarySTT/1.0"
)

// Options is the live recognizer configuration. Recognize works on a
// per-call copy, so an in-flight request never sees a concurrent update.
type Options struct {
	ServerURL string
	Language  string
}

// Config configures a Recognizer. Zero values take the package defaults.
type Config struct {
	ServerURL string
	Language  string
	// Timeout bounds each request unless overridden per call.
	Timeout  time.Duration
	Logger   *slog.Logger
	Observer metrics.Observer
}

// Recognizer is a one-shot transcription client for a co-located canary
// speech service. It keeps a pool of reusable connections, performs no
// retries, and reports every failure as a single connection-error kind.
type Recognizer struct {
	mu      sync.RWMutex
	opts    Options
	timeout time.Duration

	httpClient *http.Client
	logger     *slog.Logger
	obs        metrics.Observer
}

// StatusError is the internal detail for a non-2xx response. Hosts only see
// the wrapping stt.ConnectionError; this carries the diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transcription failed with status %d: %s", e.Code, e.Body)
}

type transcribeResponse struct {
	Text           string  `json:"text"`
	ProcessingTime float64 `json:"processing_time"`
	AudioDuration  float64 `json:"audio_duration"`
}

// New creates a Recognizer with a transport tuned for short requests to a
// localhost or LAN service: a reusable keep-alive pool with a long idle
// timeout, falling back to fresh connections instead of queuing when the
// pool is exhausted.
func New(cfg Config) *Recognizer {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Observer == nil {
		cfg.Observer = metrics.NoopObserver{}
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     5 * time.Minute,
	}

	return &Recognizer{
		opts: Options{
			ServerURL: strings.TrimRight(cfg.ServerURL, "/"),
			Language:  cfg.Language,
		},
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Transport: transport},
		logger:     logging.NewComponentLogger(cfg.Logger, "canary_stt"),
		obs:        cfg.Observer,
	}
}

func (r *Recognizer) Name() string { return "canary" }

func (r *Recognizer) Capabilities() stt.Capabilities {
	return stt.Capabilities{Streaming: false, InterimResults: false}
}

// UpdateOptions applies a partial configuration update. Empty fields leave
// the current value unchanged. The URL is not validated here; a malformed
// one surfaces at request time as a connection error.
func (r *Recognizer) UpdateOptions(serverURL, language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if serverURL != "" {
		r.opts.ServerURL = strings.TrimRight(serverURL, "/")
	}
	if language != "" {
		r.opts.Language = language
	}
}

// snapshotOptions copies the live options, applying a per-call language
// override without touching the shared configuration.
func (r *Recognizer) snapshotOptions(language string) Options {
	r.mu.RLock()
	opts := r.opts
	r.mu.RUnlock()
	if language != "" {
		opts.Language = language
	}
	return opts
}

// Recognize transcribes one complete buffer with a single blocking POST.
// The body is the buffer's WAV encoding minus the 44-byte header, i.e. raw
// little-endian PCM; the sample rate travels as a query parameter.
func (r *Recognizer) Recognize(ctx context.Context, buf frames.Buffer, params stt.RecognizeParams) (stt.Result, error) {
	opts := r.snapshotOptions(params.Language)
	requestID := uuid.NewString()
	log := r.logger
	if params.TraceID != "" {
		log = log.With(slog.String(frames.MetaTraceID, params.TraceID))
	}

	rate := buf.Rate()
	if rate == 0 {
		rate = DefaultSampleRate
	}

	// Flatten into pooled scratch; EncodeWAV copies, so the scratch can go
	// back to the pool as soon as this call returns.
	scratch := frames.AcquireAudioBuf(buf.Len())
	defer frames.ReleaseAudioBuf(scratch)
	n := audio.FlattenInto(scratch, buf)

	wav, err := audio.EncodeWAV(scratch[:n], rate)
	if err != nil {
		log.Error("audio encode failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, errorsx.ReasonSTTEncode))
	}
	payload, err := audio.StripWAVHeader(wav)
	if err != nil {
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, errorsx.ReasonSTTEncode))
	}

	timeout := params.Conn.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.ServerURL+transcribePath, bytes.NewReader(payload))
	if err != nil {
		log.Error("request build failed",
			slog.String("request_id", requestID),
			slog.String("server_url", opts.ServerURL),
			slog.String("error", err.Error()))
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, errorsx.ReasonSTTConnect))
	}
	q := req.URL.Query()
	q.Set("sample_rate", strconv.Itoa(rate))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		reason := errorsx.ReasonSTTConnect
		if isTimeout(err) {
			reason = errorsx.ReasonSTTTimeout
		}
		log.Error("transcription request failed",
			slog.String("request_id", requestID),
			slog.String("server_url", opts.ServerURL),
			slog.String("reason", string(reason)),
			slog.String("error", err.Error()))
		r.record(requestID, params.TraceID, string(reason), time.Since(start), nil)
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, reason))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("response read failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		r.record(requestID, params.TraceID, string(errorsx.ReasonSTTConnect), time.Since(start), nil)
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, errorsx.ReasonSTTConnect))
	}

	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		sErr := &StatusError{Code: resp.StatusCode, Body: string(body)}
		reason := errorsx.ReasonSTTStatus
		if resp.StatusCode == http.StatusTooManyRequests {
			reason = errorsx.ReasonSTTRateLimit
		}
		log.Error("transcription failed",
			slog.String("request_id", requestID),
			slog.Int("status", sErr.Code),
			slog.String("reason", string(reason)),
			slog.String("body", sErr.Body))
		r.record(requestID, params.TraceID, string(reason), elapsed, nil)
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(sErr, reason))
	}

	// Missing fields are tolerated; only undecodable bodies fail.
	var parsed transcribeResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err != nil {
			log.Error("response decode failed",
				slog.String("request_id", requestID),
				slog.String("error", err.Error()))
			r.record(requestID, params.TraceID, string(errorsx.ReasonSTTDecode), elapsed, nil)
			return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, errorsx.ReasonSTTDecode))
		}
	}

	text := strings.TrimSpace(parsed.Text)
	log.Info("transcription successful",
		slog.String("request_id", requestID),
		slog.Duration("total", elapsed),
		slog.Float64("processing_time_s", parsed.ProcessingTime),
		slog.Float64("audio_duration_s", parsed.AudioDuration),
		slog.String("language", opts.Language),
		slog.String("transcript", text))
	r.record(requestID, params.TraceID, "ok", elapsed, &parsed)

	return stt.Result{
		Type:     stt.EventFinalTranscript,
		Text:     text,
		Language: opts.Language,
	}, nil
}

// Close drops pooled idle connections. It is safe to call repeatedly and
// never fails: disposal is best-effort resource release, not a durability
// guarantee.
func (r *Recognizer) Close() error {
	r.httpClient.CloseIdleConnections()
	r.logger.Debug("connection pool released")
	return nil
}

func (r *Recognizer) record(requestID, traceID, status string, elapsed time.Duration, parsed *transcribeResponse) {
	ev := metrics.Event{
		Name:  "stt_request",
		Time:  time.Now(),
		Value: elapsed.Seconds(),
		Tags: map[string]string{
			"provider":           r.Name(),
			frames.MetaRequestID: requestID,
			"status":             status,
		},
	}
	if traceID != "" {
		ev.Tags[frames.MetaTraceID] = traceID
	}
	if parsed != nil {
		ev.Fields = map[string]any{
			"processing_time_s": parsed.ProcessingTime,
			"audio_duration_s":  parsed.AudioDuration,
		}
	}
	r.obs.RecordEvent(ev)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

var _ stt.Recognizer = (*Recognizer)(nil)

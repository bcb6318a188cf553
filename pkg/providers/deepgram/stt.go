package deepgram

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/perchvoice/perch/pkg/adapters/stt"
	"github.com/perchvoice/perch/pkg/audio"
	"github.com/perchvoice/perch/pkg/errorsx"
	"github.com/perchvoice/perch/pkg/frames"
	"github.com/perchvoice/perch/pkg/logging"
)

const (
	DefaultModel      = "nova-2"
	DefaultLanguage   = "en"
	DefaultSampleRate = 24000
	DefaultTimeout    = 30 * time.Second
)

type Config struct {
	APIKey     string
	Model      string
	Language   string
	SampleRate int
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Recognizer performs one-shot prerecorded transcription through Deepgram's
// REST API, behind the same contract as the local canary recognizer.
type Recognizer struct {
	cfg      Config
	dgClient *client.RESTClient
	logger   *slog.Logger
}

func New(cfg Config) *Recognizer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := client.NewREST(cfg.APIKey, &interfaces.ClientOptions{})

	return &Recognizer{
		cfg:      cfg,
		dgClient: c,
		logger:   logging.NewComponentLogger(cfg.Logger, "deepgram_stt"),
	}
}

func (r *Recognizer) Name() string { return "deepgram_prerecorded" }

func (r *Recognizer) Capabilities() stt.Capabilities {
	return stt.Capabilities{Streaming: false, InterimResults: false}
}

func (r *Recognizer) Recognize(ctx context.Context, buf frames.Buffer, params stt.RecognizeParams) (stt.Result, error) {
	lang := r.cfg.Language
	if params.Language != "" {
		lang = params.Language
	}

	rate := buf.Rate()
	if rate == 0 {
		rate = r.cfg.SampleRate
	}

	// Deepgram sniffs the container, so the full WAV goes on the wire here,
	// header included.
	wav, err := audio.EncodeWAV(audio.FlattenBuffer(buf), rate)
	if err != nil {
		r.logger.Error("audio encode failed", slog.String("error", err.Error()))
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, errorsx.ReasonSTTEncode))
	}

	timeout := params.Conn.Timeout
	if timeout <= 0 {
		timeout = r.cfg.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       r.cfg.Model,
		Language:    lang,
		SmartFormat: true,
	}

	dg := api.New(r.dgClient)
	start := time.Now()
	res, err := dg.FromStream(ctx, bytes.NewReader(wav), options)
	if err != nil {
		r.logger.Error("deepgram request failed",
			slog.String("model", r.cfg.Model),
			slog.String("error", err.Error()))
		return stt.Result{}, stt.NewConnectionError(errorsx.Wrap(err, errorsx.ReasonSTTConnect))
	}

	text := ""
	if res != nil && len(res.Results.Channels) > 0 && len(res.Results.Channels[0].Alternatives) > 0 {
		text = strings.TrimSpace(res.Results.Channels[0].Alternatives[0].Transcript)
	}

	r.logger.Info("transcription successful",
		slog.Duration("total", time.Since(start)),
		slog.String("model", r.cfg.Model),
		slog.String("language", lang),
		slog.String("transcript", text))

	return stt.Result{
		Type:     stt.EventFinalTranscript,
		Text:     text,
		Language: lang,
	}, nil
}

func (r *Recognizer) Close() error { return nil }

var _ stt.Recognizer = (*Recognizer)(nil)

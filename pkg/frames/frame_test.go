package frames

import (
	"bytes"
	"testing"
)

func TestPooledFrameCopiesPayload(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	f := NewAudioFrameFromPool("s1", 10, src, 24000, 1, nil)

	// The frame owns its copy; mutating the source must not leak in.
	src[0] = 99
	if !bytes.Equal(f.RawPayload(), []byte{1, 2, 3, 4}) {
		t.Fatalf("pooled frame shares memory with source: %v", f.RawPayload())
	}
	if f.PTS() != 10 || f.Rate() != 24000 || f.Channels() != 1 {
		t.Fatalf("unexpected frame attributes %d/%d/%d", f.PTS(), f.Rate(), f.Channels())
	}
}

func TestReleaseAudioFrameReportsPooling(t *testing.T) {
	pooled := NewAudioFrameFromPool("s1", 1, []byte{1, 2}, 24000, 1, nil)
	plain := NewAudioFrame("s1", 2, []byte{3, 4}, 24000, 1, nil)

	if !ReleaseAudioFrame(pooled) {
		t.Fatalf("pooled frame must return its buffer")
	}
	if ReleaseAudioFrame(plain) {
		t.Fatalf("caller-owned frame must not be pooled")
	}
	if ReleaseAudioFrame(NewTextFrame("s1", 3, "hi", nil)) {
		t.Fatalf("text frame has no audio buffer to release")
	}
}

func TestAcquireAudioBufReuse(t *testing.T) {
	b := AcquireAudioBuf(8)
	if len(b) != 8 {
		t.Fatalf("expected 8-byte slice, got %d", len(b))
	}
	ReleaseAudioBuf(b)

	big := AcquireAudioBuf(1 << 16)
	if len(big) != 1<<16 {
		t.Fatalf("expected grown slice, got %d", len(big))
	}
	ReleaseAudioBuf(big)
}

func TestBufferLenAndRate(t *testing.T) {
	buf := Buffer{
		NewAudioFrame("s1", 1, make([]byte, 100), 24000, 1, nil),
		NewAudioFrame("s1", 2, make([]byte, 60), 24000, 1, nil),
	}
	if buf.Len() != 160 {
		t.Fatalf("expected 160 bytes, got %d", buf.Len())
	}
	if buf.Rate() != 24000 {
		t.Fatalf("expected rate 24000, got %d", buf.Rate())
	}
	if (Buffer{}).Rate() != 0 {
		t.Fatalf("empty buffer must report rate 0")
	}
}

func TestFrameMetaIsIsolated(t *testing.T) {
	f := NewAudioFrame("stream-1", 1, []byte{1}, 24000, 1, map[string]string{MetaLanguage: "en"})
	m := f.Meta()
	if m[MetaStreamID] != "stream-1" || m[MetaLanguage] != "en" {
		t.Fatalf("unexpected meta %v", m)
	}
	m[MetaLanguage] = "fr"
	if f.Meta()[MetaLanguage] != "en" {
		t.Fatalf("meta mutation leaked into the frame")
	}
}

func TestTextFrameCarriesText(t *testing.T) {
	tf := NewTextFrame("stream-1", 5, "hello", map[string]string{MetaIsFinal: "true"})
	if tf.Kind() != KindText {
		t.Fatalf("unexpected kind %s", tf.Kind())
	}
	if tf.Text() != "hello" || tf.PTS() != 5 {
		t.Fatalf("unexpected text frame %q pts %d", tf.Text(), tf.PTS())
	}
	if tf.Meta()[MetaIsFinal] != "true" {
		t.Fatalf("unexpected meta %v", tf.Meta())
	}
}

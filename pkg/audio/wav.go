package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/perchvoice/perch/pkg/frames"
)

// HeaderSize is the length of the fixed WAV preamble written by EncodeWAV.
// Everything after it is raw little-endian PCM.
const HeaderSize = 44

// Header is the 44-byte RIFF/WAVE preamble for 16-bit mono PCM.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // PCM byte length
}

// FlattenBuffer concatenates the PCM payloads of a frame buffer, in order,
// into one contiguous byte slice.
func FlattenBuffer(buf frames.Buffer) []byte {
	out := make([]byte, buf.Len())
	FlattenInto(out, buf)
	return out
}

// FlattenInto copies the PCM payloads of a frame buffer, in order, into dst.
// dst must hold at least buf.Len() bytes; callers that flatten per request
// pass a slice from frames.AcquireAudioBuf to avoid churning allocations.
// It returns the number of bytes written.
func FlattenInto(dst []byte, buf frames.Buffer) int {
	n := 0
	for _, f := range buf {
		n += copy(dst[n:], f.RawPayload())
	}
	return n
}

// EncodeWAV wraps raw 16-bit mono little-endian PCM bytes in a WAV container.
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	const channels = 1
	const bitsPerSample = 16
	dataSize := uint32(len(pcm))

	hdr := Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * channels * bitsPerSample / 8,
		BlockAlign:    channels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(pcm)))
	if err := binary.Write(buf, binary.LittleEndian, hdr); err != nil {
		return nil, fmt.Errorf("write WAV header: %w", err)
	}
	buf.Write(pcm)
	return buf.Bytes(), nil
}

// StripWAVHeader returns the raw PCM payload of a WAV encoding, i.e. the
// bytes after the fixed 44-byte preamble.
func StripWAVHeader(wav []byte) ([]byte, error) {
	if len(wav) < HeaderSize {
		return nil, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", HeaderSize, len(wav))
	}
	return wav[HeaderSize:], nil
}

// DecodeHeader parses and validates the preamble of a WAV encoding. It
// accepts only the 16-bit mono PCM layout EncodeWAV produces.
func DecodeHeader(wav []byte) (Header, error) {
	var hdr Header
	if len(wav) < HeaderSize {
		return hdr, fmt.Errorf("WAV data too short: need at least %d bytes, got %d", HeaderSize, len(wav))
	}
	if err := binary.Read(bytes.NewReader(wav), binary.LittleEndian, &hdr); err != nil {
		return hdr, fmt.Errorf("read WAV header: %w", err)
	}
	if string(hdr.ChunkID[:]) != "RIFF" || string(hdr.Format[:]) != "WAVE" {
		return hdr, fmt.Errorf("not a RIFF/WAVE stream")
	}
	if string(hdr.Subchunk1ID[:]) != "fmt " || string(hdr.Subchunk2ID[:]) != "data" {
		return hdr, fmt.Errorf("unexpected chunk layout")
	}
	if hdr.AudioFormat != 1 {
		return hdr, fmt.Errorf("unsupported audio format %d, only PCM is supported", hdr.AudioFormat)
	}
	if hdr.BitsPerSample != 16 {
		return hdr, fmt.Errorf("unsupported bit depth %d, only 16-bit is supported", hdr.BitsPerSample)
	}
	if hdr.NumChannels != 1 {
		return hdr, fmt.Errorf("unsupported channel count %d, only mono is supported", hdr.NumChannels)
	}
	return hdr, nil
}

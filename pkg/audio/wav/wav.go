// Package wav reads and writes PCM WAV containers. Every TTS provider in
// this pipeline normalizes its output to WAV, so this package is the only
// audio container code the rest of the system needs: duration probing for
// the timing offset bookkeeping, and concatenation of per-turn files into
// the final reel track.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Format describes the PCM layout of a WAV file. Only 16-bit signed
// integer samples are supported; all providers emit L16.
type Format struct {
	SampleRate int
	Channels   int
}

// bytesPerFrame is the byte width of one sample frame.
func (f Format) bytesPerFrame() int {
	return f.Channels * 2
}

// Duration returns the play time in seconds of dataBytes of PCM in this
// format.
func (f Format) Duration(dataBytes int) float64 {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return 0
	}
	return float64(dataBytes) / float64(f.SampleRate*f.bytesPerFrame())
}

// Encode writes a WAV file (44-byte canonical header plus PCM data).
func Encode(w io.Writer, pcm []byte, f Format) error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("wav: invalid format %+v", f)
	}
	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(f.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(f.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(f.SampleRate*f.bytesPerFrame()))
	binary.Write(&buf, binary.LittleEndian, uint16(f.bytesPerFrame()))
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes a WAV file to path, creating it if needed.
func WriteFile(path string, pcm []byte, f Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: create %s: %w", path, err)
	}
	if err := Encode(file, pcm, f); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}

// Decode parses a WAV stream and returns its format and PCM payload.
// Chunks other than "fmt " and "data" are skipped, so files with LIST or
// fact chunks (some encoders add them) decode fine.
func Decode(r io.Reader) (Format, []byte, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Format{}, nil, fmt.Errorf("wav: read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Format{}, nil, fmt.Errorf("wav: not a RIFF/WAVE stream")
	}

	var (
		f       Format
		haveFmt bool
		data    []byte
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return Format{}, nil, fmt.Errorf("wav: read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return Format{}, nil, fmt.Errorf("wav: read fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return Format{}, nil, fmt.Errorf("wav: fmt chunk too short")
			}
			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			if audioFormat != 1 {
				return Format{}, nil, fmt.Errorf("wav: unsupported audio format %d (want PCM)", audioFormat)
			}
			bits := binary.LittleEndian.Uint16(body[14:16])
			if bits != 16 {
				return Format{}, nil, fmt.Errorf("wav: unsupported bit depth %d (want 16)", bits)
			}
			f.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			haveFmt = true
		case "data":
			data = make([]byte, size)
			n, err := io.ReadFull(r, data)
			if err == io.ErrUnexpectedEOF {
				// Truncated data chunk; keep what was read. Streamed
				// writers sometimes under-deliver the declared size.
				data = data[:n]
			} else if err != nil {
				return Format{}, nil, fmt.Errorf("wav: read data chunk: %w", err)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				break
			}
		}
		// Chunks are word-aligned; skip the pad byte for odd sizes.
		if size%2 == 1 {
			io.CopyN(io.Discard, r, 1)
		}
	}

	if !haveFmt {
		return Format{}, nil, fmt.Errorf("wav: missing fmt chunk")
	}
	if data == nil {
		return Format{}, nil, fmt.Errorf("wav: missing data chunk")
	}
	return f, data, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (Format, []byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return Format{}, nil, fmt.Errorf("wav: open %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file)
}

// FileDuration returns the play time in seconds of the WAV file at path.
func FileDuration(path string) (float64, error) {
	f, pcm, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	return f.Duration(len(pcm)), nil
}

package wav_test

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/reelgen/reelgen/pkg/audio/wav"
)

// sine generates n frames of mono 16-bit PCM.
func sine(n int, rate int) []byte {
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		s := int16(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		pcm[i*2] = byte(s)
		pcm[i*2+1] = byte(s >> 8)
	}
	return pcm
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := wav.Format{SampleRate: 24000, Channels: 1}
	pcm := sine(24000, 24000) // exactly one second

	var buf bytes.Buffer
	if err := wav.Encode(&buf, pcm, f); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, data, err := wav.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != f {
		t.Fatalf("format = %+v, want %+v", got, f)
	}
	if !bytes.Equal(data, pcm) {
		t.Fatal("PCM payload changed in round trip")
	}
	if d := got.Duration(len(data)); math.Abs(d-1.0) > 1e-9 {
		t.Fatalf("duration = %v, want 1.0", d)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := wav.Decode(bytes.NewReader([]byte("not a wav file at all"))); err == nil {
		t.Fatal("Decode accepted garbage")
	}
}

func TestFileDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "half.wav")
	f := wav.Format{SampleRate: 22050, Channels: 1}
	if err := wav.WriteFile(path, sine(11025, 22050), f); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := wav.FileDuration(path)
	if err != nil {
		t.Fatalf("FileDuration: %v", err)
	}
	if math.Abs(d-0.5) > 1e-9 {
		t.Fatalf("duration = %v, want 0.5", d)
	}
}

func TestConcatSameRate(t *testing.T) {
	dir := t.TempDir()
	f := wav.Format{SampleRate: 24000, Channels: 1}
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	if err := wav.WriteFile(a, sine(24000, 24000), f); err != nil {
		t.Fatal(err)
	}
	if err := wav.WriteFile(b, sine(12000, 24000), f); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.wav")
	d, err := wav.Concat([]string{a, b}, out)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if math.Abs(d-1.5) > 1e-9 {
		t.Fatalf("duration = %v, want 1.5", d)
	}

	gotF, pcm, err := wav.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if gotF.SampleRate != 24000 || gotF.Channels != 1 {
		t.Fatalf("output format = %+v", gotF)
	}
	if len(pcm) != (24000+12000)*2 {
		t.Fatalf("output has %d PCM bytes, want %d", len(pcm), (24000+12000)*2)
	}
}

func TestConcatMixedRates(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	// One second at each rate; output should be ~2s at the higher rate.
	if err := wav.WriteFile(a, sine(44100, 44100), wav.Format{SampleRate: 44100, Channels: 1}); err != nil {
		t.Fatal(err)
	}
	if err := wav.WriteFile(b, sine(22050, 22050), wav.Format{SampleRate: 22050, Channels: 1}); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.wav")
	d, err := wav.Concat([]string{a, b}, out)
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	// Resampler latency can shave a few ms; allow a loose tolerance.
	if math.Abs(d-2.0) > 0.05 {
		t.Fatalf("duration = %v, want ~2.0", d)
	}

	gotF, _, err := wav.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if gotF.SampleRate != 44100 {
		t.Fatalf("output rate = %d, want 44100", gotF.SampleRate)
	}
}

func TestConcatEmpty(t *testing.T) {
	if _, err := wav.Concat(nil, filepath.Join(t.TempDir(), "out.wav")); err == nil {
		t.Fatal("Concat with no inputs succeeded")
	}
}

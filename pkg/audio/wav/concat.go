package wav

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Concat joins the WAV files at paths, in order, into a single mono WAV at
// outPath. Inputs with differing sample rates are resampled to the highest
// rate among them; stereo inputs are downmixed. Returns the duration in
// seconds of the concatenated audio.
func Concat(paths []string, outPath string) (float64, error) {
	if len(paths) == 0 {
		return 0, fmt.Errorf("wav: concat: no input files")
	}

	type clip struct {
		format Format
		pcm    []byte
	}
	clips := make([]clip, 0, len(paths))
	targetRate := 0
	for _, p := range paths {
		f, pcm, err := ReadFile(p)
		if err != nil {
			return 0, fmt.Errorf("wav: concat: %w", err)
		}
		if f.SampleRate > targetRate {
			targetRate = f.SampleRate
		}
		clips = append(clips, clip{format: f, pcm: pcm})
	}

	var out []byte
	for i, c := range clips {
		mono := downmix(c.pcm, c.format.Channels)
		if c.format.SampleRate != targetRate {
			resampled, err := resampleMono(mono, c.format.SampleRate, targetRate)
			if err != nil {
				return 0, fmt.Errorf("wav: concat: resample %s: %w", paths[i], err)
			}
			mono = resampled
		}
		out = append(out, mono...)
	}

	target := Format{SampleRate: targetRate, Channels: 1}
	if err := WriteFile(outPath, out, target); err != nil {
		return 0, err
	}
	return target.Duration(len(out)), nil
}

// downmix folds interleaved 16-bit PCM down to mono by averaging the
// channels of each frame. Mono input is returned unchanged.
func downmix(pcm []byte, channels int) []byte {
	if channels <= 1 {
		return pcm
	}
	frames := len(pcm) / (channels * 2)
	out := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		var sum int32
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			sum += int32(int16(uint16(pcm[off]) | uint16(pcm[off+1])<<8))
		}
		s := int16(sum / int32(channels))
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

// resampleMono converts mono 16-bit PCM between sample rates.
func resampleMono(pcm []byte, from, to int) ([]byte, error) {
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, err
	}

	samples := len(pcm) / 2
	input := make([]float64, samples)
	for i := 0; i < samples; i++ {
		input[i] = float64(int16(uint16(pcm[i*2])|uint16(pcm[i*2+1])<<8)) / 32768.0
	}

	output, err := rs.Process(input)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(output)*2)
	for i, v := range output {
		s := int16(v * 32767.0)
		if v > 1.0 {
			s = 32767
		} else if v < -1.0 {
			s = -32768
		}
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out, nil
}

// Package audio is the umbrella for audio container handling.
//
// The wav sub-package covers everything this pipeline needs: PCM WAV
// encode/decode, duration probing, and multi-file concatenation with
// sample-rate unification.
package audio

package asr

import "context"

// Static is a Transcriber that serves canned results keyed by audio
// path, for tests and dry runs.
type Static struct {
	// Results maps audio path to the result Transcribe returns.
	Results map[string]*Result

	// Err, when non-nil, is returned for any path missing from Results.
	Err error

	// Calls records the transcribed paths in order.
	Calls []string
}

var _ Transcriber = (*Static)(nil)

// Name implements Transcriber.
func (s *Static) Name() string { return "static" }

// Available implements Transcriber; a Static backend is always ready.
func (s *Static) Available(context.Context) bool { return true }

// Transcribe implements Transcriber.
func (s *Static) Transcribe(_ context.Context, audioPath string, _ *Options) (*Result, error) {
	s.Calls = append(s.Calls, audioPath)
	if r, ok := s.Results[audioPath]; ok {
		return r, nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return &Result{}, nil
}

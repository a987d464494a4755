package timeline_test

import (
	"math"
	"slices"
	"testing"

	"github.com/reelgen/reelgen/pkg/timeline"
)

func TestNormalizeScalesDrift(t *testing.T) {
	// Recognizer reports 9.5s of speech but the audio is truly 10.0s.
	words := []timeline.WordSpan{
		{Word: "one", Start: 0.0, End: 1.0},
		{Word: "two", Start: 4.0, End: 5.0},
		{Word: "three", Start: 9.0, End: 9.5},
	}
	scale := timeline.Normalize(words, 10.0, timeline.NormalizeTolerance)

	want := 10.0 / 9.5
	if math.Abs(scale-want) > 1e-9 {
		t.Fatalf("scale = %v, want %v", scale, want)
	}
	if math.Abs(words[2].End-10.0) > 1e-9 {
		t.Fatalf("final end = %v, want 10.0", words[2].End)
	}
	if math.Abs(words[1].Start-4.0*want) > 1e-9 {
		t.Fatalf("middle start = %v, want %v", words[1].Start, 4.0*want)
	}
}

func TestNormalizeWithinTolerance(t *testing.T) {
	words := []timeline.WordSpan{{Word: "ok", Start: 0, End: 9.95}}
	if scale := timeline.Normalize(words, 10.0, 0.1); scale != 1.0 {
		t.Fatalf("scale = %v, want 1.0 (within tolerance)", scale)
	}
	if words[0].End != 9.95 {
		t.Fatalf("end changed to %v", words[0].End)
	}
}

func TestNormalizeEmptyAndZero(t *testing.T) {
	if scale := timeline.Normalize(nil, 10.0, 0.1); scale != 1.0 {
		t.Fatalf("scale on empty = %v", scale)
	}
	words := []timeline.WordSpan{{Word: "x", Start: 0, End: 0}}
	if scale := timeline.Normalize(words, 10.0, 0.1); scale != 1.0 {
		t.Fatalf("scale on zero reported time = %v", scale)
	}
}

func TestFilter(t *testing.T) {
	words := []timeline.WordSpan{
		{Word: "Hello", Start: 0.0, End: 0.5},
		{Word: "...", Start: 0.5, End: 1.0},    // no alphanumeric content
		{Word: "uh", Start: 1.0, End: 1.02},    // under 40ms
		{Word: "there", Start: 1.02, End: 1.5},
		{Word: "42", Start: 1.5, End: 1.9},
	}
	got := timeline.Filter(words, timeline.MinClipDuration)

	var texts []string
	for _, w := range got {
		texts = append(texts, w.Word)
	}
	want := []string{"Hello", "there", "42"}
	if !slices.Equal(texts, want) {
		t.Fatalf("Filter kept %v, want %v", texts, want)
	}
	for _, w := range got {
		if w.Duration() < timeline.MinClipDuration {
			t.Errorf("kept span %q shorter than floor: %v", w.Word, w.Duration())
		}
	}
}

func TestFilterPreservesInput(t *testing.T) {
	words := []timeline.WordSpan{{Word: "..", Start: 0, End: 1}}
	_ = timeline.Filter(words, 0.04)
	if words[0].Word != ".." {
		t.Fatal("Filter mutated its input")
	}
}

func TestRoles(t *testing.T) {
	words := []timeline.WordSpan{
		{Word: "a", Role: "A"}, {Word: "b", Role: "A"},
		{Word: "c", Role: "B"},
		{Word: "d", Role: "A"},
	}
	got := timeline.Roles(words)
	if !slices.Equal(got, []string{"A", "B", "A"}) {
		t.Fatalf("Roles = %v", got)
	}
}

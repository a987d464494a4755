package cli_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelgen/reelgen/pkg/cli"
	"github.com/reelgen/reelgen/pkg/timeline"
)

func TestConfigContexts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := cli.LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath: %v", err)
	}

	err = cfg.AddContext("personal", &cli.Context{
		Provider:     "gemini",
		GeminiAPIKey: "key-123456789",
		CacheRoot:    "/tmp/reel-cache",
	})
	if err != nil {
		t.Fatalf("AddContext: %v", err)
	}

	// First context becomes current automatically.
	cur, err := cfg.GetCurrentContext()
	if err != nil || cur.Name != "personal" {
		t.Fatalf("GetCurrentContext = %+v, %v", cur, err)
	}

	// Reload from disk.
	cfg2, err := cli.LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	ctx, err := cfg2.ResolveContext("")
	if err != nil {
		t.Fatalf("ResolveContext: %v", err)
	}
	if ctx.GeminiAPIKey != "key-123456789" || ctx.Provider != "gemini" {
		t.Fatalf("context lost on round-trip: %+v", ctx)
	}

	if err := cfg2.DeleteContext("personal"); err != nil {
		t.Fatalf("DeleteContext: %v", err)
	}
	if cfg2.CurrentContext != "" {
		t.Fatalf("CurrentContext = %q after delete", cfg2.CurrentContext)
	}
}

func TestResolveContextEmptyConfig(t *testing.T) {
	cfg, err := cli.LoadConfigWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := cfg.ResolveContext("")
	if err != nil || ctx == nil {
		t.Fatalf("empty config must yield empty context, got %+v, %v", ctx, err)
	}
}

func TestOutputQuery(t *testing.T) {
	words := []timeline.WordSpan{
		{Word: "hello", Start: 0, End: 0.4, Role: "host"},
		{Word: "there", Start: 0.4, End: 0.8, Role: "guest"},
	}

	var buf bytes.Buffer
	err := cli.Output(words, cli.OutputOptions{
		Format: cli.FormatJSON,
		Writer: &buf,
		Query:  `.[] | select(.role == "host") | .word`,
	})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}

	var got string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output %q not JSON: %v", buf.String(), err)
	}
	if got != "hello" {
		t.Fatalf("query result = %q, want %q", got, "hello")
	}
}

func TestOutputBadQuery(t *testing.T) {
	var buf bytes.Buffer
	err := cli.Output(map[string]int{"a": 1}, cli.OutputOptions{Writer: &buf, Query: "((("})
	if err == nil {
		t.Fatal("invalid query accepted")
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := cli.MaskAPIKey("sk-abcdef1234"); !strings.HasPrefix(got, "sk-a") || !strings.HasSuffix(got, "1234") {
		t.Fatalf("MaskAPIKey = %q", got)
	}
	if got := cli.MaskAPIKey("short"); got != "*****" {
		t.Fatalf("MaskAPIKey(short) = %q", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.04, "40ms"},
		{9.5, "9.5s"},
		{75.2, "1m15.2s"},
	}
	for _, tc := range cases {
		if got := cli.FormatSeconds(tc.in); got != tc.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRequest(t *testing.T) {
	type req struct {
		Script string `json:"script" yaml:"script"`
		Mode   string `json:"mode" yaml:"mode"`
	}

	var fromYAML req
	if err := cli.ParseRequest([]byte("script: demo.json\nmode: gemini\n"), "r.yaml", &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromJSON req
	if err := cli.ParseRequest([]byte(`{"script":"demo.json","mode":"gemini"}`), "r.json", &fromJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	if fromYAML != fromJSON {
		t.Fatalf("yaml %+v != json %+v", fromYAML, fromJSON)
	}
}

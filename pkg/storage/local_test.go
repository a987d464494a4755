package storage_test

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/reelgen/reelgen/pkg/storage"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	path := "run-a/turn_0_abcd.wav"

	ok, err := s.Exists(ctx, path)
	if err != nil || ok {
		t.Fatalf("Exists before write = (%v, %v)", ok, err)
	}

	w, err := s.Write(ctx, path)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte("audio-bytes")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ok, err = s.Exists(ctx, path)
	if err != nil || !ok {
		t.Fatalf("Exists after write = (%v, %v)", ok, err)
	}

	r, err := s.Read(ctx, path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil || string(data) != "audio-bytes" {
		t.Fatalf("read back %q, %v", data, err)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete (missing): %v", err)
	}
	if _, err := s.Read(ctx, path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read after delete: %v", err)
	}
}

func TestSplitS3URL(t *testing.T) {
	cases := []struct {
		url            string
		bucket, prefix string
	}{
		{"s3://reel-cache/audio", "reel-cache", "audio"},
		{"s3://reel-cache", "reel-cache", ""},
		{"s3://reel-cache/a/b/", "reel-cache", "a/b"},
	}
	for _, tc := range cases {
		b, p := storage.SplitS3URL(tc.url)
		if b != tc.bucket || p != tc.prefix {
			t.Errorf("SplitS3URL(%q) = (%q, %q), want (%q, %q)", tc.url, b, p, tc.bucket, tc.prefix)
		}
	}
	if !storage.IsS3URL("s3://x/y") || storage.IsS3URL("/var/cache") {
		t.Fatal("IsS3URL misclassified")
	}
}

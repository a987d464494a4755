// Package cache persists synthesized turn audio and transcriptions so
// that re-running a reel with unchanged lines skips the expensive
// provider calls. The audio cache is content-addressed on the voice and
// the exact line text; editing either invalidates just that turn.
//
// Cache failures never fail a run. A turn that cannot be fetched is
// synthesized; a result that cannot be stored is logged and dropped.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/reelgen/reelgen/pkg/storage"
)

// Audio caches per-turn audio files in a FileStore, namespaced by run so
// different reels never collide.
type Audio struct {
	store storage.FileStore
	run   string
}

// NewAudio creates an audio cache over store, scoped to the named run.
func NewAudio(store storage.FileStore, run string) *Audio {
	return &Audio{store: store, run: run}
}

// Key derives the cache key for one line of speech. The same voice
// speaking the same text always hits the same entry, regardless of turn
// position.
func Key(voiceID, text string) string {
	sum := md5.Sum([]byte(voiceID + "_" + text))
	return hex.EncodeToString(sum[:])
}

func (c *Audio) entryPath(turn int, voiceID, text, ext string) string {
	return path.Join(c.run, fmt.Sprintf("turn_%d_%s%s", turn, Key(voiceID, text), ext))
}

// Fetch copies a cached turn to destPath and reports whether it was
// found. Any cache failure reads as a miss.
func (c *Audio) Fetch(ctx context.Context, turn int, voiceID, text, destPath string) bool {
	entry := c.entryPath(turn, voiceID, text, filepath.Ext(destPath))
	r, err := c.store.Read(ctx, entry)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("audio cache read failed", "entry", entry, "error", err)
		}
		return false
	}
	defer r.Close()

	f, err := os.Create(destPath)
	if err != nil {
		slog.Warn("audio cache copy failed", "dest", destPath, "error", err)
		return false
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(destPath)
		slog.Warn("audio cache copy failed", "entry", entry, "error", err)
		return false
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return false
	}
	return true
}

// Store uploads a freshly synthesized turn. Best effort.
func (c *Audio) Store(ctx context.Context, turn int, voiceID, text, srcPath string) {
	entry := c.entryPath(turn, voiceID, text, filepath.Ext(srcPath))
	f, err := os.Open(srcPath)
	if err != nil {
		slog.Warn("audio cache store failed", "src", srcPath, "error", err)
		return
	}
	defer f.Close()

	w, err := c.store.Write(ctx, entry)
	if err != nil {
		slog.Warn("audio cache store failed", "entry", entry, "error", err)
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		slog.Warn("audio cache store failed", "entry", entry, "error", err)
		return
	}
	if err := w.Close(); err != nil {
		slog.Warn("audio cache store failed", "entry", entry, "error", err)
	}
}

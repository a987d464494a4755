package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/reelgen/reelgen/pkg/asr"
)

// Transcripts wraps a Transcriber with a badger-backed result cache.
// Entries are keyed on the audio file's content hash plus the
// recognition options, so a cached transcript is reused across runs as
// long as the synthesized audio is byte-identical.
type Transcripts struct {
	inner asr.Transcriber
	db    *badger.DB
}

// NewTranscripts opens (or creates) the transcript database at dir and
// wraps inner with it.
func NewTranscripts(inner asr.Transcriber, dir string) (*Transcripts, error) {
	opts := badger.DefaultOptions(dir).WithLogger(quietLogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open transcript db: %w", err)
	}
	return &Transcripts{inner: inner, db: db}, nil
}

// Close releases the underlying database.
func (t *Transcripts) Close() error { return t.db.Close() }

// Transcribe returns a cached result when the audio and options match a
// previous call, otherwise delegates to the wrapped backend and stores
// its result. Cache failures fall through to the backend.
func (t *Transcripts) Transcribe(ctx context.Context, audioPath string, opts *asr.Options) (*asr.Result, error) {
	key, err := transcriptKey(audioPath, opts)
	if err != nil {
		slog.Warn("transcript cache key failed", "audio", audioPath, "error", err)
		return t.inner.Transcribe(ctx, audioPath, opts)
	}

	if res := t.lookup(key); res != nil {
		return res, nil
	}

	res, err := t.inner.Transcribe(ctx, audioPath, opts)
	if err != nil {
		return nil, err
	}
	t.put(key, res)
	return res, nil
}

// Available defers to the wrapped backend.
func (t *Transcripts) Available(ctx context.Context) bool { return t.inner.Available(ctx) }

// Name identifies the backend in logs.
func (t *Transcripts) Name() string { return t.inner.Name() + "+cache" }

func (t *Transcripts) lookup(key []byte) *asr.Result {
	var data []byte
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err != badger.ErrKeyNotFound {
			slog.Warn("transcript cache read failed", "error", err)
		}
		return nil
	}
	var res asr.Result
	if err := msgpack.Unmarshal(data, &res); err != nil {
		slog.Warn("transcript cache entry corrupt", "error", err)
		return nil
	}
	return &res
}

func (t *Transcripts) put(key []byte, res *asr.Result) {
	data, err := msgpack.Marshal(res)
	if err != nil {
		slog.Warn("transcript cache encode failed", "error", err)
		return
	}
	err = t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		slog.Warn("transcript cache write failed", "error", err)
	}
}

func transcriptKey(audioPath string, opts *asr.Options) ([]byte, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	model, lang := "", ""
	if opts != nil {
		model, lang = opts.Model, opts.Language
	}
	key := fmt.Sprintf("asr:%s:%s:%s", hex.EncodeToString(h.Sum(nil)), model, lang)
	return []byte(key), nil
}

// quietLogger silences badger's info and debug chatter.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{})   { slog.Error(fmt.Sprintf("badger: "+f, v...)) }
func (quietLogger) Warningf(f string, v ...interface{}) { slog.Warn(fmt.Sprintf("badger: "+f, v...)) }
func (quietLogger) Infof(string, ...interface{})        {}
func (quietLogger) Debugf(string, ...interface{})       {}

var _ asr.Transcriber = (*Transcripts)(nil)

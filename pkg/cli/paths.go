package cli

import (
	"os"
	"path/filepath"
)

// Paths resolves the reelgen directory layout under $HOME.
type Paths struct {
	// HomeDir is the user's home directory.
	HomeDir string
}

// NewPaths creates a Paths instance.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base directory (~/.reelgen).
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns the config file path (~/.reelgen/config.yaml).
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// CacheDir returns the audio cache directory (~/.reelgen/cache).
func (p *Paths) CacheDir() string {
	return filepath.Join(p.BaseDir(), "cache")
}

// TranscriptDir returns the transcript cache database directory
// (~/.reelgen/transcripts).
func (p *Paths) TranscriptDir() string {
	return filepath.Join(p.BaseDir(), "transcripts")
}

// WorkDir returns the scratch directory for per-turn audio
// (~/.reelgen/work).
func (p *Paths) WorkDir() string {
	return filepath.Join(p.BaseDir(), "work")
}

// ContentsDir returns where generated scripts land (~/.reelgen/contents).
func (p *Paths) ContentsDir() string {
	return filepath.Join(p.BaseDir(), "contents")
}

// EnsureBaseDir creates the base directory if it doesn't exist.
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}

// EnsureCacheDir creates the cache directory if it doesn't exist.
func (p *Paths) EnsureCacheDir() error {
	return os.MkdirAll(p.CacheDir(), 0755)
}

// EnsureWorkDir creates the scratch directory if it doesn't exist.
func (p *Paths) EnsureWorkDir() error {
	return os.MkdirAll(p.WorkDir(), 0755)
}

// EnsureContentsDir creates the contents directory if it doesn't exist.
func (p *Paths) EnsureContentsDir() error {
	return os.MkdirAll(p.ContentsDir(), 0755)
}

// CachePath returns a path within the cache directory.
func (p *Paths) CachePath(name string) string {
	return filepath.Join(p.CacheDir(), name)
}

// WorkPath returns a path within the scratch directory.
func (p *Paths) WorkPath(name string) string {
	return filepath.Join(p.WorkDir(), name)
}

// ContentsPath returns a path within the contents directory.
func (p *Paths) ContentsPath(name string) string {
	return filepath.Join(p.ContentsDir(), name)
}

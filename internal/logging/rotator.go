package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// FileConfig describes the rotating log file used by long-running commands.
type FileConfig struct {
	Dir        string
	Name       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Rotator is an io.Writer that rolls the log file over once it exceeds MaxSizeMB.
type Rotator struct {
	mu          sync.Mutex
	dir         string
	name        string
	maxSize     int64
	maxAge      time.Duration
	maxBackups  int
	compress    bool
	now         func() time.Time
	current     *os.File
	currentSize int64
}

// NewRotator opens (or creates) the log file described by cfg.
func NewRotator(cfg FileConfig) (*Rotator, error) {
	if cfg.Name == "" {
		cfg.Name = "wayfinder.log"
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	r := &Rotator{
		dir:        cfg.Dir,
		name:       cfg.Name,
		maxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxAge:     time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		maxBackups: cfg.MaxBackups,
		compress:   cfg.Compress,
		now:        time.Now,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the active log file path.
func (r *Rotator) Path() string {
	return filepath.Join(r.dir, r.name)
}

func (r *Rotator) open() error {
	path := r.Path()
	if info, err := os.Stat(path); err == nil {
		r.currentSize = info.Size()
	} else {
		r.currentSize = 0
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.current = file
	return nil
}

func (r *Rotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}

	if r.currentSize > 0 && r.currentSize+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.current.Write(p)
	r.currentSize += int64(n)
	return n, err
}

func (r *Rotator) rotate() error {
	if r.current != nil {
		if err := r.current.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
		}
		r.current = nil
	}

	backup := filepath.Join(r.dir, fmt.Sprintf("%s.%s", r.name, r.now().Format("2006-01-02-15-04-05.000")))
	if err := os.Rename(r.Path(), backup); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	if r.compress {
		if err := gzipFile(backup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to compress %s: %v\n", backup, err)
		} else if err := os.Remove(backup); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove %s: %v\n", backup, err)
		}
	}

	r.prune()
	return r.open()
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// prune drops backups older than maxAge and keeps at most maxBackups.
func (r *Rotator) prune() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return
	}

	type backup struct {
		name    string
		modTime time.Time
	}
	var backups []backup
	now := r.now()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), r.name+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if r.maxAge > 0 && now.Sub(info.ModTime()) > r.maxAge {
			_ = os.Remove(filepath.Join(r.dir, entry.Name()))
			continue
		}
		backups = append(backups, backup{name: entry.Name(), modTime: info.ModTime()})
	}

	if r.maxBackups <= 0 || len(backups) <= r.maxBackups {
		return
	}
	slices.SortFunc(backups, func(a, b backup) int {
		if c := a.modTime.Compare(b.modTime); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	for _, b := range backups[:len(backups)-r.maxBackups] {
		_ = os.Remove(filepath.Join(r.dir, b.name))
	}
}

// Close closes the active log file.
func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	return err
}

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "jupyterops-"
	logFileSuffix = ".log"
	// AutoLogFile asks OpenSink to generate a timestamped file name.
	AutoLogFile = "auto"
)

// SinkConfig selects where log records are written.
type SinkConfig struct {
	Path          string // "" for stderr only, AutoLogFile, or a path (relative paths resolve under Dir)
	Dir           string // directory for generated and relative log files
	RetentionDays int    // generated files older than this are removed when the sink opens
}

// Sink is an opened log destination. When a file is in use, records go to
// both stderr and the file.
type Sink struct {
	Path   string
	file   *os.File
	writer io.Writer
}

// OpenSink opens the destination described by cfg.
func OpenSink(cfg SinkConfig) (*Sink, error) {
	s := &Sink{writer: os.Stderr}
	switch strings.ToLower(strings.TrimSpace(cfg.Path)) {
	case "":
		return s, nil
	case AutoLogFile:
		if err := CleanupOldLogFiles(cfg.Dir, cfg.RetentionDays); err != nil {
			return nil, err
		}
		s.Path = filepath.Join(cfg.Dir, LogFilename(time.Now().UTC()))
	default:
		s.Path = cfg.Path
		if !filepath.IsAbs(s.Path) {
			s.Path = filepath.Join(cfg.Dir, s.Path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory for %q: %w", s.Path, err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", s.Path, err)
	}
	s.file = f
	s.writer = io.MultiWriter(os.Stderr, f)
	return s, nil
}

// Writer returns the writer log records should go to.
func (s *Sink) Writer() io.Writer { return s.writer }

// Close closes the log file, if any.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// LogFilename returns jupyterops-YYYYMMDD-HHMMSS-mmm.log for t.
func LogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s", logFilePrefix, t.Format("20060102-150405"), t.Nanosecond()/1_000_000, logFileSuffix)
}

// CleanupOldLogFiles removes generated log files in dir whose modification
// time is older than retentionDays. Other files are left alone.
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 || dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
	return nil
}

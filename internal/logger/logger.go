package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file. The terminal is
// owned by the UI, so file logging is the only way to watch the viewer work.
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// FileOpened logs a successful document load
func (l *Logger) FileOpened(path string, blocks, lines int) {
	l.Info("file opened",
		"path", path,
		"blocks", blocks,
		"lines", lines)
}

// FileReloaded logs a reload triggered by a filesystem change
func (l *Logger) FileReloaded(path string, lines int) {
	l.Info("file reloaded",
		"path", path,
		"lines", lines)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// LinkFollowed logs navigation through a link
func (l *Logger) LinkFollowed(from, target string) {
	l.Info("link followed",
		"from", from,
		"target", target)
}

// SearchRun logs a search over the rendered document
func (l *Logger) SearchRun(query string, matches int) {
	l.Debug("search run",
		"query", query,
		"matches", matches)
}

// ParseNote logs a degraded construct reported by the parser
func (l *Logger) ParseNote(path, note string) {
	l.Debug("parse note",
		"path", path,
		"note", note)
}

// WatchEvent logs a filesystem event from the watcher
func (l *Logger) WatchEvent(path string) {
	l.Debug("watch event",
		"path", path)
}

// WatchError logs a watcher failure
func (l *Logger) WatchError(err error) {
	l.Warn("watch error",
		"error", err)
}

// TreeBuilt logs a completed file tree scan
func (l *Logger) TreeBuilt(root string, files int) {
	l.Debug("tree built",
		"root", root,
		"files", files)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(maxWidth int, gitignore, watch bool) {
	l.Debug("config loaded",
		"max_width", maxWidth,
		"gitignore", gitignore,
		"watch", watch)
}

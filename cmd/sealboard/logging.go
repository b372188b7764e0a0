package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpggio/sealboard/internal/config"
)

// newLogger builds the process logger. Stdio mode keeps stdout free for
// JSON-RPC, so logs go to stderr unless a log file is configured.
func newLogger(lc config.LogConfig, stdio bool, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stdout
	if stdio {
		w = stderr
	}

	var closer io.Closer
	if lc.Path != "" {
		fw, err := newLogFileWriter(lc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = fw, fw
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(lc.Level)}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if lc.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h), closer, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// logFileWriter appends to a file and keeps only its tail once it outgrows
// maxLogSize.
type logFileWriter struct {
	mu       sync.Mutex
	file     *os.File
	maxSize  int64
	keepSize int64
}

func newLogFileWriter(path string) (*logFileWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w := &logFileWriter{file: file, maxSize: maxLogSizeBytes, keepSize: keepLogSizeBytes}
	if err := w.truncateIfNeeded(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.truncateIfNeeded()
}

func (w *logFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.maxSize {
		return nil
	}

	tail := make([]byte, w.keepSize)
	n, err := w.file.ReadAt(tail, size-w.keepSize)
	if err != nil && err != io.EOF {
		return err
	}
	if err := w.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end of file.
	_, err = w.file.Write(tail[:n])
	return err
}

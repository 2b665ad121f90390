package logging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-logfmt/logfmt"
)

type slogWriter struct {
	mirror io.Writer
}

// NewSlogWriter returns the sink for slog.NewTextHandler. Each logfmt record
// becomes a Log on the global service; raw bytes are copied to mirror first
// when it is non-nil.
func NewSlogWriter(mirror io.Writer) io.Writer {
	return &slogWriter{mirror: mirror}
}

func (sw *slogWriter) Write(p []byte) (int, error) {
	if sw.mirror != nil {
		if _, err := sw.mirror.Write(p); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR [logging.slogWriter]: failed to mirror log: %v\n", err)
		}
	}

	d := logfmt.NewDecoder(bytes.NewReader(p))
	for d.ScanRecord() {
		var (
			timestamp time.Time
			level     string
			message   string
		)
		attributes := make(map[string]string)

		for d.ScanKeyval() {
			key := string(d.Key())
			value := string(d.Value())

			switch key {
			case "time":
				parsed, err := time.Parse(time.RFC3339Nano, value)
				if err != nil {
					parsed = time.Now()
				}
				timestamp = parsed
			case "level":
				level = strings.ToLower(value)
			case "msg", "message":
				message = value
			default:
				attributes[key] = value
			}
		}
		if d.Err() != nil {
			return len(p), fmt.Errorf("logfmt.ScanRecord: %w", d.Err())
		}
		if timestamp.IsZero() {
			timestamp = time.Now()
		}

		if err := Create(context.Background(), timestamp, level, message, attributes); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR [logging.slogWriter]: failed to record log: %v\n", err)
		}
	}
	if d.Err() != nil {
		return len(p), fmt.Errorf("logfmt.ScanRecord final: %w", d.Err())
	}
	return len(p), nil
}

// teeHandler forwards every record to each handler that has the level enabled.
type teeHandler []slog.Handler

// NewTeeHandler combines handlers, for example the TUI log sink and a
// stderr logger in verbose mode.
func NewTeeHandler(handlers ...slog.Handler) slog.Handler {
	return teeHandler(handlers)
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/stack-auth/stack-quickstart/internal/clipboard"
	"github.com/stack-auth/stack-quickstart/internal/format"
	"github.com/stack-auth/stack-quickstart/internal/logging"
	"github.com/stack-auth/stack-quickstart/internal/quickstart"
)

// syncWriter is a thread-safe writer that prevents interleaved output
type syncWriter struct {
	w  io.Writer
	mu sync.Mutex
}

// Write implements io.Writer
func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// newSyncWriter creates a new synchronized writer
func newSyncWriter(w io.Writer) io.Writer {
	return &syncWriter{w: w}
}

type nonInteractiveOptions struct {
	IDs      []string
	Artifact format.Artifact
	Format   format.OutputFormat
	Copy     bool
	Quiet    bool
	Verbose  bool
	Level    *slog.LevelVar

	Out    io.Writer
	ErrOut io.Writer

	// NewClipboard is only called when Copy is set.
	NewClipboard func() *clipboard.Adapter
}

// handleNonInteractiveMode prints the setup for opts.IDs and optionally copies
// the requested artifact.
func handleNonInteractiveMode(ctx context.Context, opts nonInteractiveOptions) error {
	if opts.Quiet && opts.Verbose {
		return fmt.Errorf("--quiet and --verbose flags cannot be used together")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	if opts.Verbose {
		syncWriter := newSyncWriter(opts.ErrOut)
		charmLogger := charmlog.NewWithOptions(syncWriter, charmlog.Options{
			Level:           charmlog.DebugLevel,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Prefix:          "stack-quickstart",
		})
		charmlog.SetDefault(charmLogger)

		// keep feeding the in-memory log service alongside stderr
		slog.SetDefault(slog.New(logging.NewTeeHandler(slog.Default().Handler(), charmLogger)))
		if opts.Level != nil {
			opts.Level.Set(slog.LevelDebug)
		}
		charmLogger.Info("Verbose logging enabled")
	}

	slog.Info("Running in non-interactive mode", "providers", opts.IDs, "artifact", opts.Artifact, "format", opts.Format, "copy", opts.Copy)

	setup := quickstart.Generate(opts.IDs)

	copied := false
	if opts.Copy {
		clip := opts.NewClipboard()
		copied = clip.Copy(ctx, opts.Artifact.Text(setup))
		clip.Close()
	}

	out, err := format.FormatSetup(setup, opts.Artifact, copied, opts.Format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprintln(opts.Out, out)

	if opts.Copy {
		if !copied {
			return fmt.Errorf("failed to copy %s to clipboard", opts.Artifact)
		}
		if !opts.Quiet && opts.Format == format.TextFormat {
			fmt.Fprintf(opts.ErrOut, "Copied %s to clipboard.\n", opts.Artifact)
		}
	}
	return nil
}

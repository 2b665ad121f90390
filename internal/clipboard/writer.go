package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

var (
	ErrUnavailable = errors.New("clipboard unavailable")
	ErrEmpty       = errors.New("nothing to copy")
)

// Writer puts text on a clipboard.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

func (f WriterFunc) Write(ctx context.Context, text string) error {
	return f(ctx, text)
}

// Chain tries writers in order and stops at the first success.
type Chain []Writer

func (c Chain) Write(ctx context.Context, text string) error {
	var errs []error
	for _, w := range c {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := w.Write(ctx, text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// SystemWriter is the default chain: the atotto library, the platform tools,
// and OSC52 when useOSC52 is set or the session is remote.
func SystemWriter(useOSC52 bool) Writer {
	chain := Chain{libraryWriter{}, toolWriter{tools: platformTools(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "")}}
	if useOSC52 || isRemoteSession() {
		chain = append(chain, OSC52Writer{Output: termenv.NewOutput(os.Stdout)})
	}
	return chain
}

type libraryWriter struct{}

func (libraryWriter) Write(_ context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("atotto/clipboard: %w", ErrUnavailable)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("atotto/clipboard: %w", err)
	}
	return nil
}

type tool struct {
	name string
	args []string
}

// platformTools lists clipboard programs in order of preference.
func platformTools(goos string, wayland bool) []tool {
	switch goos {
	case "darwin":
		return []tool{{name: "pbcopy"}}
	case "windows":
		return []tool{{name: "clip"}}
	}
	x11 := []tool{
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	}
	wl := tool{name: "wl-copy"}
	if wayland {
		return append([]tool{wl}, x11...)
	}
	return append(x11, wl)
}

var lookPath = exec.LookPath

type toolWriter struct {
	tools []tool
}

func (w toolWriter) Write(ctx context.Context, text string) error {
	for _, t := range w.tools {
		path, err := lookPath(t.name)
		if err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, path, t.args...)
		cmd.Stdin = bytes.NewReader([]byte(text))
		if err := cmd.Run(); err != nil {
			slog.Debug("Clipboard tool failed", "tool", t.name, "error", err)
			continue
		}
		slog.Debug("Copied with clipboard tool", "tool", t.name)
		return nil
	}
	return fmt.Errorf("no working clipboard tool (install xclip, xsel or wl-clipboard): %w", ErrUnavailable)
}

// OSC52Writer asks the terminal to set the clipboard. The terminal never
// acknowledges, so a write is reported as successful once the escape is sent.
type OSC52Writer struct {
	Output *termenv.Output
}

func (w OSC52Writer) Write(_ context.Context, text string) error {
	if w.Output == nil {
		return ErrUnavailable
	}
	w.Output.Copy(text)
	return nil
}

func isRemoteSession() bool {
	return os.Getenv("SSH_TTY") != "" || os.Getenv("SSH_CONNECTION") != ""
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/stack-auth/stack-quickstart/internal/clipboard"
	"github.com/stack-auth/stack-quickstart/internal/config"
	"github.com/stack-auth/stack-quickstart/internal/format"
	"github.com/stack-auth/stack-quickstart/internal/logging"
	"github.com/stack-auth/stack-quickstart/internal/provider"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
	"github.com/stack-auth/stack-quickstart/internal/selection"
	"github.com/stack-auth/stack-quickstart/internal/status"
	"github.com/stack-auth/stack-quickstart/internal/tui"
	"github.com/stack-auth/stack-quickstart/internal/tui/page"
	"github.com/stack-auth/stack-quickstart/internal/tui/theme"
	"github.com/stack-auth/stack-quickstart/internal/version"
	"golang.org/x/sync/errgroup"
)

var rootCmd = &cobra.Command{
	Use:   "stack-quickstart",
	Short: "Build the Stack Auth setup command for your providers",
	Long: `stack-quickstart helps you pick authentication providers and turns the
selection into a ready-to-paste init-stack command, or into a prompt you can
hand to an AI coding agent. Run it without flags for the interactive builder,
or pass --providers to print the result directly.`,
	Example: `  stack-quickstart
  stack-quickstart --providers google,github --copy
  stack-quickstart -P email -P otp --prompt -f json
  echo google,otp | stack-quickstart`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flag("help").Changed {
			return cmd.Help()
		}
		if cmd.Flag("version").Changed {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return nil
		}

		cfg, lvl, closeLog, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		rawProviders, _ := cmd.Flags().GetStringSlice("providers")
		nonInteractive := cmd.Flags().Changed("providers")
		if !nonInteractive {
			if piped, ok := checkStdinPipe(); ok {
				rawProviders = strings.Fields(piped)
				nonInteractive = true
			}
		}

		if nonInteractive {
			ids, err := provider.ParseList(rawProviders)
			if err != nil {
				return err
			}

			outputFormatStr, _ := cmd.Flags().GetString("output-format")
			outputFormat := format.OutputFormat(outputFormatStr)
			if !outputFormat.IsValid() {
				return fmt.Errorf("invalid output format: %s", outputFormatStr)
			}

			artifact := format.CommandArtifact
			if promptOnly, _ := cmd.Flags().GetBool("prompt"); promptOnly {
				artifact = format.PromptArtifact
			}
			copyOut, _ := cmd.Flags().GetBool("copy")
			quiet, _ := cmd.Flags().GetBool("quiet")
			verbose, _ := cmd.Flags().GetBool("verbose")

			return handleNonInteractiveMode(cmd.Context(), nonInteractiveOptions{
				IDs:      ids,
				Artifact: artifact,
				Format:   outputFormat,
				Copy:     copyOut,
				Quiet:    quiet,
				Verbose:  verbose,
				Level:    lvl,
				Out:      cmd.OutOrStdout(),
				ErrOut:   cmd.ErrOrStderr(),
				NewClipboard: func() *clipboard.Adapter {
					return newClipboard(cfg)
				},
			})
		}

		return runTUI(cmd.Context(), cfg)
	},
}

// bootstrap applies --cwd, loads the config and installs the slog pipeline
// that feeds the log page. The returned func closes the debug log file.
func bootstrap(cmd *cobra.Command) (*config.Config, *slog.LevelVar, func(), error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to change directory: %w", err)
		}
	}
	if cwd == "" {
		c, err := os.Getwd()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cwd = c
	}

	cfg, err := config.Load(cwd, debug)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := logging.InitService(logging.DefaultHistorySize); err != nil {
		slog.Debug("Reusing logging service", "error", err)
	}

	lvl := new(slog.LevelVar)
	closeLog := func() {}
	var mirror io.Writer
	if cfg.Debug {
		lvl.Set(slog.LevelDebug)
		f, err := logging.OpenLogFile(cfg.LogDirectory())
		if err != nil {
			slog.Warn("Failed to open log file", "error", err)
		} else {
			mirror = f
			closeLog = func() { _ = f.Close() }
		}
	}
	textHandler := slog.NewTextHandler(logging.NewSlogWriter(mirror), &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(textHandler))

	if err := theme.SetTheme(cfg.TUI.Theme); err != nil {
		slog.Warn("Falling back to the default theme", "error", err)
	}

	slog.Debug("Configuration loaded", "cwd", cwd, "theme", cfg.TUI.Theme, "defaultProviders", cfg.DefaultProviders)
	return cfg, lvl, closeLog, nil
}

func newClipboard(cfg *config.Config) *clipboard.Adapter {
	return clipboard.New(
		clipboard.WithWriter(clipboard.SystemWriter(cfg.Clipboard.OSC52)),
		clipboard.WithTTL(cfg.CopiedTTL),
	)
}

func runTUI(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	store := selection.NewStore(cfg.DefaultProviders...)
	clip := newClipboard(cfg)

	zone.NewGlobal()
	program := tea.NewProgram(
		tui.New(page.QuickstartDeps{
			Store:        store,
			Clipboard:    clip,
			SaveDefaults: config.UpdateDefaultProviders,
			ShowLanding:  cfg.TUI.ShowLanding,
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Setup the subscriptions, this will send services events to the TUI
	ch, cancelSubs := setupSubscriptions(ctx, store, clip)

	tuiCtx, tuiCancel := context.WithCancel(ctx)
	var forward errgroup.Group
	forward.Go(func() error {
		defer logging.RecoverPanic("TUI-message-handler", func() {
			attemptTUIRecovery(program)
		})

		for {
			select {
			case <-tuiCtx.Done():
				slog.Info("TUI message handler shutting down")
				return nil
			case msg, ok := <-ch:
				if !ok {
					slog.Info("TUI message channel closed")
					return nil
				}
				program.Send(msg)
			}
		}
	})

	cleanup := func() {
		cancelSubs()
		store.Shutdown()
		clip.Close()
		tuiCancel()
		_ = forward.Wait()
		slog.Info("All goroutines cleaned up")
	}

	result, err := program.Run()
	cleanup()

	if err != nil {
		slog.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	slog.Info("TUI exited", "result", result)
	return nil
}

// attemptTUIRecovery tries to recover the TUI after a panic
func attemptTUIRecovery(program *tea.Program) {
	slog.Info("Attempting to recover TUI after panic")
	program.Quit()
}

func setupSubscriber[T any](
	ctx context.Context,
	g *errgroup.Group,
	name string,
	subscriber func(context.Context) <-chan pubsub.Event[T],
	outputCh chan<- tea.Msg,
) {
	g.Go(func() error {
		defer logging.RecoverPanic(fmt.Sprintf("subscription-%s", name), nil)

		subCh := subscriber(ctx)
		if subCh == nil {
			slog.Warn("subscription channel is nil", "name", name)
			return nil
		}

		for {
			select {
			case event, ok := <-subCh:
				if !ok {
					slog.Debug("subscription channel closed", "name", name)
					return nil
				}

				var msg tea.Msg = event

				select {
				case outputCh <- msg:
				case <-time.After(2 * time.Second):
					slog.Warn("message dropped due to slow consumer", "name", name)
				case <-ctx.Done():
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

func setupSubscriptions(parentCtx context.Context, store *selection.Store, clip *clipboard.Adapter) (chan tea.Msg, func()) {
	ch := make(chan tea.Msg, 100)

	var g errgroup.Group
	ctx, cancel := context.WithCancel(parentCtx)

	if logs := logging.GetService(); logs != nil {
		setupSubscriber(ctx, &g, "logging", logs.Subscribe, ch)
	}
	setupSubscriber(ctx, &g, "status", status.GetService().Subscribe, ch)
	setupSubscriber(ctx, &g, "selection", store.Subscribe, ch)
	setupSubscriber(ctx, &g, "clipboard", clip.Subscribe, ch)

	cleanupFunc := func() {
		slog.Debug("Cancelling all subscriptions")
		cancel()

		waitCh := make(chan struct{})
		go func() {
			defer logging.RecoverPanic("subscription-cleanup", nil)
			_ = g.Wait()
			close(waitCh)
		}()

		select {
		case <-waitCh:
			slog.Debug("All subscription goroutines completed successfully")
			close(ch)
		case <-time.After(5 * time.Second):
			slog.Warn("Timed out waiting for some subscription goroutines to complete")
			close(ch)
		}
	}
	return ch, cleanupFunc
}

// checkStdinPipe returns stdin's contents when it is piped rather than a
// terminal.
func checkStdinPipe() (string, bool) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", false
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", false
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("version", "v", false, "Version")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().StringP("output-format", "f", "text", "Output format for non-interactive mode (text, json)")
	rootCmd.Flags().StringSliceP("providers", "P", nil, "Providers to set up, comma-separated or repeated ("+strings.Join(provider.IDs(), ", ")+")")
	rootCmd.Flags().Bool("prompt", false, "Print the AI agent prompt instead of the command")
	rootCmd.Flags().Bool("copy", false, "Copy the result to the clipboard")
	rootCmd.Flags().BoolP("quiet", "q", false, "Only print the result in non-interactive mode")
	rootCmd.Flags().BoolP("verbose", "", false, "Display logs to stderr in non-interactive mode")

	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	rootCmd.AddCommand(providersCmd, featuresCmd)
}

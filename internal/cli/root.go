package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/config"
	"github.com/spec-kit/worker-directory/internal/directory"
	"github.com/spec-kit/worker-directory/internal/observability"
	"github.com/spec-kit/worker-directory/internal/report"
	"github.com/spec-kit/worker-directory/internal/view"
)

// Streams are the terminal handles commands read from and write to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// RootOptions holds the persistent flags.
type RootOptions struct {
	APIURL  string
	Timeout time.Duration
	Verbose bool
}

// env is the per-invocation wiring shared by subcommands.
type env struct {
	streams Streams
	opts    *RootOptions
	logger  *zap.Logger
	cfg     *config.Config
}

// NewRootCommand builds the workerctl command tree.
func NewRootCommand(streams Streams) *cobra.Command {
	e := &env{streams: streams, opts: &RootOptions{}}

	cmd := &cobra.Command{
		Use:           "workerctl",
		Short:         "Browse and manage the staff directory",
		Long:          "workerctl lists, searches and deletes workers of the staff backend and exports the list as a PDF report.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	flags := cmd.PersistentFlags()
	flags.StringVar(&e.opts.APIURL, "api-url", "", "Staff backend base URL (defaults to STAFF_API_URL)")
	flags.DurationVar(&e.opts.Timeout, "timeout", 0, "Per-request timeout (defaults to STAFF_API_TIMEOUT_SECONDS)")
	flags.BoolVarP(&e.opts.Verbose, "verbose", "v", false, "Log backend requests")

	cmd.AddCommand(
		NewListCommand(e),
		NewDeleteCommand(e),
		NewReportCommand(e),
	)
	return cmd
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(streams Streams, args []string) int {
	cmd := NewRootCommand(streams)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(streams.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (e *env) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	e.cfg = cfg
	if e.opts.APIURL == "" {
		e.opts.APIURL = cfg.Directory.BaseURL
	}
	if e.opts.Timeout <= 0 {
		e.opts.Timeout = cfg.Directory.Timeout()
	}

	logCfg := cfg.Logger
	if e.opts.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := observability.NewCLILogger(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	e.logger = logger
	return nil
}

// newView wires a view against the configured backend.
func (e *env) newView() *view.View {
	return view.New(view.Dependencies{
		Directory: directory.New(e.opts.APIURL, e.opts.Timeout, e.logger),
		Exporter:  report.NewExporter(report.Options{MaxRasterWidth: e.cfg.Report.MaxRasterWidth}, e.logger),
		Notifier:  &terminalNotifier{out: e.streams.Out},
		Logger:    e.logger,
	})
}

// terminalNotifier prints success notices. Failures reach the user as the
// command's returned error.
type terminalNotifier struct {
	out io.Writer
}

func (n *terminalNotifier) Notify(_ context.Context, notice view.Notice) {
	if notice.Level != view.NoticeSuccess {
		return
	}
	color.New(color.FgGreen).Fprintln(n.out, notice.Message)
}

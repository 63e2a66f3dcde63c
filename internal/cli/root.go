// Package cli wires the wait-for command line onto the waiter and runner.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/waitfor/internal/config"
	"github.com/hamed0406/waitfor/internal/logging"
	"github.com/hamed0406/waitfor/internal/output"
	"github.com/hamed0406/waitfor/internal/probe"
	"github.com/hamed0406/waitfor/internal/runner"
	"github.com/hamed0406/waitfor/internal/waiter"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "0.1.0"

// Streams are the standard streams the command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func OSStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type app struct {
	streams Streams
	printer output.Printer
	code    int
}

// Execute runs wait-for with args (without the program name) and returns
// the process exit code.
func Execute(ctx context.Context, args []string, streams Streams) int {
	a := &app{streams: streams}
	root := a.newRootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		p := a.printer
		if p == nil {
			p = output.New(output.ColorAuto, streams.Out, streams.Err)
		}
		p.Error("Error: %v", err)
		return 1
	}
	return a.code
}

func (a *app) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wait-for [flags] <host:port|url> [--] [command [args...]]",
		Short: "A simple CLI to wait for a service to become available",
		Long: "wait-for blocks until a TCP host:port accepts connections or an HTTP(S) URL\n" +
			"answers with a 2xx status, then runs the optional command and exits with its code.",
		Example: "  wait-for db:5432 -- ./migrate up\n" +
			"  wait-for -t 60 http://api:8080/health\n" +
			"  WAIT_FOR_QUIET=1 wait-for redis:6379",
		Args:          cobra.MinimumNArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.run,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("wait-for version {{.Version}}\n")
	cmd.SetIn(a.streams.In)
	cmd.SetOut(a.streams.Out)
	cmd.SetErr(a.streams.Err)

	// stop at the target so the command's own flags pass through
	cmd.Flags().SetInterspersed(false)
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := config.Load(v, args)
	if err != nil {
		return err
	}

	printer := output.New(cfg.Color, a.streams.Out, a.streams.Err)
	if cfg.Quiet {
		printer = output.Quiet(printer)
	}
	a.printer = printer

	log, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("open attempt log in %s: %w", cfg.LogDir, err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("config_loaded",
		zap.String("target", cfg.Target.String()),
		zap.Uint64("timeout_s", cfg.TimeoutSeconds),
		zap.Bool("quiet", cfg.Quiet),
		zap.String("color", string(cfg.Color)),
		zap.Strings("command", cfg.Command),
		zap.String("version", Version),
	)

	checker := probe.NewTargetChecker(
		probe.NewTCPChecker(probe.TCPConnectTimeout, printer, log),
		probe.NewHTTPChecker(probe.HTTPRequestTimeout, printer, log),
	)
	ctx := cmd.Context()
	if err := waiter.New(checker, printer, log, cfg.Timeout).Wait(ctx, cfg.Target); err != nil {
		return err
	}

	code, err := runner.New(log).Run(ctx, cfg.Command, runner.Stdio{
		In:  a.streams.In,
		Out: a.streams.Out,
		Err: a.streams.Err,
	})
	if err != nil {
		return err
	}
	a.code = code
	return nil
}

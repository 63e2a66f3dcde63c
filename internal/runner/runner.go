package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/waitfor/internal/domain"
)

// GracePeriod is how long a child gets after SIGTERM before it is killed.
const GracePeriod = 10 * time.Second

// Stdio is the set of streams handed to the child.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// OSStdio returns the process's own streams.
func OSStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type Runner struct {
	Logger      *zap.Logger
	GracePeriod time.Duration
}

func New(log *zap.Logger) *Runner {
	return &Runner{Logger: log, GracePeriod: GracePeriod}
}

// Run executes argv and returns the child's exit code. An empty argv is a
// no-op returning 0. A child that ends without an exit code yields 1.
// Cancelling ctx sends SIGTERM to the child.
func (r *Runner) Run(ctx context.Context, argv []string, stdio Stdio) (int, error) {
	if len(argv) == 0 {
		return 0, nil
	}

	if err := ctx.Err(); err != nil {
		r.Logger.Warn("command_skipped", zap.Strings("argv", argv), zap.NamedError("cause", err))
		return 1, domain.ErrInterrupted
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = r.GracePeriod

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.Logger.Error("command_spawn_failed", zap.Strings("argv", argv), zap.Error(err))
		return 1, &domain.Error{
			Kind: domain.SpawnFailed,
			Msg:  "Failed to execute command: " + argv[0],
			Err:  err,
		}
	}
	r.Logger.Info("command_started", zap.Strings("argv", argv), zap.Int("pid", cmd.Process.Pid))

	err := cmd.Wait()
	code := exitCode(cmd.ProcessState)
	r.Logger.Info("command_exited",
		zap.Strings("argv", argv),
		zap.Int("exit_code", code),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("cancelled", ctx.Err() != nil),
	)

	// A non-zero exit or a cancelled context still leaves a process state.
	if err != nil && cmd.ProcessState == nil {
		return 1, fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return code, nil
}

func exitCode(ps *os.ProcessState) int {
	if ps == nil {
		return 1
	}
	if code := ps.ExitCode(); code >= 0 {
		return code
	}
	return 1
}

package executor

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/rs/zerolog"
)

// waitDelay bounds how long Run waits for output pipes after the process
// was killed, in case a grandchild still holds them open
const waitDelay = 5 * time.Second

// Runner executes external programs
type Runner interface {
	Run(ctx context.Context, program string, args []string, opts Options) Result
	RunScript(ctx context.Context, in Interpreter, script string, opts Options) Result
}

// Options tune a single invocation
type Options struct {
	// Timeout kills the process after the duration. Zero means no timeout.
	Timeout time.Duration
	// OnLine, when set, receives every output line as it arrives. stream is
	// "stdout" or "stderr". Output is still captured in full.
	OnLine func(stream, line string)
	// Dir is the working directory; empty inherits ours
	Dir string
}

// Interpreter is a fixed invocation that takes a script as its last argument
type Interpreter struct {
	Program string
	Args    []string
}

// PowerShell returns the non-interactive, profile-less PowerShell invocation
func PowerShell(program string) Interpreter {
	return Interpreter{
		Program: program,
		Args: []string{
			"-NoProfile",
			"-NonInteractive",
			"-ExecutionPolicy", "Bypass",
			"-WindowStyle", "Hidden",
			"-Command",
		},
	}
}

// Result is the outcome of one invocation
type Result struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	// ExitCode is -1 when the process never started or was killed
	ExitCode int
	// Err is nil on success, otherwise a DeployError coded SPAWN, TIMEOUT,
	// CANCELLED or NON_ZERO_EXIT
	Err      error
	Duration time.Duration
}

// Diagnostic is the text to show for a failure: stderr when it has
// anything in it, otherwise stdout
func (r Result) Diagnostic() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// ExecRunner runs programs with os/exec
type ExecRunner struct {
	logger zerolog.Logger
}

// New creates an ExecRunner. A disabled logger falls back to the executor
// component logger.
func New(logger zerolog.Logger) *ExecRunner {
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}
	return &ExecRunner{logger: logger}
}

// RunScript runs script with the given interpreter
func (e *ExecRunner) RunScript(ctx context.Context, in Interpreter, script string, opts Options) Result {
	args := make([]string, 0, len(in.Args)+1)
	args = append(args, in.Args...)
	args = append(args, script)
	return e.Run(ctx, in.Program, args, opts)
}

// Run starts program with args and waits for it to exit
func (e *ExecRunner) Run(ctx context.Context, program string, args []string, opts Options) Result {
	start := time.Now()
	logging.LogCommand(e.logger, program, args)

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = opts.Dir
	cmd.WaitDelay = waitDelay
	hideWindow(cmd)

	var outLines, errLines *lineWriter
	if opts.OnLine != nil {
		sink := newLineSink(opts.OnLine)
		outLines = sink.writer("stdout", &stdout)
		errLines = sink.writer("stderr", &stderr)
		cmd.Stdout = outLines
		cmd.Stderr = errLines
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	runErr := cmd.Run()

	if outLines != nil {
		outLines.Flush()
		errLines.Flush()
	}

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	classify(ctx, &result, runErr, program, opts.Timeout)

	event := e.logger.Debug()
	if !result.Succeeded {
		event = e.logger.Warn().Err(result.Err)
	}
	event.
		Str("command", program).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("Command finished")

	return result
}

// classify fills in Succeeded, ExitCode and Err from the outcome of cmd.Run
func classify(ctx context.Context, r *Result, runErr error, program string, timeout time.Duration) {
	var exitErr *exec.ExitError

	switch {
	case runErr == nil:
		r.Succeeded = true
		r.ExitCode = 0

	case stderrors.Is(ctx.Err(), context.DeadlineExceeded) && timeout > 0:
		r.ExitCode = exitCodeOf(runErr)
		r.Err = errors.Newf(errors.ErrTimeout, "%s timed out after %s", program, timeout).
			WithDetail("program", program)
		if strings.TrimSpace(r.Stderr) == "" {
			r.Stderr = r.Err.Error()
		}

	case ctx.Err() != nil:
		r.ExitCode = exitCodeOf(runErr)
		r.Err = errors.Wrapf(ctx.Err(), errors.ErrCancelled, "%s was cancelled", program).
			WithDetail("program", program)
		if strings.TrimSpace(r.Stderr) == "" {
			r.Stderr = r.Err.Error()
		}

	case stderrors.As(runErr, &exitErr):
		r.ExitCode = exitErr.ExitCode()
		r.Err = errors.Newf(errors.ErrNonZeroExit, "%s exited with code %d", program, r.ExitCode).
			WithDetails(map[string]interface{}{
				"program": program,
				"stdout":  r.Stdout,
				"stderr":  r.Stderr,
			})

	default:
		r.ExitCode = -1
		r.Err = errors.Wrapf(runErr, errors.ErrSpawn, "failed to start %s", program).
			WithDetail("program", program)
		if strings.TrimSpace(r.Stderr) == "" {
			r.Stderr = runErr.Error()
		} else {
			r.Stderr = strings.TrimRight(r.Stderr, "\r\n") + "\n" + runErr.Error()
		}
	}
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

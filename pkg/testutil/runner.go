package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/executor"
)

// Call is one recorded invocation
type Call struct {
	Program string
	Args    []string
	Options executor.Options
}

// Line returns the program and arguments joined by spaces
func (c Call) Line() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// Script returns the last argument, which is the script text for RunScript
func (c Call) Script() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[len(c.Args)-1]
}

// Response is returned for calls whose program and arguments match
type Response struct {
	Program string
	// Contains must appear in the arguments joined by spaces
	Contains string
	Result   executor.Result
	// Hook runs before the result is returned
	Hook func(Call)
}

// FakeRunner is a scripted executor.Runner. The first matching response
// wins; unmatched calls succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	responses []Response
	calls     []Call
}

// NewFakeRunner returns an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On adds a response
func (f *FakeRunner) On(program, contains string, result executor.Result) *FakeRunner {
	return f.OnHook(program, contains, result, nil)
}

// OnHook adds a response with a hook
func (f *FakeRunner) OnHook(program, contains string, result executor.Result, hook func(Call)) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, Response{Program: program, Contains: contains, Result: result, Hook: hook})
	return f
}

func (f *FakeRunner) Run(_ context.Context, program string, args []string, opts executor.Options) executor.Result {
	call := Call{Program: program, Args: append([]string(nil), args...), Options: opts}
	joined := strings.Join(args, " ")

	f.mu.Lock()
	f.calls = append(f.calls, call)
	var match *Response
	for i := range f.responses {
		r := &f.responses[i]
		if r.Program != "" && r.Program != program {
			continue
		}
		if !strings.Contains(joined, r.Contains) {
			continue
		}
		match = r
		break
	}
	f.mu.Unlock()

	if match == nil {
		return OK("")
	}
	if match.Hook != nil {
		match.Hook(call)
	}
	return match.Result
}

func (f *FakeRunner) RunScript(ctx context.Context, in executor.Interpreter, script string, opts executor.Options) executor.Result {
	args := append(append([]string(nil), in.Args...), script)
	return f.Run(ctx, in.Program, args, opts)
}

// Calls returns every recorded call in order
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls to program
func (f *FakeRunner) CallsTo(program string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Program == program {
			out = append(out, c)
		}
	}
	return out
}

// CountContaining counts calls whose arguments contain s
func (f *FakeRunner) CountContaining(s string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.Contains(strings.Join(c.Args, " "), s) {
			n++
		}
	}
	return n
}

// OK is a successful result with the given stdout
func OK(stdout string) executor.Result {
	return executor.Result{Succeeded: true, Stdout: stdout}
}

// Fail is a non-zero exit with the given output
func Fail(code int, stdout, stderr string) executor.Result {
	return executor.Result{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: code,
		Err:      errors.Newf(errors.ErrNonZeroExit, "exited with code %d", code),
	}
}

// SpawnFail is a result for a program that could not be started
func SpawnFail(msg string) executor.Result {
	return executor.Result{
		Stderr:   msg,
		ExitCode: -1,
		Err:      errors.New(errors.ErrSpawn, msg),
	}
}

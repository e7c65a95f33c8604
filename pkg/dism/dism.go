package dism

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/wiminfo"
	"github.com/rs/zerolog"
)

// Tool runs dism.exe
type Tool struct {
	runner       executor.Runner
	program      string
	applyTimeout time.Duration
	queryTimeout time.Duration
	logger       zerolog.Logger
}

// Options configures a Tool
type Options struct {
	Runner executor.Runner
	// Program defaults to dism.exe
	Program      string
	ApplyTimeout time.Duration
	QueryTimeout time.Duration
}

// New creates a Tool
func New(opts Options) *Tool {
	program := opts.Program
	if program == "" {
		program = "dism.exe"
	}
	return &Tool{
		runner:       opts.Runner,
		program:      program,
		applyTimeout: opts.ApplyTimeout,
		queryTimeout: opts.QueryTimeout,
		logger:       logging.GetLogger("dism"),
	}
}

// ApplyArgs are the arguments of an apply invocation
func ApplyArgs(imagePath string, index int, targetRoot string) []string {
	return []string{
		"/Apply-Image",
		"/ImageFile:" + imagePath,
		fmt.Sprintf("/Index:%d", index),
		"/ApplyDir:" + targetRoot,
		"/Quiet",
	}
}

// InfoArgs are the arguments of a /Get-WimInfo invocation. /English keeps
// the markers Parse looks for stable across UI languages.
func InfoArgs(imagePath string) []string {
	return []string{"/English", "/Get-WimInfo", "/WimFile:" + imagePath}
}

// Apply writes edition index of imagePath to targetRoot, such as "W:"
func (t *Tool) Apply(ctx context.Context, imagePath string, index int, targetRoot string) executor.Result {
	t.logger.Info().
		Str("image", imagePath).
		Int("index", index).
		Str("target", targetRoot).
		Msg("Applying image")

	res := t.runner.Run(ctx, t.program, ApplyArgs(imagePath, index, targetRoot), executor.Options{Timeout: t.applyTimeout})
	if res.Succeeded {
		t.logger.Info().Dur("duration", res.Duration).Msg("Image applied")
	}
	return res
}

// List returns the editions of imagePath as DISM reports them
func (t *Tool) List(ctx context.Context, imagePath string) ([]types.ImageEntry, error) {
	res := t.runner.Run(ctx, t.program, InfoArgs(imagePath), executor.Options{Timeout: t.queryTimeout})
	if !res.Succeeded {
		err := errors.New(errors.ErrNonZeroExit, res.Diagnostic()).WithDetail("image", imagePath)
		if res.Err != nil {
			err.Code = errors.GetErrorCode(res.Err)
			err.Wrapped = res.Err
		}
		return nil, err
	}

	entries, ok, msg := wiminfo.Parse(res.Stdout)
	if !ok {
		return nil, errors.New(errors.ErrParse, msg).WithDetail("image", imagePath)
	}

	t.logger.Debug().Str("image", imagePath).Int("editions", len(entries)).Msg(msg)
	return entries, nil
}

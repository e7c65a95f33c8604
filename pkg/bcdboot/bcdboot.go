// Package bcdboot writes boot files for a freshly applied Windows volume.
package bcdboot

import (
	"context"
	"time"

	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/paths"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/rs/zerolog"
)

// Configurator runs bcdboot.exe
type Configurator struct {
	runner  executor.Runner
	program string
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates a Configurator. An empty program means bcdboot.exe.
func New(runner executor.Runner, program string, timeout time.Duration) *Configurator {
	if program == "" {
		program = "bcdboot.exe"
	}
	return &Configurator{
		runner:  runner,
		program: program,
		timeout: timeout,
		logger:  logging.GetLogger("bcdboot"),
	}
}

// Args returns the bcdboot arguments for scheme. GPT copies UEFI files to
// the system partition; MBR writes BIOS files to the Windows volume itself.
// The scheme must be the one the disk was partitioned with.
func Args(windowsRoot string, scheme types.Scheme, set letters.Set) []string {
	target := set.SystemRoot()
	if scheme == types.MBR {
		target = windowsRoot
	}
	return []string{
		paths.WindowsJoin(windowsRoot, "Windows"),
		"/s", target,
		"/f", scheme.Firmware(),
	}
}

// Configure writes the boot files
func (c *Configurator) Configure(ctx context.Context, windowsRoot string, scheme types.Scheme, set letters.Set) executor.Result {
	args := Args(windowsRoot, scheme, set)
	c.logger.Info().Strs("args", args).Msg("Configuring boot files")
	return c.runner.Run(ctx, c.program, args, executor.Options{Timeout: c.timeout})
}

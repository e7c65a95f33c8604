package diskpart

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/filesystem"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options configures a Partitioner
type Options struct {
	Runner executor.Runner
	// FS holds the temporary script files; defaults to the OS filesystem
	FS afero.Fs
	// Program defaults to diskpart.exe
	Program string
	// ScratchDir holds the script files; empty uses the system temp dir
	ScratchDir string
	Sizes      Sizes
	Timeout    time.Duration
	OnLine     func(stream, line string)
	Logger     zerolog.Logger
}

// Partitioner runs DiskPart recipes
type Partitioner struct {
	runner     executor.Runner
	fs         afero.Fs
	program    string
	scratchDir string
	sizes      Sizes
	timeout    time.Duration
	onLine     func(stream, line string)
	logger     zerolog.Logger
}

// New creates a Partitioner
func New(opts Options) *Partitioner {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("diskpart")
	}
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	program := opts.Program
	if program == "" {
		program = "diskpart.exe"
	}
	sizes := opts.Sizes
	if sizes.EFI <= 0 {
		sizes.EFI = DefaultSizes().EFI
	}
	if sizes.MSR <= 0 {
		sizes.MSR = DefaultSizes().MSR
	}

	return &Partitioner{
		runner:     opts.Runner,
		fs:         fs,
		program:    program,
		scratchDir: opts.ScratchDir,
		sizes:      sizes,
		timeout:    opts.Timeout,
		onLine:     opts.OnLine,
		logger:     logger,
	}
}

// Prepare wipes disk and creates the partitions for scheme
func (p *Partitioner) Prepare(ctx context.Context, disk int, scheme types.Scheme, set letters.Set) executor.Result {
	p.logger.Info().
		Int("disk", disk).
		Str("scheme", scheme.String()).
		Str("letters", set.String()).
		Msg("Partitioning disk")
	return p.run(ctx, Script(disk, scheme, set, p.sizes))
}

// Cleanup removes the temporary letters from the partitions Prepare made.
// Failures are logged only.
func (p *Partitioner) Cleanup(ctx context.Context, disk int, scheme types.Scheme, set letters.Set) {
	res := p.run(ctx, CleanupScript(disk, scheme, set))
	if !res.Succeeded {
		p.logger.Warn().
			Int("disk", disk).
			Str("diagnostic", res.Diagnostic()).
			Msg("Failed to release temporary drive letters")
		return
	}
	p.logger.Info().Int("disk", disk).Str("letters", set.String()).Msg("Released temporary drive letters")
}

// run writes script to a temporary file, runs diskpart /s on it and
// removes the file
func (p *Partitioner) run(ctx context.Context, script string) executor.Result {
	path, remove, err := filesystem.WriteTemp(p.fs, p.scratchDir, "windeploy-diskpart-*.txt", strings.ReplaceAll(script, "\n", "\r\n")+"\r\n")
	if err != nil {
		werr := errors.Wrap(err, errors.ErrSpawn, "failed to write DiskPart script")
		return executor.Result{ExitCode: -1, Stderr: werr.Error(), Err: werr}
	}
	defer remove()

	p.logger.Debug().Str("script", path).Msg("Wrote DiskPart script")
	return p.runner.Run(ctx, p.program, []string{"/s", path}, executor.Options{
		Timeout: p.timeout,
		OnLine:  p.onLine,
	})
}

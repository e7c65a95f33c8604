package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/filesystem"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/paths"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const sourcesDir = "sources"

// imageNames are looked up in order under <root>\sources
var imageNames = []string{"install.wim", "install.esd"}

// Options configures a Resolver
type Options struct {
	Runner executor.Runner
	// FS is where mounted drives are visible; defaults to the OS filesystem
	FS afero.Fs
	// PowerShell is the interpreter program; defaults to powershell.exe
	PowerShell     string
	MountTimeout   time.Duration
	UnmountTimeout time.Duration
	Logger         zerolog.Logger
}

// Resolution is a resolved source
type Resolution struct {
	ImagePath string
	// Handle is nil unless a disc image was mounted
	Handle *types.MountHandle
}

// Resolver mounts disc images and locates their image file
type Resolver struct {
	runner         executor.Runner
	fs             afero.Fs
	shell          executor.Interpreter
	mountTimeout   time.Duration
	unmountTimeout time.Duration
	logger         zerolog.Logger
}

// New creates a Resolver
func New(opts Options) *Resolver {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("source")
	}
	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	program := opts.PowerShell
	if program == "" {
		program = "powershell.exe"
	}

	return &Resolver{
		runner:         opts.Runner,
		fs:             fs,
		shell:          executor.PowerShell(program),
		mountTimeout:   opts.MountTimeout,
		unmountTimeout: opts.UnmountTimeout,
		logger:         logger,
	}
}

// Resolve returns the image file for ref, mounting it first when it is a
// disc image. On error no handle is left mounted.
func (r *Resolver) Resolve(ctx context.Context, ref types.SourceReference) (Resolution, error) {
	switch ref.Kind {
	case types.ImageFile:
		return Resolution{ImagePath: ref.Path}, nil
	case types.DiscImage:
	default:
		return Resolution{}, errors.New(errors.ErrUnsupportedSource, "Unsupported source type").
			WithDetail("path", ref.Path)
	}

	handle, err := r.Mount(ctx, ref.Path)
	if err != nil {
		return Resolution{}, err
	}

	dir := paths.WindowsJoin(handle.DriveRoot, sourcesDir)
	for _, name := range imageNames {
		candidate := paths.WindowsJoin(dir, name)
		if filesystem.Exists(r.fs, candidate) {
			r.logger.Info().Str("image", candidate).Msg("Found image file on mounted media")
			return Resolution{ImagePath: candidate, Handle: handle}, nil
		}
	}

	r.Unmount(ctx, handle)
	return Resolution{}, errors.Newf(errors.ErrSourceContent, "install.wim not found in %s", dir).
		WithDetail("source", ref.Path)
}

// Mount attaches the disc image and returns the drive it was given
func (r *Resolver) Mount(ctx context.Context, path string) (*types.MountHandle, error) {
	r.logger.Info().Str("source", path).Msg("Mounting disc image")

	res := r.runner.RunScript(ctx, r.shell, mountScript(path), executor.Options{Timeout: r.mountTimeout})
	if !res.Succeeded {
		mountErr := errors.New(errors.ErrMount, failureText(res)).WithDetail("source", path)
		mountErr.Wrapped = res.Err
		return nil, mountErr
	}

	letter := strings.TrimSuffix(strings.TrimSpace(res.Stdout), ":")
	if letter == "" {
		// the image may be attached without a volume letter
		r.Unmount(ctx, &types.MountHandle{SourcePath: path})
		return nil, errors.New(errors.ErrMount, "Failed to determine ISO drive letter").
			WithDetail("source", path)
	}

	handle := &types.MountHandle{
		SourcePath: path,
		DriveRoot:  paths.DriveRoot(letter[0]) + `\`,
	}
	r.logger.Info().Str("source", path).Str("root", handle.DriveRoot).Msg("Disc image mounted")
	return handle, nil
}

// Unmount detaches a mounted disc image. It is best-effort: failures are
// logged, never returned. A nil handle or one already released is a no-op.
func (r *Resolver) Unmount(ctx context.Context, handle *types.MountHandle) {
	if handle == nil {
		return
	}

	if !handle.MarkReleased() {
		return
	}

	res := r.runner.RunScript(ctx, r.shell, unmountScript(handle.SourcePath), executor.Options{Timeout: r.unmountTimeout})
	if !res.Succeeded {
		r.logger.Warn().
			Str("source", handle.SourcePath).
			Str("diagnostic", res.Diagnostic()).
			Msg("Failed to unmount disc image")
		return
	}
	r.logger.Info().Str("source", handle.SourcePath).Msg("Disc image unmounted")
}

// failureText is the tool's own diagnostic, or the exit code when the tool
// printed nothing
func failureText(res executor.Result) string {
	if diag := res.Diagnostic(); diag != "" {
		return diag
	}
	return fmt.Sprintf("exit code %d", res.ExitCode)
}

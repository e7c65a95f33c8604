package windeploy

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/arthur-debert/windeploy/pkg/bcdboot"
	"github.com/arthur-debert/windeploy/pkg/config"
	"github.com/arthur-debert/windeploy/pkg/deploy"
	"github.com/arthur-debert/windeploy/pkg/diskpart"
	"github.com/arthur-debert/windeploy/pkg/disks"
	"github.com/arthur-debert/windeploy/pkg/dism"
	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/filesystem"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/source"
	"github.com/arthur-debert/windeploy/pkg/ui"
	"github.com/arthur-debert/windeploy/pkg/ui/styles"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// annotationNoConfig marks commands that run without loading configuration
const annotationNoConfig = "windeploy/no-config"

// Deps are the handles the commands use to reach the machine. Zero values
// mean the real ones.
type Deps struct {
	Runner executor.Runner
	FS     afero.Fs
}

// app holds the global flags and builds components from configuration
type app struct {
	deps      Deps
	verbosity int
	cfgPath   string
	noColor   bool
	cfg       *config.Config
}

func (a *app) setup(cmd *cobra.Command) error {
	logging.SetupLogger(a.verbosity, a.noColor)
	if a.noColor {
		styles.DisableColor()
		pterm.DisableColor()
	}
	log.Debug().Str("command", cmd.Name()).Msg("Command started")

	if cmd.Annotations[annotationNoConfig] == "true" {
		return nil
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) runner() executor.Runner {
	if a.deps.Runner != nil {
		return a.deps.Runner
	}
	return executor.New(logging.GetLogger("executor"))
}

func (a *app) fs() afero.Fs {
	if a.deps.FS != nil {
		return a.deps.FS
	}
	return filesystem.NewOS()
}

func (a *app) enumerator() *disks.Enumerator {
	return disks.NewEnumerator(a.runner(), a.cfg.Tools.PowerShell, a.cfg.Timeouts.Query.Std())
}

func (a *app) orchestrator() (*deploy.Orchestrator, error) {
	cfg := a.cfg
	runner := a.runner()
	fs := a.fs()

	set, err := letters.Parse(cfg.Letters.System, cfg.Letters.Windows)
	if err != nil {
		return nil, err
	}
	var alloc letters.Allocator = letters.Fixed(set)
	if cfg.Letters.Dynamic {
		alloc = letters.Dynamic{Probe: letters.InUse}
	}

	sizes := diskpart.Sizes{EFI: cfg.Partitions.EFISizeMB, MSR: cfg.Partitions.MSRSizeMB}
	diskpartLog := logging.GetLogger("diskpart")
	tool := dism.New(dism.Options{
		Runner:       runner,
		Program:      cfg.Tools.DISM,
		ApplyTimeout: cfg.Timeouts.Apply.Std(),
		QueryTimeout: cfg.Timeouts.Query.Std(),
	})

	return deploy.New(deploy.Options{
		Resolver: source.New(source.Options{
			Runner:         runner,
			FS:             fs,
			PowerShell:     cfg.Tools.PowerShell,
			MountTimeout:   cfg.Timeouts.Mount.Std(),
			UnmountTimeout: cfg.Timeouts.Unmount.Std(),
		}),
		Partitioner: diskpart.New(diskpart.Options{
			Runner:     runner,
			FS:         fs,
			Program:    cfg.Tools.DiskPart,
			ScratchDir: cfg.Deploy.ScratchDir,
			Sizes:      sizes,
			Timeout:    cfg.Timeouts.DiskPart.Std(),
			OnLine: func(stream, line string) {
				diskpartLog.Trace().Str("stream", stream).Msg(line)
			},
		}),
		Applier:         tool,
		Lister:          tool,
		Boot:            bcdboot.New(runner, cfg.Tools.BCDBoot, cfg.Timeouts.BCDBoot.Std()),
		FS:              fs,
		Letters:         alloc,
		RevalidateIndex: cfg.Deploy.RevalidateIndex,
		Programs: deploy.Programs{
			DiskPart: cfg.Tools.DiskPart,
			DISM:     cfg.Tools.DISM,
			BCDBoot:  cfg.Tools.BCDBoot,
		},
		PartitionSizes: sizes,
	}), nil
}

// renderer returns the renderer for a --format value. --no-color turns the
// automatic choice into plain text.
func (a *app) renderer(cmd *cobra.Command, format string) (ui.Renderer, error) {
	f, err := ui.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == ui.FormatAuto && a.noColor {
		f = ui.FormatText
	}
	return ui.NewRenderer(f, cmd.OutOrStdout())
}

// interactive reports whether w is a terminal that may show spinners
func (a *app) interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && !a.noColor && ui.IsTerminal(f)
}

// reportedError is a failure the command already showed to the user
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already rendered by the command that
// returned it
func IsReported(err error) bool {
	var r reportedError
	return stderrors.As(err, &r)
}

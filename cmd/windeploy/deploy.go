package windeploy

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/arthur-debert/windeploy/pkg/source"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/ui/confirmations"
	"github.com/arthur-debert/windeploy/pkg/ui/progress"
	"github.com/spf13/cobra"
)

type deployFlags struct {
	source string
	disk   int
	index  int
	scheme string
	yes    bool
	dryRun bool
	format string
}

func newDeployCmd(a *app) *cobra.Command {
	f := deployFlags{disk: -1}

	cmd := &cobra.Command{
		Use:     "deploy",
		Short:   MsgDeployShort,
		Long:    MsgDeployLong,
		Example: MsgDeployExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, a, f)
		},
	}

	cmd.Flags().StringVarP(&f.source, "source", "s", "", MsgFlagSource)
	cmd.Flags().IntVarP(&f.disk, "disk", "d", -1, MsgFlagDisk)
	cmd.Flags().IntVarP(&f.index, "index", "i", 0, MsgFlagIndex)
	cmd.Flags().StringVar(&f.scheme, "scheme", "gpt", MsgFlagScheme)
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().StringVarP(&f.format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

func runDeploy(cmd *cobra.Command, a *app, f deployFlags) error {
	logger := logging.GetLogger("cmd.deploy")
	defer logging.LogDuration(time.Now(), "deploy")

	if f.source == "" || f.disk < 0 || f.index <= 0 {
		return errors.New(errors.ErrInvalidInput, MsgErrRequired)
	}
	ref, err := source.Classify(f.source)
	if err != nil {
		return err
	}
	scheme, err := types.ParseScheme(f.scheme)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, err.Error())
	}

	req := types.DeploymentRequest{
		Source:     ref,
		Index:      f.index,
		DiskNumber: f.disk,
		Scheme:     scheme,
	}

	r, err := a.renderer(cmd, f.format)
	if err != nil {
		return err
	}
	orch, err := a.orchestrator()
	if err != nil {
		return err
	}

	if f.dryRun {
		plan, err := orch.Plan(cmd.Context(), req)
		if err != nil {
			return err
		}
		return r.RenderPlan(plan)
	}

	out := cmd.OutOrStdout()
	if !f.yes {
		dialog := confirmations.NewConsoleDialog(cmd.InOrStdin(), out)
		ok, err := dialog.ConfirmWipe(req, a.lookupDisk(cmd, f.disk))
		if err != nil {
			return err
		}
		if !ok {
			msg := fmt.Sprintf(MsgAborted, f.disk)
			_ = r.RenderMessage(msg)
			return reportedError{errors.New(errors.ErrPrecondition, msg)}
		}
	}
	req.Confirmed = true

	logger.Info().
		Str("source", ref.Path).
		Int("index", req.Index).
		Int("disk", req.DiskNumber).
		Str("scheme", scheme.String()).
		Msg("Starting deployment")

	run := orch.Start(cmd.Context(), req)
	reporter := progress.New(out, progress.Options{
		Interactive: a.interactive(out),
		ShowDetail:  a.verbosity > 0,
	})
	reporter.Follow(run.Events())
	outcome := run.Wait()

	if err := r.RenderOutcome(outcome); err != nil {
		return err
	}
	if !outcome.Succeeded {
		return reportedError{stderrors.New(outcome.Message)}
	}
	return nil
}

// lookupDisk finds the disk to describe in the confirmation prompt. The
// prompt works without it.
func (a *app) lookupDisk(cmd *cobra.Command, number int) *types.Disk {
	list, err := a.enumerator().List(cmd.Context())
	if err != nil {
		logger := logging.GetLogger("cmd.deploy")
		logger.Warn().Err(err).Msg("Could not look up the target disk")
		return nil
	}
	for i := range list {
		if list[i].Number == number {
			return &list[i]
		}
	}
	return nil
}

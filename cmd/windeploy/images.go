package windeploy

import (
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/spf13/cobra"
)

func newImagesCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "images <source>",
		Short:   MsgImagesShort,
		Long:    MsgImagesLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logging.LogOperationStart(logging.GetLogger("cmd.images"), "list editions")()

			r, err := a.renderer(cmd, format)
			if err != nil {
				return err
			}
			orch, err := a.orchestrator()
			if err != nil {
				return err
			}

			result := <-orch.ReadImages(cmd.Context(), args[0])
			if err := r.RenderImages(result); err != nil {
				return err
			}
			if !result.OK {
				return reportedError{result.Err()}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

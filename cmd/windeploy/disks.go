package windeploy

import (
	"github.com/arthur-debert/windeploy/pkg/logging"
	"github.com/spf13/cobra"
)

func newDisksCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "disks",
		Short:   MsgDisksShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logging.LogOperationStart(logging.GetLogger("cmd.disks"), "list disks")()

			r, err := a.renderer(cmd, format)
			if err != nil {
				return err
			}
			list, err := a.enumerator().List(cmd.Context())
			if err != nil {
				return err
			}
			return r.RenderDisks(list)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

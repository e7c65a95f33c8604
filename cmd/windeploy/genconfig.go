package windeploy

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/windeploy/pkg/config"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/filesystem"
	"github.com/arthur-debert/windeploy/pkg/paths"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(a *app) *cobra.Command {
	var write, force bool

	cmd := &cobra.Command{
		Use:         "gen-config",
		Short:       MsgGenConfigShort,
		GroupID:     "misc",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent()
			if err != nil {
				return err
			}
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := a.cfgPath
			if path == "" {
				path = paths.New().ConfigFile()
			}
			fs := a.fs()
			if filesystem.Exists(fs, path) && !force {
				return errors.Newf(errors.ErrPrecondition, MsgErrConfigExists, path)
			}
			if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to create %s", filepath.Dir(path))
			}
			if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to write %s", path)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

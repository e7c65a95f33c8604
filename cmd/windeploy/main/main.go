package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/windeploy/cmd/windeploy"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/ui/styles"
)

func main() {
	// an interrupt stops a deployment only before the disk is touched
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := windeploy.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !windeploy.IsReported(err) {
			fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %s", errors.GetMessage(err))))
		}
		stop()
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/windeploy/cmd/windeploy"
	"github.com/arthur-debert/windeploy/internal/version"
)

func main() {
	rootCmd := windeploy.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "WINDEPLOY",
		Section: "1",
		Source:  "windeploy " + version.Version,
		Manual:  "windeploy manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}

package windeploy

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Deploy Windows images to local disks"
	MsgDisksShort      = "List the disks Windows can see"
	MsgImagesShort     = "List the editions in a disc image or image file"
	MsgDeployShort     = "Wipe a disk and install a Windows edition on it"
	MsgGenConfigShort  = "Print the default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Configuration file (default is the user config dir)"
	MsgFlagNoColor = "Disable colors and spinners"
	MsgFlagFormat  = "Output format: auto, table, text, json or yaml"
	MsgFlagSource  = "Disc image (.iso) or image file (.wim, .esd)"
	MsgFlagDisk    = "Number of the disk to wipe"
	MsgFlagIndex   = "Edition index inside the image"
	MsgFlagScheme  = "Partition scheme: gpt (UEFI) or mbr (BIOS)"
	MsgFlagYes     = "Do not ask for confirmation"
	MsgFlagDryRun  = "Show what would run without touching the disk"
	MsgFlagWrite   = "Write the file to the user config dir instead of stdout"
	MsgFlagForce   = "Overwrite an existing config file"

	// Status messages
	MsgAborted       = "Aborted. Disk %d was not modified."
	MsgConfigWritten = "Wrote %s\n"
	MsgVersionFormat = "windeploy %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrConfigExists = "%s already exists, use --force to overwrite it"
	MsgErrNoCommand    = "no command specified"
	MsgErrRequired     = "--source, --disk and --index are required"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/deploy-long.txt
	msgDeployLongRaw string
	MsgDeployLong    = strings.TrimSpace(msgDeployLongRaw)

	//go:embed msgs/deploy-example.txt
	msgDeployExampleRaw string
	MsgDeployExample    = strings.TrimRight(msgDeployExampleRaw, "\n")

	//go:embed msgs/images-long.txt
	msgImagesLongRaw string
	MsgImagesLong    = strings.TrimSpace(msgImagesLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)

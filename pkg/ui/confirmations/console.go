// Package confirmations asks the operator to approve destructive work
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/ui/styles"
	"github.com/dustin/go-humanize"
)

// ConsoleDialog asks on a console. The operator confirms a wipe by typing
// the target disk number.
type ConsoleDialog struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleDialog reads answers from in and writes prompts to out
func NewConsoleDialog(in io.Reader, out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{in: bufio.NewReader(in), out: out}
}

// ConfirmWipe describes what will be erased and returns true only when
// the operator types the disk number. disk may be nil when it could not be
// looked up.
func (d *ConsoleDialog) ConfirmWipe(req types.DeploymentRequest, disk *types.Disk) (bool, error) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, styles.Render("Warning", fmt.Sprintf("All data on disk %d will be destroyed.", req.DiskNumber)))
	if disk != nil {
		fmt.Fprintf(d.out, "  Disk %d: %s, %s, %s\n", disk.Number, disk.Model, humanize.Bytes(disk.SizeBytes), disk.PartitionStyle)
	}
	fmt.Fprintf(d.out, "  Source: %s\n", req.Source.Path)
	fmt.Fprintf(d.out, "  Edition index: %d\n", req.Index)
	fmt.Fprintf(d.out, "  Scheme: %s (%s)\n", req.Scheme, req.Scheme.Firmware())
	fmt.Fprintln(d.out)
	fmt.Fprintf(d.out, "Type the disk number (%d) to continue, anything else aborts: ", req.DiskNumber)

	answer, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	n, convErr := strconv.Atoi(strings.TrimSpace(answer))
	return convErr == nil && n == req.DiskNumber, nil
}

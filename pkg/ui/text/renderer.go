// Package text renders plain text output without colors
package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/windeploy/pkg/deploy"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/dustin/go-humanize"
)

// Renderer writes plain text
type Renderer struct {
	output io.Writer
}

// New creates a text renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderDisks writes one tab-aligned line per disk
func (r *Renderer) RenderDisks(disks []types.Disk) error {
	if len(disks) == 0 {
		return r.RenderMessage("No disks found.")
	}
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMODEL\tSIZE\tSTYLE\tBUS\tSERIAL")
	for _, d := range disks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			d.Number, d.Model, humanize.Bytes(d.SizeBytes), d.PartitionStyle, d.BusType, d.Serial)
	}
	return tw.Flush()
}

// RenderImages writes one line per edition
func (r *Renderer) RenderImages(result deploy.ImagesResult) error {
	if !result.OK {
		return r.RenderError(result.Err())
	}
	fmt.Fprintln(r.output, result.ImagePath)
	tw := tabwriter.NewWriter(r.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tNAME\tSIZE")
	for _, e := range result.Entries {
		size := "-"
		if e.Size > 0 {
			size = humanize.Bytes(e.Size)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Index, e.Name, size)
	}
	return tw.Flush()
}

// RenderPlan writes the plan's Markdown source
func (r *Renderer) RenderPlan(plan deploy.Plan) error {
	_, err := io.WriteString(r.output, plan.Markdown())
	return err
}

// RenderOutcome writes the outcome message, prefixed on failure
func (r *Renderer) RenderOutcome(outcome types.Outcome) error {
	msg := outcome.Message
	if !outcome.Succeeded {
		msg = "FAILED: " + msg
	}
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// RenderError writes err with its code
func (r *Renderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	code := errors.GetErrorCode(err)
	msg := errors.GetMessage(err)
	if code != errors.ErrUnknown {
		msg = fmt.Sprintf("[%s] %s", code, msg)
	}
	_, werr := fmt.Fprintln(r.output, "Error: "+strings.TrimSpace(msg))
	return werr
}

// RenderMessage writes msg
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

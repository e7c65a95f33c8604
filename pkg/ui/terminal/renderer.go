// Package terminal renders rich terminal output: styled messages, tables
// and Markdown plans
package terminal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arthur-debert/windeploy/pkg/deploy"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/ui/markdown"
	"github.com/arthur-debert/windeploy/pkg/ui/styles"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"
)

// Renderer writes styled output to a terminal
type Renderer struct {
	output   io.Writer
	markdown markdown.Renderer
}

// New creates a terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w, markdown: markdown.NewGlamourRenderer(0)}
}

// WithMarkdown replaces the plan renderer
func (r *Renderer) WithMarkdown(m markdown.Renderer) *Renderer {
	r.markdown = m
	return r
}

// RenderDisks writes a table of disks
func (r *Renderer) RenderDisks(disks []types.Disk) error {
	if len(disks) == 0 {
		return r.RenderMessage("No disks found.")
	}

	table := tablewriter.NewWriter(r.output)
	table.Header("#", "Model", "Size", "Style", "Bus", "Serial")
	for _, d := range disks {
		if err := table.Append([]string{
			strconv.Itoa(d.Number),
			d.Model,
			humanize.Bytes(d.SizeBytes),
			d.PartitionStyle.String(),
			d.BusType,
			d.Serial,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderImages writes a table of editions
func (r *Renderer) RenderImages(result deploy.ImagesResult) error {
	if !result.OK {
		return r.RenderError(result.Err())
	}

	if _, err := fmt.Fprintln(r.output, styles.Render("Muted", result.ImagePath)); err != nil {
		return err
	}
	table := tablewriter.NewWriter(r.output)
	table.Header("Index", "Name", "Size", "Description")
	for _, e := range result.Entries {
		size := ""
		if e.Size > 0 {
			size = humanize.Bytes(e.Size)
		}
		if err := table.Append([]string{strconv.Itoa(e.Index), e.Name, size, e.Description}); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderPlan renders the plan's Markdown
func (r *Renderer) RenderPlan(plan deploy.Plan) error {
	_, err := fmt.Fprint(r.output, r.markdown.Render(plan.Markdown()))
	return err
}

// RenderOutcome writes the final line of a deployment
func (r *Renderer) RenderOutcome(outcome types.Outcome) error {
	var line string
	if outcome.Succeeded {
		line = styles.Render("Success", "✓ "+outcome.Message)
	} else {
		line = styles.Render("Error", "✗ "+outcome.Message)
	}
	_, err := fmt.Fprintln(r.output, line)
	return err
}

// RenderError writes err with its code
func (r *Renderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	code := errors.GetErrorCode(err)
	var line string
	if code != errors.ErrUnknown {
		line = fmt.Sprintf("%s [%s] %s", pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(code), errors.GetMessage(err))
	} else {
		line = fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
	}
	_, werr := fmt.Fprintln(r.output, line)
	return werr
}

// RenderMessage writes msg
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Info", msg))
	return err
}

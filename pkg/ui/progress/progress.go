// Package progress shows deployment events as they happen. Long steps get a
// pterm spinner on interactive terminals; everything else is one line per
// event.
package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// Options configures a Reporter
type Options struct {
	// Interactive enables the spinner
	Interactive bool
	// ShowDetail prints raw tool output carried by events
	ShowDetail bool
}

// Reporter prints events
type Reporter struct {
	w       io.Writer
	opts    Options
	spinner *pterm.SpinnerPrinter
	spinFor types.State
}

// New creates a Reporter writing to w
func New(w io.Writer, opts Options) *Reporter {
	return &Reporter{w: w, opts: opts}
}

// spins reports whether state is slow enough to deserve a spinner
func spins(state types.State) bool {
	return state == types.Applying || state == types.Preparing
}

// Follow prints events until the channel is closed
func (r *Reporter) Follow(events <-chan types.Event) {
	for e := range events {
		r.Handle(e)
	}
	r.stopSpinner(true, "")
}

// Handle prints one event
func (r *Reporter) Handle(e types.Event) {
	if e.State == types.Done {
		// the outcome itself is rendered by the caller
		r.stopSpinner(true, "")
		return
	}

	if r.spinner != nil {
		if e.State == r.spinFor {
			r.stopSpinner(true, e.Message)
			r.detail(e)
			return
		}
		r.stopSpinner(false, "")
	}

	if r.opts.Interactive && spins(e.State) {
		if sp, err := pterm.DefaultSpinner.WithWriter(r.w).WithRemoveWhenDone(false).Start(e.Message); err == nil {
			r.spinner = sp
			r.spinFor = e.State
			return
		}
	}

	r.line(e)
	r.detail(e)
}

// stopSpinner finishes the running spinner. A succeeded spinner shows msg
// or its own text.
func (r *Reporter) stopSpinner(succeeded bool, msg string) {
	if r.spinner == nil {
		return
	}
	if succeeded && msg != "" {
		r.spinner.Success(msg)
	} else if succeeded {
		_ = r.spinner.Stop()
	} else {
		r.spinner.Fail()
	}
	r.spinner = nil
}

func (r *Reporter) line(e types.Event) {
	if !r.opts.Interactive {
		fmt.Fprintf(r.w, "[%s] %s\n", e.State, e.Message)
		return
	}
	state := styles.Render("State", e.State.String())
	if e.State.Destructive() {
		state = styles.Render("Destructive", e.State.String())
	}
	fmt.Fprintf(r.w, "%s %s\n", state, e.Message)
}

func (r *Reporter) detail(e types.Event) {
	if !r.opts.ShowDetail || strings.TrimSpace(e.Detail) == "" {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(e.Detail, "\r\n"), "\n") {
		fmt.Fprintln(r.w, "    "+styles.Render("Muted", strings.TrimRight(l, "\r")))
	}
}

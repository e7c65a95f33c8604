package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/bcdboot"
	"github.com/arthur-debert/windeploy/pkg/diskpart"
	"github.com/arthur-debert/windeploy/pkg/dism"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/source"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/wiminfo"
)

// Step is one command a deployment would run
type Step struct {
	State   types.State `json:"state" yaml:"state"`
	Title   string      `json:"title" yaml:"title"`
	Command string      `json:"command" yaml:"command"`
	// Script is the DiskPart text, if any
	Script string `json:"script,omitempty" yaml:"script,omitempty"`
}

// Plan describes what Run would do for a request without touching the
// target disk
type Plan struct {
	Request   types.DeploymentRequest `json:"request" yaml:"request"`
	ImagePath string                  `json:"image_path" yaml:"image_path"`
	Edition   types.ImageEntry        `json:"edition" yaml:"edition"`
	Letters   letters.Set             `json:"letters" yaml:"letters"`
	// Inspection is set for disc images
	Inspection *source.Inspection `json:"inspection,omitempty" yaml:"inspection,omitempty"`
	Steps      []Step             `json:"steps" yaml:"steps"`
}

// Plan checks a request the way Run does up to Validating, then returns the
// commands Run would execute. A disc image is mounted to locate its image
// file and unmounted again. Confirmation is not required.
func (o *Orchestrator) Plan(ctx context.Context, req types.DeploymentRequest) (Plan, error) {
	req.Confirmed = true
	if err := o.checkRequest(req); err != nil {
		return Plan{}, err
	}

	d := &deployment{
		o:      o,
		id:     "plan",
		req:    req,
		logger: o.logger.With().Str("plan", req.Source.Path).Logger(),
	}

	plan := Plan{Request: req}
	if req.Source.Kind == types.DiscImage {
		in := source.Inspect(o.fs, req.Source.Path)
		plan.Inspection = &in
	}

	res, err := o.resolver.Resolve(ctx, req.Source)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrMount) {
			return Plan{}, errors.Wrap(err, errors.ErrMount, MsgMountFailed+errors.GetMessage(err))
		}
		return Plan{}, err
	}
	defer o.resolver.Unmount(ctx, res.Handle)

	plan.ImagePath = res.ImagePath
	plan.Edition, err = o.checkImage(ctx, d, res.ImagePath)
	if err != nil {
		return Plan{}, err
	}
	if plan.Edition.Index == 0 {
		// without revalidation the name is best effort
		if entries, err := wiminfo.ReadEntries(o.fs, res.ImagePath); err == nil {
			plan.Edition, _ = wiminfo.Lookup(entries, req.Index)
		}
	}
	if plan.Edition.Index == 0 {
		plan.Edition.Index = req.Index
	}

	set, err := o.letters.Allocate()
	if err != nil {
		return Plan{}, err
	}
	plan.Letters = set
	plan.Steps = o.steps(req, res.ImagePath, set)
	return plan, nil
}

func (o *Orchestrator) steps(req types.DeploymentRequest, imagePath string, set letters.Set) []Step {
	var steps []Step
	if req.Source.Kind == types.DiscImage {
		steps = append(steps, Step{
			State:   types.ResolvingSource,
			Title:   "Mount the disc image",
			Command: "Mount-DiskImage -ImagePath " + source.Quote(req.Source.Path),
		})
	}

	steps = append(steps,
		Step{
			State:   types.Preparing,
			Title:   fmt.Sprintf("Wipe and partition disk %d (%s)", req.DiskNumber, req.Scheme),
			Command: commandLine(o.programs.DiskPart, "/s", "<script>"),
			Script:  diskpart.Script(req.DiskNumber, req.Scheme, set, o.sizes),
		},
		Step{
			State:   types.Applying,
			Title:   fmt.Sprintf("Apply edition %d", req.Index),
			Command: commandLine(o.programs.DISM, dism.ApplyArgs(imagePath, req.Index, set.WindowsRoot())...),
		},
		Step{
			State:   types.ConfiguringBoot,
			Title:   fmt.Sprintf("Write %s boot files", req.Scheme.Firmware()),
			Command: commandLine(o.programs.BCDBoot, bcdboot.Args(set.WindowsRoot(), req.Scheme, set)...),
		},
		Step{
			State:   types.CleaningUp,
			Title:   "Release temporary drive letters",
			Command: commandLine(o.programs.DiskPart, "/s", "<script>"),
			Script:  diskpart.CleanupScript(req.DiskNumber, req.Scheme, set),
		},
	)

	if req.Source.Kind == types.DiscImage {
		steps = append(steps, Step{
			State:   types.Unmounting,
			Title:   "Unmount the disc image",
			Command: "Dismount-DiskImage -ImagePath " + source.Quote(req.Source.Path),
		})
	}
	return steps
}

// commandLine renders a command for display, quoting arguments with spaces
func commandLine(program string, args ...string) string {
	parts := []string{program}
	for _, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Markdown renders the plan as a Markdown document
func (p Plan) Markdown() string {
	var b strings.Builder

	b.WriteString("# Deployment plan\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Source | `%s` (%s) |\n", p.Request.Source.Path, p.Request.Source.Kind)
	fmt.Fprintf(&b, "| Image file | `%s` |\n", p.ImagePath)
	if p.Edition.Name != "" {
		fmt.Fprintf(&b, "| Edition | %d: %s |\n", p.Edition.Index, p.Edition.Name)
	} else {
		fmt.Fprintf(&b, "| Edition | %d |\n", p.Edition.Index)
	}
	fmt.Fprintf(&b, "| Target disk | %d |\n", p.Request.DiskNumber)
	fmt.Fprintf(&b, "| Scheme | %s (%s) |\n", p.Request.Scheme, p.Request.Scheme.Firmware())
	fmt.Fprintf(&b, "| Temporary letters | %s |\n\n", p.Letters)

	if p.Inspection != nil {
		switch p.Inspection.Verdict {
		case source.Found:
			fmt.Fprintf(&b, "Pre-flight: the disc image contains `%s`.\n\n", p.Inspection.Entry)
		default:
			fmt.Fprintf(&b, "Pre-flight %s: %s\n\n", p.Inspection.Verdict, p.Inspection.Reason)
		}
	}

	fmt.Fprintf(&b, "> **Every partition on disk %d will be erased.** There is no rollback once partitioning starts.\n\n", p.Request.DiskNumber)

	for i, s := range p.Steps {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Title)
		fmt.Fprintf(&b, "```\n%s\n```\n\n", s.Command)
		if s.Script != "" {
			fmt.Fprintf(&b, "```\n%s\n```\n\n", s.Script)
		}
	}
	return b.String()
}

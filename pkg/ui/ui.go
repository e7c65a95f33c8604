// Package ui renders command results as rich terminal output, plain text,
// JSON or YAML.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/windeploy/pkg/deploy"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/ui/json"
	"github.com/arthur-debert/windeploy/pkg/ui/terminal"
	"github.com/arthur-debert/windeploy/pkg/ui/text"
	"github.com/arthur-debert/windeploy/pkg/ui/yaml"
)

// Renderer writes command results in one format
type Renderer interface {
	RenderDisks(disks []types.Disk) error
	RenderImages(result deploy.ImagesResult) error
	RenderPlan(plan deploy.Plan) error
	RenderOutcome(outcome types.Outcome) error
	RenderError(err error) error
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects output
// when it is a file and falls back to the terminal format otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatTerminal, output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}

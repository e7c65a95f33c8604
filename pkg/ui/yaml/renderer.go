// Package yaml renders YAML documents
package yaml

import (
	"io"

	"github.com/arthur-debert/windeploy/pkg/deploy"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/types"
	"gopkg.in/yaml.v3"
)

// Renderer writes one YAML document per call
type Renderer struct {
	output io.Writer
}

// New creates a YAML renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

func (r *Renderer) encode(v interface{}) error {
	enc := yaml.NewEncoder(r.output)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Renderer) RenderDisks(disks []types.Disk) error {
	if disks == nil {
		disks = []types.Disk{}
	}
	return r.encode(disks)
}

func (r *Renderer) RenderImages(result deploy.ImagesResult) error {
	return r.encode(result)
}

func (r *Renderer) RenderPlan(plan deploy.Plan) error {
	return r.encode(plan)
}

func (r *Renderer) RenderOutcome(outcome types.Outcome) error {
	return r.encode(outcome)
}

func (r *Renderer) RenderError(err error) error {
	return r.encode(map[string]string{
		"error": errors.GetMessage(err),
		"code":  string(errors.GetErrorCode(err)),
	})
}

func (r *Renderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}

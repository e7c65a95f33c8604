// Package json renders machine-readable JSON
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/windeploy/pkg/deploy"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/types"
)

// Renderer writes one indented JSON document per call
type Renderer struct {
	encoder *json.Encoder
}

// New creates a JSON renderer
func New(w io.Writer) *Renderer {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// RenderDisks writes the disk array; never null
func (r *Renderer) RenderDisks(disks []types.Disk) error {
	if disks == nil {
		disks = []types.Disk{}
	}
	return r.encoder.Encode(disks)
}

func (r *Renderer) RenderImages(result deploy.ImagesResult) error {
	return r.encoder.Encode(result)
}

func (r *Renderer) RenderPlan(plan deploy.Plan) error {
	return r.encoder.Encode(plan)
}

func (r *Renderer) RenderOutcome(outcome types.Outcome) error {
	return r.encoder.Encode(outcome)
}

// RenderError writes {"error": ..., "code": ...}
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{
		"error": errors.GetMessage(err),
		"code":  string(errors.GetErrorCode(err)),
	})
}

func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}

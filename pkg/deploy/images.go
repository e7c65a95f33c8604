package deploy

import (
	"context"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/source"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/wiminfo"
)

// ImagesResult is the outcome of reading the editions of a source
type ImagesResult struct {
	OK      bool               `json:"ok" yaml:"ok"`
	Message string             `json:"message" yaml:"message"`
	Entries []types.ImageEntry `json:"entries" yaml:"entries"`
	// Code classifies a failure
	Code errors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	// ImagePath is where the image file was found. For a disc image the
	// drive is unmounted again before the result is returned.
	ImagePath string `json:"image_path,omitempty" yaml:"image_path,omitempty"`
}

// ReadImages lists the editions of path on a new goroutine. The channel
// yields exactly one result and is then closed.
func (o *Orchestrator) ReadImages(ctx context.Context, path string) <-chan ImagesResult {
	ch := make(chan ImagesResult, 1)
	go func() {
		defer close(ch)
		ch <- o.ListImages(ctx, path)
	}()
	return ch
}

// ListImages classifies and resolves path, asks DISM for its editions and
// releases any mount before returning
func (o *Orchestrator) ListImages(ctx context.Context, path string) ImagesResult {
	logger := o.logger.With().Str("source", path).Logger()

	ref, err := source.Classify(path)
	if err != nil {
		return failed(err)
	}

	res, err := o.resolver.Resolve(ctx, ref)
	if err != nil {
		return failed(err)
	}
	defer o.resolver.Unmount(ctx, res.Handle)

	entries, err := o.lister.List(ctx, res.ImagePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read editions")
		return failed(err)
	}

	// DISM only reports names; the XML metadata adds descriptions and sizes
	if detailed, err := wiminfo.ReadEntries(o.fs, res.ImagePath); err == nil {
		entries = merge(entries, detailed)
	}

	logger.Info().Int("editions", len(entries)).Msg(wiminfo.MsgReadOK)
	return ImagesResult{OK: true, Message: wiminfo.MsgReadOK, Entries: entries, ImagePath: res.ImagePath}
}

func failed(err error) ImagesResult {
	return ImagesResult{Message: errors.GetMessage(err), Code: errors.GetErrorCode(err)}
}

// Err returns the failure as an error, or nil when the result is OK
func (r ImagesResult) Err() error {
	if r.OK {
		return nil
	}
	return errors.New(r.Code, r.Message)
}

// merge fills description and size into entries from detailed, matching by
// index. Order and names come from entries.
func merge(entries, detailed []types.ImageEntry) []types.ImageEntry {
	out := make([]types.ImageEntry, len(entries))
	for i, e := range entries {
		if d, ok := wiminfo.Lookup(detailed, e.Index); ok {
			e.Description = d.Description
			e.Size = d.Size
		}
		out[i] = e
	}
	return out
}

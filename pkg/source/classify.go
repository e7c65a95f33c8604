package source

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/types"
)

// Classify decides the source kind from the file extension, ignoring case
func Classify(path string) (types.SourceReference, error) {
	if strings.TrimSpace(path) == "" {
		return types.SourceReference{}, errors.New(errors.ErrPrecondition, "No source selected")
	}

	// Windows paths are classified the same way on every host
	ext := strings.ToLower(filepath.Ext(strings.ReplaceAll(path, `\`, "/")))

	switch ext {
	case ".iso":
		return types.SourceReference{Path: path, Kind: types.DiscImage}, nil
	case ".wim", ".esd":
		return types.SourceReference{Path: path, Kind: types.ImageFile}, nil
	default:
		return types.SourceReference{}, errors.New(errors.ErrUnsupportedSource, "Unsupported source type").
			WithDetail("path", path).
			WithDetail("extension", ext)
	}
}

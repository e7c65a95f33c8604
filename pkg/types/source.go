package types

import "sync/atomic"

// SourceKind tells how a source must be opened
type SourceKind int

const (
	// DiscImage is an .iso that must be mounted to reach its image file
	DiscImage SourceKind = iota + 1
	// ImageFile is a .wim or .esd used directly
	ImageFile
)

func (k SourceKind) String() string {
	switch k {
	case DiscImage:
		return "disc image"
	case ImageFile:
		return "image file"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SourceReference is a classified source path
type SourceReference struct {
	Path string     `json:"path" yaml:"path" validate:"required"`
	Kind SourceKind `json:"kind" yaml:"kind" validate:"oneof=1 2"`
}

// MountHandle records a mounted disc image. Only the resolver creates one,
// and whoever caused the mount must release it.
type MountHandle struct {
	SourcePath string
	// DriveRoot is the assigned root, such as `E:\`
	DriveRoot string

	released atomic.Bool
}

// MarkReleased records that the image is being detached. It returns true
// only for the first call on a handle.
func (h *MountHandle) MarkReleased() bool {
	return h.released.CompareAndSwap(false, true)
}

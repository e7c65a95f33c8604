package types

// ImageEntry is one edition inside an image file
type ImageEntry struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
	// Description and Size are only known when read from the image's XML
	// metadata, not from the DISM listing
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Size        uint64 `json:"size,omitempty" yaml:"size,omitempty"`
}

package source

import (
	"fmt"
	"strings"

	"github.com/kdomanski/iso9660"
	"github.com/spf13/afero"
)

// Verdict is the result of a pre-flight inspection
type Verdict int

const (
	// Inconclusive means the ISO-9660 tree could not tell, typically a UDF
	// bridge disc such as Windows install media
	Inconclusive Verdict = iota
	Found
	NotFound
)

func (v Verdict) String() string {
	switch v {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	default:
		return "inconclusive"
	}
}

// MarshalText renders the verdict by name
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Inspection reports what the ISO-9660 tree of a disc image shows
type Inspection struct {
	Verdict Verdict `json:"verdict" yaml:"verdict"`
	// Entry is the image file path inside the disc image when found
	Entry  string `json:"entry,omitempty" yaml:"entry,omitempty"`
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Inspect looks for sources/install.wim (or .esd) in a disc image without
// mounting it
func Inspect(fs afero.Fs, path string) Inspection {
	f, err := fs.Open(path)
	if err != nil {
		return Inspection{Reason: fmt.Sprintf("cannot open disc image: %v", err)}
	}
	defer func() { _ = f.Close() }()

	image, err := iso9660.OpenImage(f)
	if err != nil {
		return Inspection{Reason: fmt.Sprintf("not an ISO-9660 image: %v", err)}
	}

	result := Inspection{}
	if label, err := image.Label(); err == nil {
		result.Volume = strings.TrimSpace(label)
	}

	root, err := image.RootDir()
	if err != nil {
		result.Reason = readFailure(err)
		return result
	}

	sources, err := child(root, sourcesDir)
	if err != nil {
		result.Reason = readFailure(err)
		return result
	}
	if sources == nil || !sources.IsDir() {
		result.Reason = "no sources directory in the ISO-9660 tree; the image may be UDF only"
		return result
	}

	for _, name := range imageNames {
		entry, err := child(sources, name)
		if err != nil {
			result.Reason = readFailure(err)
			return result
		}
		if entry != nil && !entry.IsDir() {
			result.Verdict = Found
			result.Entry = "/" + sourcesDir + "/" + name
			return result
		}
	}

	result.Verdict = NotFound
	result.Reason = "sources directory has no install.wim or install.esd"
	return result
}

// child finds an entry of dir by name, ignoring case and the ";1" version
// suffix plain ISO-9660 names carry
func child(dir *iso9660.File, name string) (*iso9660.File, error) {
	children, err := dir.GetChildren()
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		if normalizeName(c.Name()) == name {
			return c, nil
		}
	}
	return nil, nil
}

func normalizeName(name string) string {
	if i := strings.LastIndexByte(name, ';'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// isUDFMismatch recognizes the error iso9660 returns when it walks into
// the UDF part of a hybrid disc
func isUDFMismatch(err error) bool {
	return err != nil && strings.Contains(err.Error(), "little-endian and big-endian value mismatch")
}

func readFailure(err error) string {
	if isUDFMismatch(err) {
		return "UDF/hybrid disc not readable through ISO-9660"
	}
	return fmt.Sprintf("cannot read ISO-9660 tree: %v", err)
}

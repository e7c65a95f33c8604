package letters

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/errors"
)

// Set is the pair of letters one deployment uses
type Set struct {
	// System receives the EFI system partition (GPT only)
	System byte
	// Windows receives the Windows partition
	Windows byte
}

// Default is S for the system partition and W for Windows
func Default() Set {
	return Set{System: 'S', Windows: 'W'}
}

// Parse builds a Set from two one-letter strings
func Parse(system, windows string) (Set, error) {
	s, err := parseLetter(system)
	if err != nil {
		return Set{}, err
	}
	w, err := parseLetter(windows)
	if err != nil {
		return Set{}, err
	}
	if s == w {
		return Set{}, errors.Newf(errors.ErrInvalidInput, "system and Windows letters must differ (both %c)", s)
	}
	return Set{System: s, Windows: w}, nil
}

func parseLetter(s string) (byte, error) {
	s = strings.ToUpper(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ":")))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, errors.Newf(errors.ErrInvalidInput, "invalid drive letter %q", s)
	}
	return s[0], nil
}

// SystemRoot is the system letter with a colon, "S:"
func (s Set) SystemRoot() string { return string([]byte{s.System, ':'}) }

// WindowsRoot is the Windows letter with a colon, "W:"
func (s Set) WindowsRoot() string { return string([]byte{s.Windows, ':'}) }

// MarshalText renders the set as "S/W"
func (s Set) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Set) String() string {
	return fmt.Sprintf("%c/%c", s.System, s.Windows)
}

// Allocator chooses the letters for one deployment
type Allocator interface {
	Allocate() (Set, error)
}

// Fixed always hands out the same set
type Fixed Set

func (f Fixed) Allocate() (Set, error) { return Set(f), nil }

// Probe reports whether a drive letter is already in use
type Probe func(letter byte) bool

// InUse probes the host for an existing drive root
func InUse(letter byte) bool {
	_, err := os.Stat(string([]byte{letter, ':', '\\'}))
	return err == nil
}

// Dynamic picks free letters scanning from Z down to D. A, B and C are
// never handed out.
type Dynamic struct {
	Probe Probe
}

func (d Dynamic) Allocate() (Set, error) {
	probe := d.Probe
	if probe == nil {
		probe = InUse
	}

	var free []byte
	for c := byte('Z'); c >= 'D' && len(free) < 2; c-- {
		if !probe(c) {
			free = append(free, c)
		}
	}
	if len(free) < 2 {
		return Set{}, errors.New(errors.ErrPrecondition, "fewer than two free drive letters available")
	}
	// the higher letter goes to Windows, matching the S/W ordering
	return Set{System: free[1], Windows: free[0]}, nil
}

package types

import (
	"fmt"
	"strings"
)

// Scheme is the partition table a deployment creates
type Scheme string

const (
	GPT Scheme = "gpt"
	MBR Scheme = "mbr"
)

// ParseScheme accepts "gpt" or "mbr" in any case
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case GPT:
		return GPT, nil
	case MBR:
		return MBR, nil
	default:
		return "", fmt.Errorf("unknown partition scheme %q (want gpt or mbr)", s)
	}
}

// Firmware returns the bcdboot firmware flag matching the scheme
func (s Scheme) Firmware() string {
	if s == MBR {
		return "BIOS"
	}
	return "UEFI"
}

func (s Scheme) String() string { return strings.ToUpper(string(s)) }

// DeploymentRequest is the input of one deployment. It is passed by value
// and never modified once orchestration starts.
type DeploymentRequest struct {
	Source SourceReference `json:"source" yaml:"source" validate:"required"`
	// ImagePath is the image file seen when the editions were listed. The
	// orchestrator resolves the source again and uses the fresh path.
	ImagePath  string `json:"image_path,omitempty" yaml:"image_path,omitempty"`
	Index      int    `json:"index" yaml:"index" validate:"gt=0"`
	DiskNumber int    `json:"disk" yaml:"disk" validate:"gte=0"`
	Scheme     Scheme `json:"scheme" yaml:"scheme" validate:"oneof=gpt mbr"`
	// Confirmed is set by the caller once the operator has accepted that
	// the target disk will be wiped
	Confirmed bool `json:"confirmed" yaml:"confirmed"`
}

// Outcome is the terminal result of a deployment
type Outcome struct {
	Succeeded bool   `json:"succeeded" yaml:"succeeded"`
	Message   string `json:"message" yaml:"message"`
}

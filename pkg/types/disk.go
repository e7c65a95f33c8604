package types

import (
	"math"
	"strings"
)

// PartitionStyle is the partition table a disk currently carries
type PartitionStyle int

const (
	StyleUnknown PartitionStyle = iota
	StyleMBR
	StyleGPT
)

func (s PartitionStyle) String() string {
	switch s {
	case StyleMBR:
		return "MBR"
	case StyleGPT:
		return "GPT"
	default:
		return "RAW"
	}
}

// ParsePartitionStyle maps the names Get-Disk reports. Anything that is not
// MBR or GPT (RAW, empty) is StyleUnknown.
func ParsePartitionStyle(s string) PartitionStyle {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MBR":
		return StyleMBR
	case "GPT":
		return StyleGPT
	default:
		return StyleUnknown
	}
}

// Disk is one physical disk as reported by the disk query
type Disk struct {
	Number         int            `json:"number" yaml:"number"`
	Model          string         `json:"model" yaml:"model"`
	Serial         string         `json:"serial" yaml:"serial"`
	PartitionStyle PartitionStyle `json:"partition_style" yaml:"partition_style"`
	SizeBytes      uint64         `json:"size_bytes" yaml:"size_bytes"`
	BusType        string         `json:"bus_type,omitempty" yaml:"bus_type,omitempty"`
}

// SizeGB is the size in GiB rounded to two decimals, for display only
func (d Disk) SizeGB() float64 {
	return math.Round(float64(d.SizeBytes)/(1<<30)*100) / 100
}

func (s PartitionStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

package config

import (
	"fmt"
	"time"
)

// Config is the complete windeploy configuration
type Config struct {
	Tools      Tools      `koanf:"tools" toml:"tools" comment:"Locations of the system utilities windeploy drives"`
	Timeouts   Timeouts   `koanf:"timeouts" toml:"timeouts" comment:"Per-step timeouts. 0 disables the timeout"`
	Letters    Letters    `koanf:"letters" toml:"letters" comment:"Temporary drive letters assigned while deploying"`
	Partitions Partitions `koanf:"partitions" toml:"partitions" comment:"Partition sizes used by the GPT recipe"`
	Deploy     Deploy     `koanf:"deploy" toml:"deploy"`
}

type Tools struct {
	PowerShell string `koanf:"powershell" toml:"powershell" default:"powershell.exe" validate:"required"`
	DiskPart   string `koanf:"diskpart" toml:"diskpart" default:"diskpart.exe" validate:"required"`
	DISM       string `koanf:"dism" toml:"dism" default:"dism.exe" validate:"required"`
	BCDBoot    string `koanf:"bcdboot" toml:"bcdboot" default:"bcdboot.exe" validate:"required"`
}

type Timeouts struct {
	Query    Duration `koanf:"query" toml:"query" default:"2m" validate:"gte=0"`
	Mount    Duration `koanf:"mount" toml:"mount" default:"2m" validate:"gte=0"`
	Unmount  Duration `koanf:"unmount" toml:"unmount" default:"1m" validate:"gte=0"`
	DiskPart Duration `koanf:"diskpart" toml:"diskpart" default:"10m" validate:"gte=0"`
	Apply    Duration `koanf:"apply" toml:"apply" default:"0s" validate:"gte=0" comment:"Applying an image can take a very long time"`
	BCDBoot  Duration `koanf:"bcdboot" toml:"bcdboot" default:"5m" validate:"gte=0"`
}

type Letters struct {
	System  string `koanf:"system" toml:"system" default:"S" validate:"required,len=1,alpha"`
	Windows string `koanf:"windows" toml:"windows" default:"W" validate:"required,len=1,alpha,nefield=System"`
	Dynamic bool   `koanf:"dynamic" toml:"dynamic" default:"false" comment:"Pick two free letters per deployment instead of the fixed ones"`
}

type Partitions struct {
	EFISizeMB int `koanf:"efi_size_mb" toml:"efi_size_mb" default:"100" validate:"gte=100"`
	MSRSizeMB int `koanf:"msr_size_mb" toml:"msr_size_mb" default:"16" validate:"gte=16"`
}

type Deploy struct {
	RevalidateIndex bool   `koanf:"revalidate_index" toml:"revalidate_index" default:"true" comment:"Check that the chosen edition index exists before wiping the disk"`
	ScratchDir      string `koanf:"scratch_dir" toml:"scratch_dir" default:"" comment:"Directory for temporary DiskPart scripts. Empty uses the system temp dir"`
}

// Duration is a time.Duration that reads and writes as "10m" in TOML
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

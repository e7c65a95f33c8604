package diskpart

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/types"
)

// Sizes are the fixed partition sizes of the GPT recipe, in MB
type Sizes struct {
	EFI int
	MSR int
}

// DefaultSizes are 100 MB for the ESP and 16 MB for the MSR
func DefaultSizes() Sizes {
	return Sizes{EFI: 100, MSR: 16}
}

// Script returns the DiskPart directives that wipe disk and lay it out for
// scheme
func Script(disk int, scheme types.Scheme, set letters.Set, sizes Sizes) string {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("select disk %d", disk)
	add("clean")

	if scheme == types.MBR {
		add("convert mbr")
		add("create partition primary")
		add("format fs=ntfs quick label=Windows")
		add("active")
		add("assign letter=%c", set.Windows)
	} else {
		add("convert gpt")
		add("create partition efi size=%d", sizes.EFI)
		add("format quick fs=fat32 label=System")
		add("assign letter=%c", set.System)
		add("create partition msr size=%d", sizes.MSR)
		add("create partition primary")
		add("format fs=ntfs quick label=Windows")
		add("assign letter=%c", set.Windows)
	}

	add("list volume")
	add("exit")
	return strings.Join(lines, "\n")
}

// CleanupScript releases the letters Script assigned for scheme
func CleanupScript(disk int, scheme types.Scheme, set letters.Set) string {
	lines := []string{
		fmt.Sprintf("select disk %d", disk),
		fmt.Sprintf("select volume %c", set.Windows),
		fmt.Sprintf("remove letter=%c", set.Windows),
	}
	if scheme != types.MBR {
		lines = append(lines,
			fmt.Sprintf("select volume %c", set.System),
			fmt.Sprintf("remove letter=%c", set.System),
		)
	}
	lines = append(lines, "exit")
	return strings.Join(lines, "\n")
}

package source

import (
	"fmt"
	"strings"
)

// Quote returns s as a PowerShell single-quoted string literal. Inside such
// a literal only quote characters are special and are escaped by doubling.
// PowerShell also ends the literal on the typographic single quotes.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		if isSingleQuote(r) {
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

func isSingleQuote(r rune) bool {
	switch r {
	case '\'', '‘', '’', '‚', '‛':
		return true
	}
	return false
}

func mountScript(path string) string {
	return fmt.Sprintf(
		"$img = Mount-DiskImage -ImagePath %s -PassThru; "+
			"$vol = Get-Volume -DiskImage $img | Where-Object {$_.DriveLetter} | Select -First 1; "+
			"if ($vol) { $vol.DriveLetter } else { '' }",
		Quote(path))
}

func unmountScript(path string) string {
	return "Dismount-DiskImage -ImagePath " + Quote(path)
}

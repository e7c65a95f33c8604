package paths

import "strings"

// WindowsJoin joins path elements with backslashes regardless of the host
// OS. Drive roots ("E:" or "E:\") are kept as given.
func WindowsJoin(elem ...string) string {
	var b strings.Builder
	for _, e := range elem {
		e = strings.ReplaceAll(e, "/", `\`)
		if e == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(e)
			continue
		}
		if !strings.HasSuffix(b.String(), `\`) {
			b.WriteByte('\\')
		}
		b.WriteString(strings.TrimLeft(e, `\`))
	}
	return b.String()
}

// DriveRoot returns "X:" for a drive letter
func DriveRoot(letter byte) string {
	return string([]byte{upper(letter), ':'})
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

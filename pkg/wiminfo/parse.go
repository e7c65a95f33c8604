package wiminfo

import (
	"strconv"
	"strings"

	"github.com/arthur-debert/windeploy/pkg/types"
)

const (
	MsgNoImages = "No images found in WIM"
	MsgReadOK   = "WIM info read successfully"

	indexMarker = "index :"
	nameMarker  = "name :"
)

// Parse extracts index/name pairs from a DISM /Get-WimInfo listing.
//
// Pairing is positional: an index line followed by a name line (or the
// reverse) yields one entry and both are cleared. A second index line
// before a name replaces the first. An index that is not a positive
// integer clears the pending index.
func Parse(text string) ([]types.ImageEntry, bool, string) {
	var entries []types.ImageEntry
	pendingIndex := 0
	pendingName := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, indexMarker):
			pendingIndex = parseIndex(line[len(indexMarker):])
		case strings.HasPrefix(lower, nameMarker):
			pendingName = strings.TrimSpace(line[len(nameMarker):])
		}

		if pendingIndex > 0 && pendingName != "" {
			entries = append(entries, types.ImageEntry{Index: pendingIndex, Name: pendingName})
			pendingIndex = 0
			pendingName = ""
		}
	}

	if len(entries) == 0 {
		return nil, false, MsgNoImages
	}
	return entries, true, MsgReadOK
}

func parseIndex(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// HasIndex reports whether index is one of the entries
func HasIndex(entries []types.ImageEntry, index int) bool {
	for _, e := range entries {
		if e.Index == index {
			return true
		}
	}
	return false
}

// Lookup returns the entry with the given index
func Lookup(entries []types.ImageEntry, index int) (types.ImageEntry, bool) {
	for _, e := range entries {
		if e.Index == index {
			return e, true
		}
	}
	return types.ImageEntry{}, false
}

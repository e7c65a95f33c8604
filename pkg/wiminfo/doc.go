// Package wiminfo reads the list of editions inside a WIM or ESD image.
//
// Parse handles the text DISM prints for /Get-WimInfo. It is pure: the same
// text always yields the same entries.
//
// ReadEntries reads the XML metadata resource straight from the image file,
// which needs no external tool. The orchestrator uses it to check that the
// chosen edition index still exists before it wipes the target disk.
package wiminfo

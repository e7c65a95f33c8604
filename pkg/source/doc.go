// Package source turns a user-chosen source path into an image file path.
//
// An image file (.wim, .esd) is used as is. A disc image (.iso) is mounted
// through PowerShell, and the image file is looked up under the sources
// directory of the assigned drive. The caller owns the returned
// MountHandle and must pass it back to Unmount on every exit path.
//
// Inspect reads a disc image without mounting it. Windows media is usually
// a UDF bridge disc whose ISO-9660 tree does not show the real content, so
// the result is advisory and the mounted check stays authoritative.
package source

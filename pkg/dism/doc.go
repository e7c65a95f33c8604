// Package dism drives the Deployment Image Servicing and Management tool.
//
// Applier writes one edition of an image file onto the prepared Windows
// volume. It reports no progress while it runs; callers show it as an
// indeterminate step. Lister reads the editions an image file contains.
package dism

// Package diskpart partitions the target disk with scripted DiskPart
// recipes.
//
// Prepare is destructive: it cleans the disk before creating partitions,
// and nothing here ever restores the previous layout. The script file is
// written right before DiskPart runs and removed right after, on every
// path.
package diskpart

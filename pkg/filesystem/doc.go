// Package filesystem provides the filesystem windeploy reads and writes
// through.
//
// Everything goes through afero.Fs so tests can substitute an in-memory
// filesystem for the mounted media and the scratch directory.
package filesystem

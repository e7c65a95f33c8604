// Package executor runs the external system utilities windeploy drives.
//
// Every invocation takes an argument vector, never a shell command line.
// Scripts for an interpreter such as PowerShell are passed as the final
// argument of a fixed interpreter invocation.
//
// Nothing in this package returns an error value for a failed process. A
// spawn failure, a timeout and a non-zero exit all come back as a Result
// whose Err carries the classified cause, so callers always have output to
// inspect.
//
// On Windows child processes are started without a console window.
package executor

// Package letters manages the two temporary drive letters a deployment
// assigns to the partitions it creates.
//
// By default the letters are the fixed pair S (system) and W (Windows),
// which makes them a process-wide resource: Lock guards them so a second
// deployment fails fast instead of racing the first. Dynamic picks two
// currently unused letters instead.
package letters

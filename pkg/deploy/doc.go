// Package deploy runs a Windows deployment end to end.
//
// The Orchestrator walks a fixed sequence of states:
//
//	Idle → ResolvingSource → Validating → Preparing → Applying →
//	ConfiguringBoot → CleaningUp → Unmounting → Done
//
// Any failure before Preparing leaves the target disk untouched. From
// Preparing on the run is detached from context cancellation, because an
// interrupted partition or apply step can leave the disk unusable. A
// partitioned disk is never rolled back when a later step fails.
//
// Every run produces an ordered stream of Events and exactly one Outcome.
// Run delivers them synchronously to a Sink; Start runs the deployment on
// its own goroutine and exposes the events as a channel that never blocks
// the worker.
//
// ReadImages is the metadata worker behind edition selection, and Plan is
// a dry run that shows what Run would execute.
package deploy

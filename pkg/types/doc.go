// Package types defines the records passed between windeploy components.
//
// The package has no behaviour beyond small helpers on the records
// themselves. It exists so that the resolver, the partitioner, the applier
// and the orchestrator agree on one vocabulary without importing each other:
//
//   - SourceReference and MountHandle describe where an image comes from
//   - Disk and ImageEntry are what the enumerator and metadata reader return
//   - DeploymentRequest is the immutable input of one deployment
//   - Event and Outcome are what the orchestrator emits
package types

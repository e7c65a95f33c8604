// Package testutil provides test doubles for windeploy components.
//
// FakeRunner stands in for executor.Runner so no test ever starts a real
// system utility. Responses are matched by program and a substring of the
// joined arguments, and every call is recorded for later assertions.
package testutil

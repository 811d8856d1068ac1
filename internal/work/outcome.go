package work

import (
	batchv1 "k8s.io/api/batch/v1"
)

// OutcomeState classifies how a completion watch resolved.
type OutcomeState string

// Completion watch outcomes. Every watch resolves to exactly one.
const (
	OutcomeSucceeded   OutcomeState = "succeeded"
	OutcomeFailed      OutcomeState = "failed"
	OutcomeTimedOut    OutcomeState = "timed_out"
	OutcomeWatchClosed OutcomeState = "watch_closed"
)

// Outcome is the terminal resolution of a completion watch.
//
// Timeouts and subscription closure are ordinary outcomes, not errors: a
// caller that stops waiting has learned something about the job, not hit a
// fault in the watcher.
type Outcome struct {
	State OutcomeState

	// Conditions carries the job's conditions when State is OutcomeFailed.
	Conditions []batchv1.JobCondition

	// Cause is set when State is OutcomeWatchClosed and the subscription
	// ended with a server error or caller cancellation. A nil Cause means
	// the server closed the subscription cleanly before resolution.
	Cause error

	// Started reports whether the job was observed running before the
	// watch resolved.
	Started bool
}

// Completed reports whether the job itself ran to an end (succeeded or
// failed), as opposed to the watch giving up first. Status resolution and
// log extraction are only meaningful for completed outcomes.
func (o Outcome) Completed() bool {
	return o.State == OutcomeSucceeded || o.State == OutcomeFailed
}

// ReadinessState classifies how a readiness watch resolved.
type ReadinessState string

// Readiness watch outcomes.
const (
	ReadinessReady    ReadinessState = "ready"
	ReadinessAborted  ReadinessState = "aborted"
	ReadinessTimedOut ReadinessState = "timed_out"
)

// ReadinessOutcome is the terminal resolution of a readiness watch.
type ReadinessOutcome struct {
	State ReadinessState

	// Cause is set when an abort came from subscription closure or caller
	// cancellation rather than deletion of the workload.
	Cause error
}

// Ready reports whether the workload became available.
func (o ReadinessOutcome) Ready() bool {
	return o.State == ReadinessReady
}

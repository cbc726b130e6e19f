// Package flow implements the intake state machine: the persistent flow
// state, the stage transition gate, the five stage handlers, and the
// orchestrator that chains them within a single request.
package flow

// Emit receives one user-facing narration chunk. Chunks are observational:
// they are streamed to the caller as they are produced and are never
// replayed on retry.
type Emit func(chunk string)

// discard is used where a caller does not consume narration.
func discard(string) {}

// Input is the caller-supplied payload for one pipeline invocation.
type Input struct {
	// Message is the claimant's free-text message for this turn. May be
	// empty, e.g. when the invocation is triggered by a document upload.
	Message string
}

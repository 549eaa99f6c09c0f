package driven

import "time"

// EngineMetrics records match engine and index activity.
// It is optional: services accept a nil recorder.
type EngineMetrics interface {
	// IndexRebuilt records a rebuild with the number of indexed and skipped records.
	IndexRebuilt(indexed, skipped int, took time.Duration)

	// SessionOpened records a new match session.
	SessionOpened()

	// SessionClosed records how a session ended ("commit", "empty", "cancel", "invalidated", "retriggered").
	SessionClosed(reason string)

	// CandidatesComputed records the size of a candidate list.
	CandidatesComputed(n int)

	// Expanded records a submit-time expansion attempt.
	Expanded(matched bool)
}

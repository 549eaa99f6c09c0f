// Package sink provides SubmissionSink implementations that receive the
// final text produced by a committed match session.
package sink

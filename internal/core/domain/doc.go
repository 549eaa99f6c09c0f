// Package domain defines the core business entities for promptdeck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - PromptRecord: A prompt template bound to a slash command
//   - MatchSession: The live state of a command token being typed
//   - Submission: The resolved text produced by a commit
//   - AppSettings: User configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PromptStore: Prompt persistence (JSON file, SQLite or memory)
//   - ConfigStore: Application configuration
//   - SubmissionSink: Destination for committed text
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EngineMetrics: Prometheus counters for the index and engine
//   - PromptCodec: Export/import of prompt packs. Only needed by the CLI.
//   - PromptFileLocator: Lets the watcher find the file behind a store
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

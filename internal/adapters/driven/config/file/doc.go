// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (config.toml)
//   - PromptStore: JSON prompt file keyed by title (prompts.json)
package file

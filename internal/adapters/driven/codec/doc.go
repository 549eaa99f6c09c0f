// Package codec provides PromptCodec implementations used by prompt
// export and import.
//
// Formats:
//   - json: the prompt file shape, an object keyed by title
//   - yaml: a sequence of records
package codec

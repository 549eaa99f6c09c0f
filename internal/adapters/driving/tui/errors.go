package tui

import "errors"

// ErrMissingPromptService is returned when the prompt service is not provided.
var ErrMissingPromptService = errors.New("tui: prompt service is required")

// ErrMissingEngine is returned when no match engine factory is provided.
var ErrMissingEngine = errors.New("tui: match engine is required")

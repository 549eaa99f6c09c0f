package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Placeholder is the token in prompt content that is replaced with the
// free text typed after the command.
const Placeholder = "{input}"

// CommandPrefix is the character every command starts with.
const CommandPrefix = "/"

// PromptRecord is a reusable prompt bound to a slash command.
type PromptRecord struct {
	// Title is the display name and the stable key of the record.
	Title string `json:"title" yaml:"title"`

	// Command is the trigger, including the leading slash (e.g. "/summarize").
	// Matching is case-insensitive; the original case is kept for display.
	Command string `json:"command" yaml:"command"`

	// Content is the template. It may contain at most one Placeholder.
	Content string `json:"content" yaml:"content"`

	// Creator identifies who authored the prompt.
	Creator string `json:"creator" yaml:"creator"`

	// Created is when the prompt was first stored.
	Created time.Time `json:"created" yaml:"created"`

	// Modified is when the prompt was last changed.
	Modified time.Time `json:"modified" yaml:"modified"`
}

// Key returns the normalised command used for matching and uniqueness checks.
func (p *PromptRecord) Key() string {
	return NormaliseCommand(p.Command)
}

// HasPlaceholder reports whether the content contains the placeholder token.
func (p *PromptRecord) HasPlaceholder() bool {
	return strings.Contains(p.Content, Placeholder)
}

// Resolve substitutes the first placeholder in the content with input.
// Content without a placeholder is returned unchanged and input is dropped.
func (p *PromptRecord) Resolve(input string) string {
	return strings.Replace(p.Content, Placeholder, input, 1)
}

// Label returns the "/command - Title" line used in listings.
func (p *PromptRecord) Label() string {
	return fmt.Sprintf("%s - %s", p.Command, p.Title)
}

// Validate checks the record's fields without consulting other records.
func (p *PromptRecord) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := ValidateCommand(p.Command); err != nil {
		return err
	}
	if n := strings.Count(p.Content, Placeholder); n > 1 {
		return fmt.Errorf("%w: %d %s placeholders, at most one allowed", ErrInvalidContent, n, Placeholder)
	}
	return nil
}

// NormaliseCommand returns the case-folded form of a command.
// Storage uniqueness checks and index matching both go through this
// function so they can never disagree.
func NormaliseCommand(command string) string {
	return strings.ToLower(command)
}

// ValidateCommand checks that a command starts with a slash, has a name
// after it and contains no whitespace.
func ValidateCommand(command string) error {
	if !strings.HasPrefix(command, CommandPrefix) {
		return fmt.Errorf("%w: %q must start with %q", ErrInvalidCommand, command, CommandPrefix)
	}
	name := strings.TrimPrefix(command, CommandPrefix)
	if name == "" {
		return fmt.Errorf("%w: command name is empty", ErrInvalidCommand)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidCommand, command)
	}
	return nil
}

// CheckConflicts reports whether candidate collides with any of existing.
// Records whose title equals exceptTitle are ignored, which lets updates
// keep their own command.
func CheckConflicts(existing []PromptRecord, candidate PromptRecord, exceptTitle string) error {
	key := candidate.Key()
	for i := range existing {
		if existing[i].Title == exceptTitle && exceptTitle != "" {
			continue
		}
		if existing[i].Title == candidate.Title {
			return fmt.Errorf("%w: title %q", ErrAlreadyExists, candidate.Title)
		}
		if existing[i].Key() == key {
			return fmt.Errorf("%w: %s is used by %q", ErrDuplicateCommand, candidate.Command, existing[i].Title)
		}
	}
	return nil
}

// RebuildReport summarises a command index rebuild.
type RebuildReport struct {
	// Indexed is the number of records in the new snapshot.
	Indexed int

	// Skipped lists the titles (or commands, when the title is empty)
	// of records left out of the snapshot, with the reason.
	Skipped []SkippedRecord
}

// ImportReport summarises an import of a prompt pack.
type ImportReport struct {
	// Created lists the titles that were stored.
	Created []string

	// Skipped lists records rejected by validation or conflict checks.
	Skipped []SkippedRecord
}

// SkippedRecord describes a record that could not be indexed or imported.
type SkippedRecord struct {
	Title   string
	Command string
	Reason  error
}

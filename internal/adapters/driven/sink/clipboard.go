package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// ErrNoClipboard is returned when no clipboard utility is available.
var ErrNoClipboard = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")

// Ensure ClipboardSink implements the interface.
var _ driven.SubmissionSink = (*ClipboardSink)(nil)

// ClipboardSink copies submissions to the system clipboard.
type ClipboardSink struct {
	unsupported bool
	write       func(string) error
}

// NewClipboardSink creates a sink backed by the system clipboard.
func NewClipboardSink() *ClipboardSink {
	return &ClipboardSink{unsupported: clipboard.Unsupported, write: clipboard.WriteAll}
}

// Name returns "clipboard".
func (s *ClipboardSink) Name() string {
	return "clipboard"
}

// Submit replaces the clipboard contents with text.
func (s *ClipboardSink) Submit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.unsupported {
		return ErrNoClipboard
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

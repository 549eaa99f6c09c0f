package sink

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// Ensure WriterSink implements the interface.
var _ driven.SubmissionSink = (*WriterSink)(nil)

// WriterSink writes each submission to w, newline terminated.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Name returns "stdout".
func (s *WriterSink) Name() string {
	return "stdout"
}

// Submit writes text followed by a newline unless it already ends in one.
func (s *WriterSink) Submit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(s.w, text); err != nil {
		return fmt.Errorf("write submission: %w", err)
	}
	return nil
}

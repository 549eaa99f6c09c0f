package sink

import (
	"fmt"
	"io"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// New returns the sink for target. Writer-backed sinks write to w.
func New(target domain.SinkTarget, w io.Writer) (driven.SubmissionSink, error) {
	switch target {
	case domain.SinkTargetStdout, "":
		return NewWriterSink(w), nil
	case domain.SinkTargetClipboard:
		return NewClipboardSink(), nil
	default:
		return nil, fmt.Errorf("%w: sink target %q", domain.ErrUnsupportedType, target)
	}
}

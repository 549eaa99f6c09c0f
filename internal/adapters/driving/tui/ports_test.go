package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/promptdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/core/services"
)

// recordingSink collects submitted text.
type recordingSink struct {
	texts []string
}

func (s *recordingSink) Submit(_ context.Context, text string) error {
	s.texts = append(s.texts, text)
	return nil
}

func (s *recordingSink) Name() string { return "recorder" }

func newTestPorts(seed ...domain.PromptRecord) (*Ports, *services.CommandIndex) {
	idx := services.NewCommandIndex()
	svc := services.NewPromptService(memory.NewPromptStore(seed...), idx)
	_, _ = svc.Reload(context.Background())

	return &Ports{
		Prompt:    svc,
		NewEngine: func() driving.MatchEngine { return services.NewMatchEngine(idx) },
		Sink:      &recordingSink{},
	}, idx
}

func TestPorts_Validate(t *testing.T) {
	ports, _ := newTestPorts()
	assert.NoError(t, ports.Validate())

	noPrompt := *ports
	noPrompt.Prompt = nil
	assert.ErrorIs(t, noPrompt.Validate(), ErrMissingPromptService)

	noEngine := *ports
	noEngine.NewEngine = nil
	assert.ErrorIs(t, noEngine.Validate(), ErrMissingEngine)

	noSink := *ports
	noSink.Sink = nil
	assert.NoError(t, noSink.Validate(), "sink is optional")
}

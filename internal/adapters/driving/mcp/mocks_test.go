package mcp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/core/services"
)

var testPrompts = []domain.PromptRecord{
	{Title: "Summarize", Command: "/summarize", Content: "Summarize: {input}", Creator: "alice"},
	{Title: "Spanish Translation", Command: "/spanish", Content: "Translate to Spanish: {input}"},
	{Title: "Sql", Command: "/sql", Content: "Write SQL"},
}

func newTestServer(t *testing.T, metrics http.Handler) *Server {
	t.Helper()
	idx := services.NewCommandIndex()
	svc := services.NewPromptService(memory.NewPromptStore(testPrompts...), idx)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	server, err := NewServer(&Ports{
		Prompt:    svc,
		NewEngine: func() driving.MatchEngine { return services.NewMatchEngine(idx) },
		Metrics:   metrics,
	})
	require.NoError(t, err)
	return server
}

// failingPromptService fails every call.
type failingPromptService struct {
	driving.PromptService
}

var errStorage = errors.New("storage unavailable")

func (failingPromptService) List(context.Context) ([]domain.PromptRecord, error) {
	return nil, errStorage
}

func (failingPromptService) Get(context.Context, string) (*domain.PromptRecord, error) {
	return nil, errStorage
}

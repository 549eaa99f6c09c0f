package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"plain title", "promptdeck://prompts/Summarize", "Summarize"},
		{"escaped title", "promptdeck://prompts/Spanish%20Translation", "Spanish Translation"},
		{"invalid prefix", "file://prompts/Summarize", ""},
		{"bad escape", "promptdeck://prompts/%zz", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTitle(tt.uri))
		})
	}
}

func TestServer_handlePromptsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists prompts as JSON", func(t *testing.T) {
		server := newTestServer(t, nil)

		result, err := server.handlePromptsResource(ctx, makeReadResourceRequest("promptdeck://prompts"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []PromptOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 3)
		assert.Equal(t, "/spanish", got[1].Command)
	})

	t.Run("storage failure", func(t *testing.T) {
		server := newTestServer(t, nil)
		server.ports.Prompt = failingPromptService{}

		_, err := server.handlePromptsResource(ctx, makeReadResourceRequest("promptdeck://prompts"))

		assert.ErrorIs(t, err, errStorage)
	})
}

func TestServer_handlePromptContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns content", func(t *testing.T) {
		server := newTestServer(t, nil)
		uri := "promptdeck://prompts/Spanish%20Translation"

		result, err := server.handlePromptContentResource(ctx, makeReadResourceRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "Translate to Spanish: {input}", result.Contents[0].Text)
	})

	t.Run("unknown title is not found", func(t *testing.T) {
		server := newTestServer(t, nil)

		_, err := server.handlePromptContentResource(ctx, makeReadResourceRequest("promptdeck://prompts/Missing"))

		assert.Error(t, err)
		assert.NotErrorIs(t, err, errStorage)
	})

	t.Run("bad uri is not found", func(t *testing.T) {
		server := newTestServer(t, nil)

		_, err := server.handlePromptContentResource(ctx, makeReadResourceRequest("other://x"))

		assert.Error(t, err)
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		server := newTestServer(t, nil)
		server.ports.Prompt = failingPromptService{}

		_, err := server.handlePromptContentResource(ctx, makeReadResourceRequest("promptdeck://prompts/Sql"))

		assert.ErrorIs(t, err, errStorage)
	})
}

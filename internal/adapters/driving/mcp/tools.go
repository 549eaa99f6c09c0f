package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

// ListPromptsInput is the input schema for the list_prompts tool.
type ListPromptsInput struct{}

// ListPromptsOutput is the output schema for the list_prompts tool.
type ListPromptsOutput struct {
	Prompts []PromptOutput `json:"prompts"`
	Count   int            `json:"count"`
}

// PromptOutput describes one stored prompt.
type PromptOutput struct {
	Title   string `json:"title"`
	Command string `json:"command"`
	Content string `json:"content,omitempty"`
	Creator string `json:"creator,omitempty"`
}

// MatchInput is the input schema for the match tool.
type MatchInput struct {
	Buffer string `json:"buffer" jsonschema:"the text of the input field"`
	Cursor *int   `json:"cursor,omitempty" jsonschema:"cursor position in characters (default end of buffer)"`
}

// MatchOutput is the output schema for the match tool.
type MatchOutput struct {
	State       string         `json:"state"`
	Query       string         `json:"query,omitempty"`
	TokenStart  int            `json:"token_start"`
	TokenEnd    int            `json:"token_end"`
	Candidates  []PromptOutput `json:"candidates"`
	Highlighted int            `json:"highlighted"`
}

// ExpandInput is the input schema for the expand tool.
type ExpandInput struct {
	Text string `json:"text" jsonschema:"text starting with a slash command, e.g. /summarize the report"`
}

// ExpandOutput is the output schema for the expand tool.
type ExpandOutput struct {
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_prompts",
		Description: "List stored prompts and their slash commands",
	}, s.handleListPrompts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "match",
		Description: "Show the prompts matching the slash command being typed at the cursor",
	}, s.handleMatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "expand",
		Description: "Replace a leading slash command with its prompt, filling {input} with the rest of the text",
	}, s.handleExpand)
}

func (s *Server) handleListPrompts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListPromptsInput,
) (*mcp.CallToolResult, ListPromptsOutput, error) {
	prompts, err := s.ports.Prompt.List(ctx)
	if err != nil {
		return nil, ListPromptsOutput{}, err
	}

	output := ListPromptsOutput{
		Prompts: make([]PromptOutput, len(prompts)),
		Count:   len(prompts),
	}
	for i := range prompts {
		output.Prompts[i] = toOutput(&prompts[i], true)
	}
	return nil, output, nil
}

func (s *Server) handleMatch(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input MatchInput,
) (*mcp.CallToolResult, MatchOutput, error) {
	cursor := -1
	if input.Cursor != nil {
		cursor = *input.Cursor
	}

	engine := s.ports.NewEngine()
	engine.BufferChanged(input.Buffer, cursor)

	output := MatchOutput{
		State:       engine.State().String(),
		Candidates:  []PromptOutput{},
		Highlighted: domain.NoHighlight,
	}
	session := engine.Session()
	if session == nil {
		return nil, output, nil
	}

	output.Query = session.QueryPrefix
	output.TokenStart = session.TokenStart
	output.TokenEnd = session.TokenEnd
	output.Highlighted = session.HighlightedIndex
	for i := range session.Candidates {
		output.Candidates = append(output.Candidates, toOutput(&session.Candidates[i], false))
	}
	return nil, output, nil
}

func (s *Server) handleExpand(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExpandInput,
) (*mcp.CallToolResult, ExpandOutput, error) {
	text, ok := s.ports.NewEngine().Expand(input.Text)
	return nil, ExpandOutput{Text: text, Matched: ok}, nil
}

func toOutput(p *domain.PromptRecord, withContent bool) PromptOutput {
	out := PromptOutput{Title: p.Title, Command: p.Command}
	if withContent {
		out.Content = p.Content
		out.Creator = p.Creator
	}
	return out
}

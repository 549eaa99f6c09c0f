package codec

import (
	"fmt"
	"io"

	"github.com/custodia-labs/promptdeck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// Ensure JSONCodec implements the interface.
var _ driven.PromptCodec = JSONCodec{}

// JSONCodec reads and writes prompt packs in the prompt file shape, so an
// exported pack can be dropped in as a prompts.json.
type JSONCodec struct{}

// NewJSONCodec creates a JSON codec.
func NewJSONCodec() JSONCodec {
	return JSONCodec{}
}

// Format returns "json".
func (JSONCodec) Format() string {
	return "json"
}

// Encode writes records as an object keyed by title.
func (JSONCodec) Encode(w io.Writer, records []domain.PromptRecord) error {
	if err := file.EncodePrompts(w, records); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Decode reads an object keyed by title. Malformed entries are dropped.
func (JSONCodec) Decode(r io.Reader) ([]domain.PromptRecord, error) {
	records, err := file.DecodePrompts(r)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return records, nil
}

package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

// Ensure YAMLCodec implements the interface.
var _ driven.PromptCodec = YAMLCodec{}

// YAMLCodec reads and writes prompt packs as a YAML sequence:
//
//	- title: Spanish
//	  command: /spanish
//	  content: "Translate to Spanish: {input}"
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() YAMLCodec {
	return YAMLCodec{}
}

// Format returns "yaml".
func (YAMLCodec) Format() string {
	return "yaml"
}

// yamlRecord keeps provenance optional in hand-written packs.
type yamlRecord struct {
	Title    string `yaml:"title"`
	Command  string `yaml:"command"`
	Content  string `yaml:"content"`
	Creator  string `yaml:"creator,omitempty"`
	Created  string `yaml:"created,omitempty"`
	Modified string `yaml:"modified,omitempty"`
}

// Encode writes records as a sequence.
func (YAMLCodec) Encode(w io.Writer, records []domain.PromptRecord) error {
	out := make([]yamlRecord, 0, len(records))
	for i := range records {
		out = append(out, yamlRecord{
			Title:    records[i].Title,
			Command:  records[i].Command,
			Content:  records[i].Content,
			Creator:  records[i].Creator,
			Created:  formatTime(records[i].Created),
			Modified: formatTime(records[i].Modified),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Decode reads a sequence of records. An empty document yields no records.
func (YAMLCodec) Decode(r io.Reader) ([]domain.PromptRecord, error) {
	var in []yamlRecord
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	records := make([]domain.PromptRecord, 0, len(in))
	for _, y := range in {
		records = append(records, domain.PromptRecord{
			Title:    y.Title,
			Command:  y.Command,
			Content:  y.Content,
			Creator:  y.Creator,
			Created:  parseTime(y.Created),
			Modified: parseTime(y.Modified),
		})
	}
	return records, nil
}

package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// Ensure PromptStore implements the interfaces.
var (
	_ driven.PromptStore       = (*PromptStore)(nil)
	_ driven.PromptFileLocator = (*PromptStore)(nil)
)

// PromptsFileName is the name of the prompt file inside the data directory.
const PromptsFileName = "prompts.json"

// naiveTimeLayout matches ISO-8601 timestamps written without a zone.
const naiveTimeLayout = "2006-01-02T15:04:05.999999999"

// PromptStore keeps prompts in a single JSON object keyed by title.
// Key order in the file is storage order. The file is re-read on every
// call so external edits are picked up; entries that fail to decode are
// skipped when listing but written back untouched.
//
// The constructor does not perform any I/O. The directory is created on
// the first write.
type PromptStore struct {
	mu       sync.RWMutex
	filePath string
}

// entry is one key/value pair of the prompt object.
type entry struct {
	key    string
	raw    json.RawMessage
	record *domain.PromptRecord // nil when malformed
}

// promptJSON is the wire shape of a record. Pointer fields distinguish a
// missing field from an empty one.
type promptJSON struct {
	Title    *string `json:"title"`
	Command  *string `json:"command"`
	Content  *string `json:"content"`
	Creator  string  `json:"creator"`
	Created  string  `json:"created"`
	Modified string  `json:"modified"`
}

// NewPromptStore creates a JSON prompt store in dataDir.
// If dataDir is empty, defaults to ~/.promptdeck.
func NewPromptStore(dataDir string) (*PromptStore, error) {
	if dataDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dataDir = dir
	}

	return &PromptStore{filePath: filepath.Join(dataDir, PromptsFileName)}, nil
}

// Path returns the prompt file path.
func (s *PromptStore) Path() string {
	return s.filePath
}

// List returns all well-formed prompts in file order.
func (s *PromptStore) List(_ context.Context) ([]domain.PromptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	return records(entries), nil
}

// Get retrieves a prompt by title.
func (s *PromptStore) Get(_ context.Context, title string) (*domain.PromptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	i := find(entries, title)
	if i < 0 {
		return nil, fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
	}
	record := *entries[i].record
	return &record, nil
}

// Create appends a prompt to the end of the file.
func (s *PromptStore) Create(_ context.Context, record domain.PromptRecord) error {
	if err := domain.ValidateCommand(record.Command); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if err := domain.CheckConflicts(records(entries), record, ""); err != nil {
		return err
	}
	if err := keyTaken(entries, record.Title, -1); err != nil {
		return err
	}

	entries = append(entries, entry{key: record.Title, record: &record})
	return s.write(entries)
}

// Update replaces the prompt stored under title, keeping its position.
func (s *PromptStore) Update(_ context.Context, title string, record domain.PromptRecord) error {
	if err := domain.ValidateCommand(record.Command); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	i := find(entries, title)
	if i < 0 {
		return fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
	}
	if err := domain.CheckConflicts(records(entries), record, title); err != nil {
		return err
	}
	if err := keyTaken(entries, record.Title, i); err != nil {
		return err
	}

	entries[i] = entry{key: record.Title, record: &record}
	return s.write(entries)
}

// Delete removes a prompt by title.
func (s *PromptStore) Delete(_ context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	i := find(entries, title)
	if i < 0 {
		return fmt.Errorf("%w: prompt %q", domain.ErrNotFound, title)
	}

	entries = append(entries[:i], entries[i+1:]...)
	return s.write(entries)
}

func find(entries []entry, title string) int {
	for i := range entries {
		if entries[i].record != nil && entries[i].record.Title == title {
			return i
		}
	}
	return -1
}

// keyTaken rejects title when another entry, malformed ones included,
// already uses it as its key. The entry at skip is ignored.
func keyTaken(entries []entry, title string, skip int) error {
	for i := range entries {
		if i != skip && entries[i].key == title {
			return fmt.Errorf("%w: title %q", domain.ErrAlreadyExists, title)
		}
	}
	return nil
}

func records(entries []entry) []domain.PromptRecord {
	out := make([]domain.PromptRecord, 0, len(entries))
	for _, e := range entries {
		if e.record != nil {
			out = append(out, *e.record)
		}
	}
	return out
}

// read loads the file (caller must hold lock). A missing or empty file is
// an empty prompt set.
func (s *PromptStore) read() ([]entry, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	skipped := 0
	for _, e := range entries {
		if e.record == nil {
			skipped++
		}
	}
	if skipped > 0 {
		logger.Warn("prompts: skipped %d malformed entries in %s", skipped, s.filePath)
	}
	return entries, nil
}

// decodeEntries walks the top-level object with tokens so key order survives.
func decodeEntries(data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", domain.ErrMalformedRecord)
	}

	var entries []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		rec, err := decodeRecord(raw)
		if err != nil {
			logger.Warn("prompts: entry %q: %v", key, err)
		}
		entries = append(entries, entry{key: key, raw: raw, record: rec})
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return entries, nil
}

func decodeRecord(raw json.RawMessage) (*domain.PromptRecord, error) {
	var w promptJSON
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	switch {
	case w.Title == nil || *w.Title == "":
		return nil, fmt.Errorf("%w: missing title", domain.ErrMalformedRecord)
	case w.Command == nil:
		return nil, fmt.Errorf("%w: missing command", domain.ErrMalformedRecord)
	case w.Content == nil:
		return nil, fmt.Errorf("%w: missing content", domain.ErrMalformedRecord)
	}

	return &domain.PromptRecord{
		Title:    *w.Title,
		Command:  *w.Command,
		Content:  *w.Content,
		Creator:  w.Creator,
		Created:  parseTime(w.Created),
		Modified: parseTime(w.Modified),
	}, nil
}

// parseTime accepts RFC 3339 and zone-less ISO-8601 timestamps.
// Unparseable values become the zero time.
func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(naiveTimeLayout, v, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// EncodePrompts writes records as a JSON object keyed by title, in order.
func EncodePrompts(w io.Writer, recs []domain.PromptRecord) error {
	entries := make([]entry, 0, len(recs))
	for i := range recs {
		entries = append(entries, entry{key: recs[i].Title, record: &recs[i]})
	}
	data, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// DecodePrompts reads a JSON object keyed by title, skipping malformed entries.
func DecodePrompts(r io.Reader) ([]domain.PromptRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, err
	}
	return records(entries), nil
}

func encodeEntries(entries []entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}

		value := []byte(e.raw)
		if e.record != nil {
			value, err = json.Marshal(struct {
				Title    string `json:"title"`
				Command  string `json:"command"`
				Content  string `json:"content"`
				Creator  string `json:"creator"`
				Created  string `json:"created"`
				Modified string `json:"modified"`
			}{
				Title:    e.record.Title,
				Command:  e.record.Command,
				Content:  e.record.Content,
				Creator:  e.record.Creator,
				Created:  formatTime(e.record.Created),
				Modified: formatTime(e.record.Modified),
			})
			if err != nil {
				return nil, err
			}
		}

		var indented bytes.Buffer
		if err := json.Indent(&indented, value, "  ", "  "); err != nil {
			return nil, err
		}

		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(indented.Bytes())
	}
	if len(entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// write replaces the file atomically (caller must hold lock).
func (s *PromptStore) write(entries []entry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("encode prompts: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, PromptsFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write prompts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write prompts: %w", err)
	}
	if err := os.Rename(tmpName, s.filePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace prompts: %w", err)
	}
	return nil
}

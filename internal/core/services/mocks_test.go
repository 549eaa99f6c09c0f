package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

func rec(title, command, content string) domain.PromptRecord {
	return domain.PromptRecord{Title: title, Command: command, Content: content}
}

func titles(records []domain.PromptRecord) []string {
	out := make([]string, 0, len(records))
	for i := range records {
		out = append(out, records[i].Title)
	}
	return out
}

// mockMetrics records calls to the metrics port.
type mockMetrics struct {
	mu         sync.Mutex
	rebuilds   []int
	skipped    []int
	opened     int
	closed     map[string]int
	candidates []int
	expanded   map[bool]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{closed: map[string]int{}, expanded: map[bool]int{}}
}

func (m *mockMetrics) IndexRebuilt(indexed, skipped int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuilds = append(m.rebuilds, indexed)
	m.skipped = append(m.skipped, skipped)
}

func (m *mockMetrics) SessionOpened() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened++
}

func (m *mockMetrics) SessionClosed(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed[reason]++
}

func (m *mockMetrics) CandidatesComputed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = append(m.candidates, n)
}

func (m *mockMetrics) Expanded(matched bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expanded[matched]++
}

// failingStore wraps a PromptStore and fails selected operations.
type failingStore struct {
	driven.PromptStore
	listErr   error
	createErr error
}

func (f *failingStore) List(ctx context.Context) ([]domain.PromptRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.PromptStore.List(ctx)
}

func (f *failingStore) Create(ctx context.Context, record domain.PromptRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.PromptStore.Create(ctx, record)
}

// pausingStore holds its first List call after the snapshot is taken
// until release is closed.
type pausingStore struct {
	driven.PromptStore
	once    sync.Once
	listed  chan struct{}
	release chan struct{}
}

func (p *pausingStore) List(ctx context.Context) ([]domain.PromptRecord, error) {
	records, err := p.PromptStore.List(ctx)
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.listed)
		<-p.release
	}
	return records, err
}

// lineCodec encodes one "title|command|content" line per record.
type lineCodec struct{}

func (lineCodec) Format() string { return "lines" }

func (lineCodec) Encode(w io.Writer, records []domain.PromptRecord) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s|%s|%s\n", r.Title, r.Command, r.Content); err != nil {
			return err
		}
	}
	return nil
}

func (lineCodec) Decode(r io.Reader) ([]domain.PromptRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var out []domain.PromptRecord
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("bad line %q", line)
		}
		out = append(out, domain.PromptRecord{Title: parts[0], Command: parts[1], Content: parts[2]})
	}
	return out, nil
}

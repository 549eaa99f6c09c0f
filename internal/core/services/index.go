package services

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// Ensure CommandIndex implements the interface.
var _ driving.CommandIndex = (*CommandIndex)(nil)

var errDuplicateTitle = errors.New("duplicate title")

// snapshot is an immutable view of the index. It is never modified after
// it has been published.
type snapshot struct {
	records []domain.PromptRecord
	keys    []string // normalised command per record
	byKey   map[string]int
}

// CommandIndex holds the current set of commands.
// Readers load the snapshot pointer; Rebuild publishes a new one.
type CommandIndex struct {
	current atomic.Pointer[snapshot]
	metrics driven.EngineMetrics
}

// NewCommandIndex creates an empty index.
func NewCommandIndex() *CommandIndex {
	idx := &CommandIndex{}
	idx.current.Store(&snapshot{byKey: map[string]int{}})
	return idx
}

// SetMetrics sets the optional metrics recorder.
func (idx *CommandIndex) SetMetrics(m driven.EngineMetrics) {
	idx.metrics = m
}

// Rebuild replaces the snapshot with records, skipping invalid records and
// later duplicates.
func (idx *CommandIndex) Rebuild(records []domain.PromptRecord) domain.RebuildReport {
	start := time.Now()

	next := &snapshot{
		records: make([]domain.PromptRecord, 0, len(records)),
		keys:    make([]string, 0, len(records)),
		byKey:   make(map[string]int, len(records)),
	}
	titles := make(map[string]struct{}, len(records))
	var report domain.RebuildReport

	for i := range records {
		rec := records[i]
		if err := rec.Validate(); err != nil {
			report.Skipped = append(report.Skipped, skipped(rec, err))
			continue
		}
		if _, dup := titles[rec.Title]; dup {
			report.Skipped = append(report.Skipped, skipped(rec, errDuplicateTitle))
			continue
		}
		key := rec.Key()
		if owner, dup := next.byKey[key]; dup {
			err := fmt.Errorf("%w: already bound to %q", domain.ErrDuplicateCommand, next.records[owner].Title)
			report.Skipped = append(report.Skipped, skipped(rec, err))
			continue
		}

		titles[rec.Title] = struct{}{}
		next.byKey[key] = len(next.records)
		next.records = append(next.records, rec)
		next.keys = append(next.keys, key)
	}

	idx.current.Store(next)
	report.Indexed = len(next.records)

	for _, s := range report.Skipped {
		logger.Warn("index: skipped %q (%s): %v", s.Title, s.Command, s.Reason)
	}
	logger.Debug("index: rebuilt with %d records, %d skipped", report.Indexed, len(report.Skipped))
	if idx.metrics != nil {
		idx.metrics.IndexRebuilt(report.Indexed, len(report.Skipped), time.Since(start))
	}
	return report
}

func skipped(rec domain.PromptRecord, err error) domain.SkippedRecord {
	return domain.SkippedRecord{Title: rec.Title, Command: rec.Command, Reason: err}
}

// Query returns the records whose command starts with "/" + prefix, ignoring
// case, in index order. An empty prefix matches every record.
func (idx *CommandIndex) Query(prefix string) []domain.PromptRecord {
	snap := idx.current.Load()
	want := domain.NormaliseCommand(domain.CommandPrefix + prefix)

	var out []domain.PromptRecord
	for i, key := range snap.keys {
		if strings.HasPrefix(key, want) {
			out = append(out, snap.records[i])
		}
	}
	return out
}

// Lookup finds a record by exact command, ignoring case.
func (idx *CommandIndex) Lookup(command string) (domain.PromptRecord, bool) {
	snap := idx.current.Load()
	i, ok := snap.byKey[domain.NormaliseCommand(command)]
	if !ok {
		return domain.PromptRecord{}, false
	}
	return snap.records[i], true
}

// All returns a copy of every indexed record in index order.
func (idx *CommandIndex) All() []domain.PromptRecord {
	snap := idx.current.Load()
	out := make([]domain.PromptRecord, len(snap.records))
	copy(out, snap.records)
	return out
}

// Len returns the number of indexed records.
func (idx *CommandIndex) Len() int {
	return len(idx.current.Load().records)
}

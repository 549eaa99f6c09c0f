package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// Ensure PromptService implements the interface.
var _ driving.PromptService = (*PromptService)(nil)

// PromptService manages prompts and rebuilds the command index after every
// successful mutation.
type PromptService struct {
	store   driven.PromptStore
	index   driving.CommandIndex
	codecs  map[string]driven.PromptCodec
	creator string
	now     func() time.Time

	// reloadMu orders rebuilds so the last list taken is the last published.
	reloadMu sync.Mutex
}

// NewPromptService creates a new prompt service.
func NewPromptService(store driven.PromptStore, index driving.CommandIndex) *PromptService {
	return &PromptService{
		store:   store,
		index:   index,
		codecs:  make(map[string]driven.PromptCodec),
		creator: domain.DefaultCreator,
		now:     time.Now,
	}
}

// SetCreator sets the creator stamped on new prompts.
func (s *PromptService) SetCreator(creator string) {
	if creator != "" {
		s.creator = creator
	}
}

// RegisterCodec makes a format available to Export and Import.
func (s *PromptService) RegisterCodec(codec driven.PromptCodec) {
	s.codecs[codec.Format()] = codec
}

// Create validates and stores a new prompt, then rebuilds the index.
func (s *PromptService) Create(ctx context.Context, record domain.PromptRecord) (*domain.PromptRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if record.Creator == "" {
		record.Creator = s.creator
	}
	record.Created = now
	record.Modified = now

	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create prompt %q: %w", record.Title, err)
	}
	logger.Info("prompt: created %s", record.Label())

	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return &record, nil
}

// Get retrieves a prompt by title.
func (s *PromptService) Get(ctx context.Context, title string) (*domain.PromptRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, title)
}

// List returns all prompts in storage order.
func (s *PromptService) List(ctx context.Context) ([]domain.PromptRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Update replaces title, command and content of an existing prompt.
// The prompt may be renamed; creator and creation time are kept.
func (s *PromptService) Update(
	ctx context.Context,
	title string,
	record domain.PromptRecord,
) (*domain.PromptRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	existing, err := s.store.Get(ctx, title)
	if err != nil {
		return nil, err
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	record.Creator = existing.Creator
	record.Created = existing.Created
	record.Modified = s.now().UTC()

	if err := s.store.Update(ctx, title, record); err != nil {
		return nil, fmt.Errorf("update prompt %q: %w", title, err)
	}
	logger.Info("prompt: updated %q -> %s", title, record.Label())

	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes a prompt and rebuilds the index.
func (s *PromptService) Delete(ctx context.Context, title string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if err := s.store.Delete(ctx, title); err != nil {
		return fmt.Errorf("delete prompt %q: %w", title, err)
	}
	logger.Info("prompt: deleted %q", title)

	_, err := s.Reload(ctx)
	return err
}

// Reload lists storage and rebuilds the index from it.
func (s *PromptService) Reload(ctx context.Context) (*domain.RebuildReport, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	report := s.index.Rebuild(records)
	return &report, nil
}

// Commands returns "/command - Title" for every indexed prompt.
func (s *PromptService) Commands() []string {
	all := s.index.All()
	out := make([]string, 0, len(all))
	for i := range all {
		out = append(out, all[i].Label())
	}
	return out
}

// Formats lists the registered export/import formats.
func (s *PromptService) Formats() []string {
	out := make([]string, 0, len(s.codecs))
	for name := range s.codecs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *PromptService) codec(format string) (driven.PromptCodec, error) {
	c, ok := s.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: format %q", domain.ErrUnsupportedType, format)
	}
	return c, nil
}

// Export writes every stored prompt to w.
func (s *PromptService) Export(ctx context.Context, w io.Writer, format string) error {
	c, err := s.codec(format)
	if err != nil {
		return err
	}
	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	if err := c.Encode(w, records); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// Import creates every decodable prompt from r. Records rejected by
// validation or conflict checks are reported and skipped; any other
// storage error stops the import.
func (s *PromptService) Import(ctx context.Context, r io.Reader, format string) (*domain.ImportReport, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	c, err := s.codec(format)
	if err != nil {
		return nil, err
	}
	records, err := c.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	report := &domain.ImportReport{}
	now := s.now().UTC()
	for i := range records {
		rec := records[i]
		if err := rec.Validate(); err != nil {
			report.Skipped = append(report.Skipped, skipped(rec, err))
			continue
		}
		if rec.Creator == "" {
			rec.Creator = s.creator
		}
		if rec.Created.IsZero() {
			rec.Created = now
		}
		if rec.Modified.IsZero() {
			rec.Modified = rec.Created
		}

		if err := s.store.Create(ctx, rec); err != nil {
			if isRejection(err) {
				report.Skipped = append(report.Skipped, skipped(rec, err))
				continue
			}
			return report, fmt.Errorf("import prompt %q: %w", rec.Title, err)
		}
		report.Created = append(report.Created, rec.Title)
	}
	logger.Info("prompt: imported %d, skipped %d", len(report.Created), len(report.Skipped))

	if len(report.Created) > 0 {
		if _, err := s.Reload(ctx); err != nil {
			return report, err
		}
	}
	return report, nil
}

// isRejection reports whether err is a validation or conflict failure
// rather than a storage fault.
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrAlreadyExists) ||
		errors.Is(err, domain.ErrDuplicateCommand) ||
		errors.Is(err, domain.ErrInvalidCommand) ||
		errors.Is(err, domain.ErrInvalidContent) ||
		errors.Is(err, domain.ErrInvalidInput)
}

package service

import (
	"context"
	"time"

	"github.com/dashledger/internal/domain/entry"
)

// EntryServiceImpl implements the EntryService interface
type EntryServiceImpl struct {
	entryRepo entry.Repository
}

// NewEntryService creates a new entry service
func NewEntryService(entryRepo entry.Repository) EntryService {
	return &EntryServiceImpl{
		entryRepo: entryRepo,
	}
}

// CreateEntry validates and persists a new entry
func (s *EntryServiceImpl) CreateEntry(ctx context.Context, p entry.CreateParams) (*entry.Entry, error) {
	e, err := entry.NewEntry(p)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// GetEntryByID retrieves an entry by its ID
func (s *EntryServiceImpl) GetEntryByID(ctx context.Context, id int64) (*entry.Entry, error) {
	return s.entryRepo.GetByID(ctx, id)
}

// ListEntries retrieves entries matching the filter, newest first
func (s *EntryServiceImpl) ListEntries(ctx context.Context, filter entry.ListFilter) ([]*entry.Entry, error) {
	return s.entryRepo.List(ctx, filter)
}

// UpdateEntry loads the entry, merges the partial update, and persists the
// result. The amount sign is re-derived from the effective kind.
func (s *EntryServiceImpl) UpdateEntry(ctx context.Context, id int64, p entry.UpdateParams) (*entry.Entry, error) {
	e, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.ApplyUpdate(p); err != nil {
		return nil, err
	}
	e.UpdatedAt = time.Now().UTC()

	if err := s.entryRepo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// DeleteEntry removes an entry
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, id int64) error {
	return s.entryRepo.Delete(ctx, id)
}

// DeleteAllEntries removes every entry in the ledger
func (s *EntryServiceImpl) DeleteAllEntries(ctx context.Context) error {
	return s.entryRepo.DeleteAll(ctx)
}

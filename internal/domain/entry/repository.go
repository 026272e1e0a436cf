package entry

import (
	"context"
	"strconv"
	"time"
)

// ListFilter narrows and paginates a range query. Nil bounds are open; Cursor
// excludes entries with id >= cursor so callers can page backwards through the
// timestamp-descending listing.
type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Cursor *int64
	Limit  int
}

// Repository is the ordered, filterable entry collection the core depends on.
// Range queries must observe a consistent snapshot.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id int64) (*Entry, error)
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)
	// ListRange retrieves every entry inside the optional time bounds, for
	// aggregate computations that must see the full window
	ListRange(ctx context.Context, from, to *time.Time) ([]*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// ErrEntryNotFound indicates a missing ledger entry
type ErrEntryNotFound struct {
	ID int64
}

func (e ErrEntryNotFound) Error() string {
	return "entry not found: " + strconv.FormatInt(e.ID, 10)
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// A zero target ID matches any ErrEntryNotFound
	if t.ID == 0 {
		return true
	}
	return e.ID == t.ID
}

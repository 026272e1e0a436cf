// Package entry holds the ledger's central record type: a single signed
// financial event produced by manual input or a platform sync adapter. The
// sign convention (expenses and cancellations negative, orders and bonuses
// positive) is enforced here and nowhere else.
package entry

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidKind      = errors.New("invalid entry kind")
	ErrInvalidPlatform  = errors.New("invalid platform")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrNegativeDistance = errors.New("distance_miles must not be negative")
	ErrNegativeDuration = errors.New("duration_minutes must not be negative")
)

// Kind classifies an entry
type Kind string

const (
	KindOrder        Kind = "ORDER"
	KindBonus        Kind = "BONUS"
	KindExpense      Kind = "EXPENSE"
	KindCancellation Kind = "CANCELLATION"
)

// Kinds lists every entry kind in a stable order
func Kinds() []Kind {
	return []Kind{KindOrder, KindBonus, KindExpense, KindCancellation}
}

// Valid reports whether k is one of the four entry kinds
func (k Kind) Valid() bool {
	switch k {
	case KindOrder, KindBonus, KindExpense, KindCancellation:
		return true
	}
	return false
}

// Negative reports whether entries of this kind carry a negative amount
func (k Kind) Negative() bool {
	return k == KindExpense || k == KindCancellation
}

// Platform identifies the delivery app an entry pertains to
type Platform string

const (
	PlatformDoorDash  Platform = "DOORDASH"
	PlatformUberEats  Platform = "UBEREATS"
	PlatformInstacart Platform = "INSTACART"
	PlatformGrubhub   Platform = "GRUBHUB"
	PlatformShipt     Platform = "SHIPT"
	PlatformOther     Platform = "OTHER"
)

// Platforms lists every platform value in a stable order
func Platforms() []Platform {
	return []Platform{
		PlatformDoorDash,
		PlatformUberEats,
		PlatformInstacart,
		PlatformGrubhub,
		PlatformShipt,
		PlatformOther,
	}
}

// Valid reports whether p is a known platform
func (p Platform) Valid() bool {
	switch p {
	case PlatformDoorDash, PlatformUberEats, PlatformInstacart,
		PlatformGrubhub, PlatformShipt, PlatformOther:
		return true
	}
	return false
}

// Category sub-classifies an expense entry. Empty means unset; it is only
// meaningful when the entry kind is EXPENSE.
type Category string

const (
	CategoryGas          Category = "GAS"
	CategoryParking      Category = "PARKING"
	CategoryTolls        Category = "TOLLS"
	CategoryMaintenance  Category = "MAINTENANCE"
	CategoryPhone        Category = "PHONE"
	CategorySubscription Category = "SUBSCRIPTION"
	CategoryFood         Category = "FOOD"
	CategoryLeisure      Category = "LEISURE"
	CategoryOther        Category = "OTHER"
)

// Valid reports whether c is a known category; the empty category is valid
// and means "not classified"
func (c Category) Valid() bool {
	switch c {
	case "", CategoryGas, CategoryParking, CategoryTolls, CategoryMaintenance,
		CategoryPhone, CategorySubscription, CategoryFood, CategoryLeisure,
		CategoryOther:
		return true
	}
	return false
}

// Entry is an immutable-once-persisted financial event. Amount always carries
// the sign imposed by Kind, regardless of what the caller supplied.
type Entry struct {
	ID              int64           `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	Kind            Kind            `json:"kind"`
	Platform        Platform        `json:"platform"`
	ExternalOrderID string          `json:"external_order_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	DistanceMiles   float64         `json:"distance_miles"`
	DurationMinutes int             `json:"duration_minutes"`
	Category        Category        `json:"category,omitempty"`
	Note            string          `json:"note,omitempty"`
	ReceiptRef      string          `json:"receipt_reference,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SignedAmount applies the sign convention: EXPENSE and CANCELLATION store a
// negative magnitude, ORDER and BONUS a positive one. The sign of the caller
// supplied value is never trusted.
func SignedAmount(kind Kind, raw decimal.Decimal) decimal.Decimal {
	if kind.Negative() {
		return raw.Abs().Neg()
	}
	return raw.Abs()
}

// CreateParams carries caller input for a new entry
type CreateParams struct {
	Timestamp       *time.Time
	Kind            Kind
	Platform        Platform
	ExternalOrderID string
	Amount          decimal.Decimal
	DistanceMiles   float64
	DurationMinutes int
	Category        Category
	Note            string
	ReceiptRef      string
}

// NewEntry validates params and returns a normalized entry ready to persist.
// The timestamp defaults to the current moment in UTC when absent.
func NewEntry(p CreateParams) (*Entry, error) {
	if !p.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if !p.Platform.Valid() {
		return nil, ErrInvalidPlatform
	}
	if !p.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if p.DistanceMiles < 0 {
		return nil, ErrNegativeDistance
	}
	if p.DurationMinutes < 0 {
		return nil, ErrNegativeDuration
	}

	now := time.Now().UTC()
	ts := now
	if p.Timestamp != nil {
		ts = p.Timestamp.UTC()
	}

	return &Entry{
		Timestamp:       ts,
		Kind:            p.Kind,
		Platform:        p.Platform,
		ExternalOrderID: p.ExternalOrderID,
		Amount:          SignedAmount(p.Kind, p.Amount),
		DistanceMiles:   p.DistanceMiles,
		DurationMinutes: p.DurationMinutes,
		Category:        p.Category,
		Note:            p.Note,
		ReceiptRef:      p.ReceiptRef,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// UpdateParams carries a partial update; nil fields are left untouched
type UpdateParams struct {
	Timestamp       *time.Time
	Kind            *Kind
	Platform        *Platform
	ExternalOrderID *string
	Amount          *decimal.Decimal
	DistanceMiles   *float64
	DurationMinutes *int
	Category        *Category
	Note            *string
	ReceiptRef      *string
}

// ApplyUpdate merges a partial update into the entry and re-derives the amount
// sign. The three-way branch matters: a new amount is resigned under the new
// kind when both change, under the existing kind when only the amount changes,
// and a kind change alone resigns the existing magnitude.
func (e *Entry) ApplyUpdate(p UpdateParams) error {
	if p.Kind != nil && !p.Kind.Valid() {
		return ErrInvalidKind
	}
	if p.Platform != nil && !p.Platform.Valid() {
		return ErrInvalidPlatform
	}
	if p.Category != nil && !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.DistanceMiles != nil && *p.DistanceMiles < 0 {
		return ErrNegativeDistance
	}
	if p.DurationMinutes != nil && *p.DurationMinutes < 0 {
		return ErrNegativeDuration
	}

	switch {
	case p.Amount != nil && p.Kind != nil:
		e.Amount = SignedAmount(*p.Kind, *p.Amount)
	case p.Amount != nil:
		e.Amount = SignedAmount(e.Kind, *p.Amount)
	case p.Kind != nil:
		e.Amount = SignedAmount(*p.Kind, e.Amount)
	}
	if p.Kind != nil {
		e.Kind = *p.Kind
	}

	if p.Timestamp != nil {
		e.Timestamp = p.Timestamp.UTC()
	}
	if p.Platform != nil {
		e.Platform = *p.Platform
	}
	if p.ExternalOrderID != nil {
		e.ExternalOrderID = *p.ExternalOrderID
	}
	if p.DistanceMiles != nil {
		e.DistanceMiles = *p.DistanceMiles
	}
	if p.DurationMinutes != nil {
		e.DurationMinutes = *p.DurationMinutes
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
	if p.ReceiptRef != nil {
		e.ReceiptRef = *p.ReceiptRef
	}

	e.UpdatedAt = time.Now().UTC()
	return nil
}

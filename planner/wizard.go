package planner

import (
	"errors"
	"fmt"

	"github.com/lazharichir/zigo/catalog"
	"github.com/lazharichir/zigo/domain"
)

var ErrCategoryMismatch = errors.New("catalog vendor belongs to another category")

// EventStore is the part of the store the wizard drives
type EventStore interface {
	GetEvent(eventID string) (domain.Event, error)
	AddVendorToEvent(eventID string, vendor domain.NewVendor) (domain.Vendor, error)
	MarkCategoryCompleted(eventID string, category domain.Category) error
}

// Progress describes how far an event is through service selection
type Progress struct {
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
	Next      *domain.Category `json:"next,omitempty"`
}

// Done reports whether every category has been handled
func (p Progress) Done() bool { return p.Next == nil }

// Wizard walks an event through the categories, booking catalog vendors
// or skipping a category when the user brings their own.
type Wizard struct {
	store   EventStore
	catalog *catalog.Catalog
}

func NewWizard(store EventStore, c *catalog.Catalog) *Wizard {
	return &Wizard{store: store, catalog: c}
}

// Select books a catalog vendor at its base price and marks its category completed
func (w *Wizard) Select(eventID string, category domain.Category, catalogVendorID string) (domain.Vendor, error) {
	if !category.Valid() {
		return domain.Vendor{}, domain.ErrInvalidCategory
	}

	listing, err := w.catalog.Get(catalogVendorID)
	if err != nil {
		return domain.Vendor{}, err
	}
	if listing.Category != category {
		return domain.Vendor{}, fmt.Errorf("%w: %s is %s, not %s", ErrCategoryMismatch, listing.Name, listing.Category, category)
	}

	vendor, err := w.store.AddVendorToEvent(eventID, listing.Booking())
	if err != nil {
		return domain.Vendor{}, err
	}
	if err := w.store.MarkCategoryCompleted(eventID, category); err != nil {
		return domain.Vendor{}, fmt.Errorf("mark %s completed: %w", category, err)
	}
	return vendor, nil
}

// Skip marks a category completed without booking anyone
func (w *Wizard) Skip(eventID string, category domain.Category) error {
	return w.store.MarkCategoryCompleted(eventID, category)
}

func (w *Wizard) Progress(eventID string) (Progress, error) {
	event, err := w.store.GetEvent(eventID)
	if err != nil {
		return Progress{}, err
	}

	p := Progress{
		Completed: domain.CompletedCount(event),
		Total:     len(domain.Categories()),
	}
	for _, c := range domain.Categories() {
		if !event.IsCategoryCompleted(c) {
			next := c
			p.Next = &next
			break
		}
	}
	return p, nil
}

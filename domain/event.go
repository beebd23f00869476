package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidGuestStatus   = errors.New("invalid guest status")
)

// Category is the kind of service a vendor provides
type Category string

const (
	CategoryVenue         Category = "venue"
	CategoryCatering      Category = "catering"
	CategoryPhotography   Category = "photography"
	CategoryEntertainment Category = "entertainment"
	CategoryDecoration    Category = "decoration"
)

// Categories returns every category in selection order
func Categories() []Category {
	return []Category{
		CategoryVenue,
		CategoryCatering,
		CategoryPhotography,
		CategoryEntertainment,
		CategoryDecoration,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryVenue, CategoryCatering, CategoryPhotography, CategoryEntertainment, CategoryDecoration:
		return true
	}
	return false
}

// ParseCategory converts a raw string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// PaymentStatus tracks how much of a vendor's price has been settled
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentDeposited PaymentStatus = "deposited"
	PaymentPaid      PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentDeposited, PaymentPaid:
		return true
	}
	return false
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	ps := PaymentStatus(s)
	if !ps.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, s)
	}
	return ps, nil
}

// GuestStatus is the RSVP state of a guest
type GuestStatus string

const (
	GuestConfirmed GuestStatus = "confirmed"
	GuestPending   GuestStatus = "pending"
)

func (s GuestStatus) Valid() bool {
	return s == GuestConfirmed || s == GuestPending
}

func ParseGuestStatus(s string) (GuestStatus, error) {
	gs := GuestStatus(s)
	if !gs.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGuestStatus, s)
	}
	return gs, nil
}

// Vendor is a service provider booked for a single event
type Vendor struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Category      Category      `json:"category"`
	Price         float64       `json:"price"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// Guest is an invitee of a single event
type Guest struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Phone  string      `json:"phone"`
	Status GuestStatus `json:"status"`
}

// CompletedCategories holds the selection wizard flags. A missing key means false.
type CompletedCategories map[Category]bool

func (c CompletedCategories) clone() CompletedCategories {
	out := make(CompletedCategories, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Event is a user-created occasion. It exclusively owns its vendors and guests.
type Event struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	// Date is a calendar day, held as midnight UTC
	Date                time.Time           `json:"date"`
	Type                string              `json:"type"`
	Vendors             []Vendor            `json:"vendors"`
	Guests              []Guest             `json:"guests"`
	CompletedCategories CompletedCategories `json:"completedCategories"`
}

// clone returns a deep copy so callers can never reach the store's slices
func (e Event) clone() Event {
	out := e
	out.Vendors = append(make([]Vendor, 0, len(e.Vendors)), e.Vendors...)
	out.Guests = append(make([]Guest, 0, len(e.Guests)), e.Guests...)
	out.CompletedCategories = e.CompletedCategories.clone()
	return out
}

// FindVendor returns the vendor with the given id
func (e Event) FindVendor(vendorID string) (Vendor, bool) {
	for _, v := range e.Vendors {
		if v.ID == vendorID {
			return v, true
		}
	}
	return Vendor{}, false
}

// FindGuest returns the guest with the given id
func (e Event) FindGuest(guestID string) (Guest, bool) {
	for _, g := range e.Guests {
		if g.ID == guestID {
			return g, true
		}
	}
	return Guest{}, false
}

// IsCategoryCompleted reports whether the wizard has handled the category
func (e Event) IsCategoryCompleted(c Category) bool {
	return e.CompletedCategories[c]
}

// NewEvent holds the fields needed to create an Event
type NewEvent struct {
	Name                string              `json:"name"`
	Date                time.Time           `json:"date"`
	Type                string              `json:"type"`
	CompletedCategories CompletedCategories `json:"completedCategories,omitempty"`
}

// EventUpdate is a partial update. Nil fields are left untouched.
type EventUpdate struct {
	Name *string    `json:"name,omitempty"`
	Date *time.Time `json:"date,omitempty"`
	Type *string    `json:"type,omitempty"`
}

func (u EventUpdate) apply(e *Event) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Date != nil {
		e.Date = CalendarDay(*u.Date)
	}
	if u.Type != nil {
		e.Type = *u.Type
	}
}

type NewVendor struct {
	Name          string        `json:"name"`
	Category      Category      `json:"category"`
	Price         float64       `json:"price"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

type NewGuest struct {
	Name   string      `json:"name"`
	Phone  string      `json:"phone"`
	Status GuestStatus `json:"status"`
}

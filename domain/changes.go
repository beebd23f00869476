package domain

import "time"

// Change events published by the Store. Each carries the version the store
// reached with the change, and events that create or edit a record carry the
// record as stored.

// Event lifecycle
type EventAdded struct {
	EventID string    `json:"eventId"`
	Event   Event     `json:"event"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

func (e EventAdded) Name() string { return "EVENT_ADDED" }

type EventUpdated struct {
	EventID string    `json:"eventId"`
	Event   Event     `json:"event"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

func (e EventUpdated) Name() string { return "EVENT_UPDATED" }

type EventDeleted struct {
	EventID string    `json:"eventId"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

func (e EventDeleted) Name() string { return "EVENT_DELETED" }

// Vendor events
type VendorAdded struct {
	EventID string    `json:"eventId"`
	Vendor  Vendor    `json:"vendor"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

func (v VendorAdded) Name() string { return "VENDOR_ADDED" }

type VendorRemoved struct {
	EventID  string    `json:"eventId"`
	VendorID string    `json:"vendorId"`
	Version  uint64    `json:"version"`
	At       time.Time `json:"at"`
}

func (v VendorRemoved) Name() string { return "VENDOR_REMOVED" }

type VendorPaymentStatusChanged struct {
	EventID  string        `json:"eventId"`
	VendorID string        `json:"vendorId"`
	Status   PaymentStatus `json:"status"`
	Version  uint64        `json:"version"`
	At       time.Time     `json:"at"`
}

func (v VendorPaymentStatusChanged) Name() string { return "VENDOR_PAYMENT_STATUS_CHANGED" }

// Guest events
type GuestAdded struct {
	EventID string    `json:"eventId"`
	Guest   Guest     `json:"guest"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

func (g GuestAdded) Name() string { return "GUEST_ADDED" }

type GuestStatusChanged struct {
	EventID string      `json:"eventId"`
	GuestID string      `json:"guestId"`
	Status  GuestStatus `json:"status"`
	Version uint64      `json:"version"`
	At      time.Time   `json:"at"`
}

func (g GuestStatusChanged) Name() string { return "GUEST_STATUS_CHANGED" }

type GuestRemoved struct {
	EventID string    `json:"eventId"`
	GuestID string    `json:"guestId"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
}

func (g GuestRemoved) Name() string { return "GUEST_REMOVED" }

// Wizard progress
type CategoryCompleted struct {
	EventID  string    `json:"eventId"`
	Category Category  `json:"category"`
	Version  uint64    `json:"version"`
	At       time.Time `json:"at"`
}

func (c CategoryCompleted) Name() string { return "CATEGORY_COMPLETED" }

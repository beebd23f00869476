package domain

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/zigo/domain/events"
	"github.com/rs/zerolog"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrVendorNotFound = errors.New("vendor not found")
	ErrGuestNotFound  = errors.New("guest not found")
)

// Snapshot is a consistent copy of the store at a given version
type Snapshot struct {
	Version uint64  `json:"version"`
	Events  []Event `json:"events"`
}

// Store is the single holder of event, vendor and guest state.
//
// Every mutation builds a new events slice and never touches a slice that was
// already published, so a snapshot taken before a mutation stays valid after it.
// Unknown ids never change state; they surface as ErrEventNotFound,
// ErrVendorNotFound or ErrGuestNotFound.
type Store struct {
	mu      sync.RWMutex
	events  []Event
	version uint64
	// every event id handed out, including deleted ones
	issued map[string]struct{}

	newID func() string
	now   func() time.Time
	log   zerolog.Logger

	// publishMu is held from a version bump until its change event has
	// reached every handler, so handlers see versions in order
	publishMu  sync.Mutex
	handlersMu sync.RWMutex
	handlers   []events.Handler
}

type StoreOption func(*Store)

// WithIDGenerator replaces uuid generation, mostly for tests
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) { s.now = fn }
}

func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = logger.With().Str("component", "store").Logger() }
}

// WithEvents seeds the store with existing events, keeping their ids
func WithEvents(seed []Event) StoreOption {
	return func(s *Store) {
		for _, e := range seed {
			seeded := e.clone()
			seeded.Date = CalendarDay(seeded.Date)
			s.events = append(s.events, seeded)
			s.issued[e.ID] = struct{}{}
		}
	}
}

// NewStore creates an empty store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		events: []Event{},
		issued: make(map[string]struct{}),
		newID:  uuid.NewString,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a handler notified after every successful mutation.
// Handlers receive changes one at a time in version order. They may read the
// store but must not mutate it.
func (s *Store) Subscribe(handler events.Handler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Store) emit(event events.Event) {
	s.handlersMu.RLock()
	handlers := append([]events.Handler(nil), s.handlers...)
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// ListEvents returns all events in insertion order
func (s *Store) ListEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	for i, e := range s.events {
		out[i] = e.clone()
	}
	return out
}

// GetEvent returns the event with the given id
func (s *Store) GetEvent(eventID string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(eventID)
	if idx == -1 {
		return Event{}, ErrEventNotFound
	}
	return s.events[idx].clone(), nil
}

// HasEvent reports whether an event exists
func (s *Store) HasEvent(eventID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(eventID) != -1
}

// Snapshot returns every event together with the current version
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	for i, e := range s.events {
		out[i] = e.clone()
	}
	return Snapshot{Version: s.version, Events: out}
}

// Sync calls fn with a snapshot and holds back every change event until fn
// returns. A consumer that starts listening inside fn misses nothing after
// the snapshot and sees nothing already in it.
func (s *Store) Sync(fn func(Snapshot)) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	fn(s.Snapshot())
}

// Version is incremented once per successful mutation
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// AddEvent appends a new event and returns its generated id
func (s *Store) AddEvent(input NewEvent) string {
	event := Event{
		Name:                input.Name,
		Date:                CalendarDay(input.Date),
		Type:                input.Type,
		Vendors:             []Vendor{},
		Guests:              []Guest{},
		CompletedCategories: CompletedCategories{},
	}
	for c, done := range input.CompletedCategories {
		if c.Valid() && done {
			event.CompletedCategories[c] = true
		}
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	event.ID = s.uniqueEventID()
	next := make([]Event, len(s.events), len(s.events)+1)
	copy(next, s.events)
	s.events = append(next, event)
	s.version++
	ev := EventAdded{EventID: event.ID, Event: event.clone(), Version: s.version, At: s.now()}
	s.mu.Unlock()

	s.log.Debug().Str("event_id", event.ID).Str("name", event.Name).Msg("event added")
	s.emit(ev)
	return event.ID
}

// UpdateEvent applies a partial update and returns the updated event
func (s *Store) UpdateEvent(eventID string, update EventUpdate) (Event, error) {
	var updated Event
	err := s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		update.apply(e)
		updated = e.clone()
		return EventUpdated{EventID: eventID, Event: e.clone(), Version: version, At: s.now()}, nil
	})
	if err != nil {
		return Event{}, err
	}
	return updated, nil
}

// DeleteEvent removes an event together with its vendors and guests
func (s *Store) DeleteEvent(eventID string) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(eventID)
	if idx == -1 {
		s.mu.Unlock()
		return ErrEventNotFound
	}

	next := make([]Event, 0, len(s.events)-1)
	next = append(next, s.events[:idx]...)
	next = append(next, s.events[idx+1:]...)
	s.events = next
	s.version++
	ev := EventDeleted{EventID: eventID, Version: s.version, At: s.now()}
	s.mu.Unlock()

	s.log.Debug().Str("event_id", eventID).Msg("event deleted")
	s.emit(ev)
	return nil
}

// AddVendorToEvent books a vendor for an event and returns it with its new id
func (s *Store) AddVendorToEvent(eventID string, input NewVendor) (Vendor, error) {
	if !input.Category.Valid() {
		return Vendor{}, ErrInvalidCategory
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = PaymentPending
	}
	if !input.PaymentStatus.Valid() {
		return Vendor{}, ErrInvalidPaymentStatus
	}

	var vendor Vendor
	err := s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		vendor = Vendor{
			ID:            s.uniqueChildID(func(id string) bool { _, ok := e.FindVendor(id); return ok }),
			Name:          input.Name,
			Category:      input.Category,
			Price:         input.Price,
			PaymentStatus: input.PaymentStatus,
		}
		e.Vendors = append(e.Vendors, vendor)
		return VendorAdded{EventID: eventID, Vendor: vendor, Version: version, At: s.now()}, nil
	})
	if err != nil {
		return Vendor{}, err
	}
	return vendor, nil
}

func (s *Store) RemoveVendorFromEvent(eventID, vendorID string) error {
	return s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		idx := -1
		for i, v := range e.Vendors {
			if v.ID == vendorID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, ErrVendorNotFound
		}
		e.Vendors = append(e.Vendors[:idx], e.Vendors[idx+1:]...)
		return VendorRemoved{EventID: eventID, VendorID: vendorID, Version: version, At: s.now()}, nil
	})
}

// UpdateVendorPaymentStatus moves a vendor to any payment status. Setting the
// current status again is a successful no-op.
func (s *Store) UpdateVendorPaymentStatus(eventID, vendorID string, status PaymentStatus) error {
	if !status.Valid() {
		return ErrInvalidPaymentStatus
	}
	return s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		for i := range e.Vendors {
			if e.Vendors[i].ID == vendorID {
				if e.Vendors[i].PaymentStatus == status {
					return nil, errAlreadyApplied
				}
				e.Vendors[i].PaymentStatus = status
				return VendorPaymentStatusChanged{
					EventID:  eventID,
					VendorID: vendorID,
					Status:   status,
					Version:  version,
					At:       s.now(),
				}, nil
			}
		}
		return nil, ErrVendorNotFound
	})
}

// AddGuestToEvent invites a guest and returns it with its new id
func (s *Store) AddGuestToEvent(eventID string, input NewGuest) (Guest, error) {
	if input.Status == "" {
		input.Status = GuestPending
	}
	if !input.Status.Valid() {
		return Guest{}, ErrInvalidGuestStatus
	}

	var guest Guest
	err := s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		guest = Guest{
			ID:     s.uniqueChildID(func(id string) bool { _, ok := e.FindGuest(id); return ok }),
			Name:   input.Name,
			Phone:  input.Phone,
			Status: input.Status,
		}
		e.Guests = append(e.Guests, guest)
		return GuestAdded{EventID: eventID, Guest: guest, Version: version, At: s.now()}, nil
	})
	if err != nil {
		return Guest{}, err
	}
	return guest, nil
}

func (s *Store) UpdateGuestStatus(eventID, guestID string, status GuestStatus) error {
	if !status.Valid() {
		return ErrInvalidGuestStatus
	}
	return s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		for i := range e.Guests {
			if e.Guests[i].ID == guestID {
				if e.Guests[i].Status == status {
					return nil, errAlreadyApplied
				}
				e.Guests[i].Status = status
				return GuestStatusChanged{
					EventID: eventID,
					GuestID: guestID,
					Status:  status,
					Version: version,
					At:      s.now(),
				}, nil
			}
		}
		return nil, ErrGuestNotFound
	})
}

func (s *Store) RemoveGuestFromEvent(eventID, guestID string) error {
	return s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		idx := -1
		for i, g := range e.Guests {
			if g.ID == guestID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, ErrGuestNotFound
		}
		e.Guests = append(e.Guests[:idx], e.Guests[idx+1:]...)
		return GuestRemoved{EventID: eventID, GuestID: guestID, Version: version, At: s.now()}, nil
	})
}

// MarkCategoryCompleted sets the completion flag of a category. Marking an
// already completed category succeeds without bumping the version.
func (s *Store) MarkCategoryCompleted(eventID string, category Category) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}

	return s.mutate(eventID, func(e *Event, version uint64) (events.Event, error) {
		if e.CompletedCategories[category] {
			return nil, errAlreadyApplied
		}
		e.CompletedCategories[category] = true
		return CategoryCompleted{
			EventID:  eventID,
			Category: category,
			Version:  version,
			At:       s.now(),
		}, nil
	})
}

// errAlreadyApplied aborts a mutation that would not change anything
var errAlreadyApplied = errors.New("already applied")

// mutate runs fn against a private copy of the event. The copy replaces the
// original only when fn succeeds; on error the store is left untouched.
func (s *Store) mutate(eventID string, fn func(e *Event, version uint64) (events.Event, error)) error {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(eventID)
	if idx == -1 {
		s.mu.Unlock()
		return ErrEventNotFound
	}

	working := s.events[idx].clone()
	ev, err := fn(&working, s.version+1)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, errAlreadyApplied) {
			return nil
		}
		return err
	}

	next := make([]Event, len(s.events))
	copy(next, s.events)
	next[idx] = working
	s.events = next
	s.version++
	s.mu.Unlock()

	s.log.Debug().Str("event_id", eventID).Str("change", ev.Name()).Uint64("version", events.ExtractVersion(ev)).Msg("event changed")
	s.emit(ev)
	return nil
}

func (s *Store) indexOf(eventID string) int {
	for i, e := range s.events {
		if e.ID == eventID {
			return i
		}
	}
	return -1
}

// uniqueEventID must be called with the write lock held
func (s *Store) uniqueEventID() string {
	for {
		id := s.newID()
		if _, taken := s.issued[id]; !taken {
			s.issued[id] = struct{}{}
			return id
		}
	}
}

func (s *Store) uniqueChildID(taken func(string) bool) string {
	for {
		id := s.newID()
		if !taken(id) {
			return id
		}
	}
}

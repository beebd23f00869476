package events

import (
	"errors"
	"sync"
)

var (
	ErrNoEventID = errors.New("event has no event id")
	ErrForgotten = errors.New("event history was forgotten")
)

// Journal records change events per planned event, in the order they are appended.
type Journal interface {
	Append(event Event) error
	Load(eventID string) ([]Event, error)
}

// InMemoryJournal is an in-memory implementation of the Journal interface.
type InMemoryJournal struct {
	entries map[string][]Event
	// ids whose history was dropped; they never take new entries
	forgotten map[string]struct{}
	mutex     sync.RWMutex
}

// NewInMemoryJournal creates a new in-memory journal.
func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{
		entries:   make(map[string][]Event),
		forgotten: make(map[string]struct{}),
	}
}

// Append adds a new event to the journal.
func (j *InMemoryJournal) Append(event Event) error {
	eventID := ExtractEventID(event)
	if eventID == "" {
		return ErrNoEventID
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	if _, gone := j.forgotten[eventID]; gone {
		return ErrForgotten
	}
	j.entries[eventID] = append(j.entries[eventID], event)
	return nil
}

// Record is Append shaped as a Handler, so the journal can subscribe to a store.
func (j *InMemoryJournal) Record(event Event) {
	_ = j.Append(event)
}

// Load retrieves all events recorded for the given event id.
func (j *InMemoryJournal) Load(eventID string) ([]Event, error) {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	entries, exists := j.entries[eventID]
	if !exists {
		return []Event{}, nil
	}

	// Copy so appends after the read are not visible to the caller
	result := make([]Event, len(entries))
	copy(result, entries)
	return result, nil
}

// Forget drops the history of an event. Events appended for it afterwards
// are rejected with ErrForgotten, since event ids are never reused.
func (j *InMemoryJournal) Forget(eventID string) {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	delete(j.entries, eventID)
	j.forgotten[eventID] = struct{}{}
}

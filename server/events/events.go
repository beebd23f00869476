package events

import (
	"encoding/json"
	"fmt"

	domainevents "github.com/lazharichir/zigo/domain/events"
	"github.com/rs/zerolog"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Version uint64          `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

// Broadcaster delivers a message to every connected client
type Broadcaster interface {
	Broadcast(message []byte) int
}

// Dispatcher handles routing events to clients
type Dispatcher struct {
	out Broadcaster
	log zerolog.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(out Broadcaster, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		out: out,
		log: logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Wrap puts an event in its envelope
func Wrap(event domainevents.Event) (EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal %s payload: %w", event.Name(), err)
	}
	return EventEnvelope{
		Name:    event.Name(),
		Version: domainevents.ExtractVersion(event),
		Payload: payload,
	}, nil
}

// Encode builds the wire form of an event
func Encode(event domainevents.Event) ([]byte, error) {
	env, err := Wrap(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// HandleEvent processes domain events and sends them to clients.
// Every view renders from the whole collection, so every change goes to everyone.
func (d *Dispatcher) HandleEvent(event domainevents.Event) {
	data, err := Encode(event)
	if err != nil {
		d.log.Error().Err(err).Msg("failed to encode event")
		return
	}

	sent := d.out.Broadcast(data)
	d.log.Debug().
		Str("event", event.Name()).
		Str("event_id", domainevents.ExtractEventID(event)).
		Int("clients", sent).
		Msg("dispatched")
}

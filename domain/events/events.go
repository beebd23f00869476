package events

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine.
type Handler func(event Event)

// Event is anything published to handlers. Concrete events live next to the
// state they describe and expose EventID and Version fields when they have them.
type Event interface {
	Name() string
}

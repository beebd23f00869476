package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/lazharichir/zigo/chat"
	"github.com/lazharichir/zigo/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	messages [][]byte
}

func (r *recordingBroadcaster) Broadcast(message []byte) int {
	r.messages = append(r.messages, message)
	return 1
}

func TestHandleEventBroadcastsEnvelope(t *testing.T) {
	out := &recordingBroadcaster{}
	d := NewDispatcher(out, zerolog.Nop())

	at := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	guest := domain.Guest{ID: "g1", Name: "Sara Ali", Phone: "+20 112 345 6789", Status: domain.GuestPending}
	d.HandleEvent(domain.GuestAdded{EventID: "e1", Guest: guest, Version: 4, At: at})

	require.Len(t, out.messages, 1)
	var env EventEnvelope
	require.NoError(t, json.Unmarshal(out.messages[0], &env))
	assert.Equal(t, "GUEST_ADDED", env.Name)
	assert.Equal(t, uint64(4), env.Version)

	var payload domain.GuestAdded
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "e1", payload.EventID)
	assert.Equal(t, guest, payload.Guest)
	assert.True(t, at.Equal(payload.At))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &raw))
	assert.Contains(t, raw, "eventId")
	assert.Contains(t, raw, "guest")
}

func TestEventAddedPayloadCarriesTheEvent(t *testing.T) {
	event := domain.Event{
		ID:                  "e1",
		Name:                "Birthday Party",
		Date:                time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Type:                "birthday",
		Vendors:             []domain.Vendor{{ID: "v1", Name: "Cairo Palace", Category: domain.CategoryVenue, Price: 8000, PaymentStatus: domain.PaymentDeposited}},
		Guests:              []domain.Guest{},
		CompletedCategories: domain.CompletedCategories{domain.CategoryVenue: true},
	}
	env, err := Wrap(domain.EventAdded{EventID: event.ID, Event: event, Version: 1})
	require.NoError(t, err)
	assert.Equal(t, "EVENT_ADDED", env.Name)

	var payload domain.EventAdded
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, event, payload.Event)
}

func TestEncodeChatEventHasZeroVersion(t *testing.T) {
	data, err := Encode(chat.MessageAppended{EventID: "e1", Vendor: "Cairo Hall", Message: chat.Message{Text: "hi"}})
	require.NoError(t, err)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "CHAT_MESSAGE_APPENDED", env.Name)
	assert.Zero(t, env.Version)
}

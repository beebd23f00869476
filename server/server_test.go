package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lazharichir/zigo/catalog"
	"github.com/lazharichir/zigo/chat"
	"github.com/lazharichir/zigo/config"
	"github.com/lazharichir/zigo/domain"
	"github.com/lazharichir/zigo/server/events"
	"github.com/lazharichir/zigo/server/handlers"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv   *Server
	http  *httptest.Server
	store *domain.Store
	chat  *chat.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := domain.NewStore(domain.WithEvents(catalog.SeedEvents()))
	chatSvc := chat.NewService(store, chat.WithReplyDelay(10*time.Millisecond))
	cfg := config.Config{Port: "0", Debug: true, AllowedOrigin: "*", ShutdownTimeout: time.Second}
	srv := NewServer(cfg, store, catalog.Default(), chatSvc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	srv.run(ctx)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
		chatSvc.Close()
	})
	return &testEnv{srv: srv, http: ts, store: store, chat: chatSvc}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.http.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestListEvents(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeBody[domain.Snapshot](t, resp)
	require.Len(t, snap.Events, 2)
	assert.Equal(t, "event-1", snap.Events[0].ID)
	assert.Equal(t, "e1", snap.Events[1].ID)
}

func TestCreateUpdateDeleteEvent(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events", `{"name":"Graduation","date":"2025-07-01","type":"Party"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[domain.Event](t, resp)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), created.Date.UTC())
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.Vendors)
	assert.Empty(t, created.Guests)

	resp = env.do(t, http.MethodPatch, "/api/events/"+created.ID, `{"name":"Graduation Night"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[domain.Event](t, resp)
	assert.Equal(t, "Graduation Night", updated.Name)
	assert.Equal(t, "Party", updated.Type)

	resp = env.do(t, http.MethodDelete, "/api/events/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/events/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
}

func TestCreateEventValidation(t *testing.T) {
	env := newTestEnv(t)
	before := env.store.Version()

	resp := env.do(t, http.MethodPost, "/api/events", `{"name":"  "}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	prob := decodeBody[Problem](t, resp)
	assert.Equal(t, "validation failed", prob.Title)
	assert.Contains(t, prob.Errors, "name")
	assert.Contains(t, prob.Errors, "date")

	resp = env.do(t, http.MethodPost, "/api/events", `{"name":"x","date":"2025-07-01T00:00:00Z","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, before, env.store.Version())
}

func TestVendorRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events/event-1/vendors", `{"name":"Snap Studio","category":"photography","price":2500}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	vendor := decodeBody[domain.Vendor](t, resp)
	assert.Equal(t, domain.PaymentPending, vendor.PaymentStatus)

	resp = env.do(t, http.MethodPut, "/api/events/event-1/vendors/"+vendor.ID+"/payment-status", `{"status":"paid"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	event, err := env.store.GetEvent("event-1")
	require.NoError(t, err)
	got, ok := event.FindVendor(vendor.ID)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)

	resp = env.do(t, http.MethodPut, "/api/events/event-1/vendors/"+vendor.ID+"/payment-status", `{"status":"refunded"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/events/event-1/vendors/"+vendor.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/events/event-1/vendors/"+vendor.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/events/missing/vendors", `{"name":"Snap Studio","category":"photography","price":2500}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuestRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events/e1/guests", `{"name":"Mona","phone":"+20 100 000 0000"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	guest := decodeBody[domain.Guest](t, resp)
	assert.Equal(t, domain.GuestPending, guest.Status)

	resp = env.do(t, http.MethodPut, "/api/events/e1/guests/"+guest.ID+"/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/events/e1/guests/nobody/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/events/e1/guests/"+guest.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	event, err := env.store.GetEvent("e1")
	require.NoError(t, err)
	assert.Len(t, event.Guests, 2)
}

func TestCompleteCategory(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events/e1/categories/decoration/complete", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	event, _ := env.store.GetEvent("e1")
	assert.True(t, event.IsCategoryCompleted(domain.CategoryDecoration))

	resp = env.do(t, http.MethodPost, "/api/events/e1/categories/flowers/complete", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOverview(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/events/event-1/overview", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decodeBody[OverviewResponse](t, resp)

	assert.Equal(t, 7500.0, overview.Budget.Total)
	assert.Equal(t, 1500.0, overview.Budget.Deposited)
	assert.Equal(t, 6000.0, overview.Budget.Remaining)
	assert.Contains(t, overview.Formatted.Total, "EGP")
	assert.Contains(t, overview.Formatted.Progress, "20")
	assert.Equal(t, domain.GuestCounts{Confirmed: 1, Pending: 1, Total: 2}, overview.Guests)
	require.Len(t, overview.GuestLists.Confirmed, 1)
	assert.Equal(t, "Ahmed Hassan", overview.GuestLists.Confirmed[0].Name)
	require.Len(t, overview.GuestLists.Pending, 1)
	assert.Equal(t, "Sara Ali", overview.GuestLists.Pending[0].Name)
	require.Len(t, overview.Categories, len(domain.Categories()))
	assert.True(t, overview.Categories[0].Completed)
	assert.Equal(t, 2, overview.Wizard.Completed)
	require.NotNil(t, overview.Wizard.Next)
	assert.Equal(t, domain.CategoryPhotography, *overview.Wizard.Next)
}

func TestWizardRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events/event-1/wizard/select", `{"category":"photography","vendorId":"v4"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	vendor := decodeBody[domain.Vendor](t, resp)
	assert.Equal(t, 2500.0, vendor.Price)

	resp = env.do(t, http.MethodPost, "/api/events/event-1/wizard/select", `{"category":"venue","vendorId":"v4"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/events/event-1/wizard/skip", `{"category":"entertainment"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/events/event-1/wizard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var progress struct {
		Completed int              `json:"completed"`
		Next      *domain.Category `json:"next"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&progress))
	assert.Equal(t, 4, progress.Completed)
	require.NotNil(t, progress.Next)
	assert.Equal(t, domain.CategoryDecoration, *progress.Next)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/catalog/vendors?category=venue", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	venues := decodeBody[[]CatalogVendorResponse](t, resp)
	require.NotEmpty(t, venues)
	for _, v := range venues {
		assert.Equal(t, domain.CategoryVenue, v.Category)
	}

	resp = env.do(t, http.MethodGet, "/api/catalog/vendors?category=spa", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/catalog/vendors?date=2025-06-01", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	free := decodeBody[[]CatalogVendorResponse](t, resp)
	ids := make([]string, 0, len(free))
	for _, v := range free {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"v1", "v4", "v6"}, ids)

	resp = env.do(t, http.MethodGet, "/api/catalog/vendors?category=venue&date=2025-05-22", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	free = decodeBody[[]CatalogVendorResponse](t, resp)
	require.Len(t, free, 1)
	assert.Equal(t, "Nile Gardens", free[0].Name)

	resp = env.do(t, http.MethodGet, "/api/catalog/vendors?date=June", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/catalog/vendors/v1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v1 := decodeBody[CatalogVendorResponse](t, resp)
	assert.Equal(t, "v1", v1.ID)
	assert.InDelta(t, 4.75, v1.AverageRating, 0.001)

	resp = env.do(t, http.MethodGet, "/api/catalog/vendors/v99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events/e1/chat/Royal%20Feast", `{"text":"Do you have vegan options?"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	msg := decodeBody[chat.Message](t, resp)
	assert.Equal(t, chat.SenderUser, msg.Sender)
	assert.Equal(t, "Royal Feast", msg.Vendor)

	conv := chat.ConversationID{EventID: "e1", Vendor: "Royal Feast"}
	require.Eventually(t, func() bool { return len(env.chat.Messages(conv)) == 2 }, time.Second, 5*time.Millisecond)

	resp = env.do(t, http.MethodGet, "/api/events/e1/chat/Royal%20Feast", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	messages := decodeBody[[]chat.Message](t, resp)
	require.Len(t, messages, 2)
	assert.Equal(t, chat.CannedReply, messages[1].Text)

	resp = env.do(t, http.MethodPost, "/api/events/e1/chat/Royal%20Feast", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/events/missing/chat/Royal%20Feast", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHistoryIsForgottenOnDelete(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodPost, "/api/events/e1/categories/photography/complete", "")
	env.do(t, http.MethodPost, "/api/events/e1/guests", `{"name":"Mona","phone":"0100"}`)

	resp := env.do(t, http.MethodGet, "/api/events/e1/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[[]events.EventEnvelope](t, resp)
	require.Len(t, history, 2)
	assert.Equal(t, "CATEGORY_COMPLETED", history[0].Name)
	assert.Equal(t, "GUEST_ADDED", history[1].Name)
	assert.Less(t, history[0].Version, history[1].Version)

	env.do(t, http.MethodDelete, "/api/events/e1", "")
	loaded, err := env.srv.journal.Load("e1")
	require.NoError(t, err)
	assert.Empty(t, loaded)

	resp = env.do(t, http.MethodGet, "/api/events/e1/history", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthzAndDebugState(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/debug/state", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Birthday Party")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodOptions, "/api/events", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PATCH")
}

func dial(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame[T any](t *testing.T, conn *websocket.Conn) T {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var v T
	require.NoError(t, conn.ReadJSON(&v))
	return v
}

func TestWebSocketSnapshotThenBroadcast(t *testing.T) {
	env := newTestEnv(t)
	conn := dial(t, env)

	first := readFrame[events.EventEnvelope](t, conn)
	assert.Equal(t, SnapshotMessage, first.Name)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(first.Payload, &snap))
	assert.Len(t, snap.Events, 2)

	require.Eventually(t, func() bool { return env.srv.connMgr.Count() == 1 }, time.Second, 5*time.Millisecond)

	resp := env.do(t, http.MethodPost, "/api/events/e1/categories/decoration/complete", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	change := readFrame[events.EventEnvelope](t, conn)
	assert.Equal(t, "CATEGORY_COMPLETED", change.Name)
	assert.Equal(t, env.store.Version(), change.Version)
}

func TestWebSocketCommands(t *testing.T) {
	env := newTestEnv(t)
	conn := dial(t, env)
	readFrame[events.EventEnvelope](t, conn)
	require.Eventually(t, func() bool { return env.srv.connMgr.Count() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"name":"ADD_GUEST","eventId":"e1","guest":{"name":"Mona","phone":"0100"}}`)))

	// the broadcast and the ack may arrive in either order
	var sawBroadcast, sawAck bool
	for i := 0; i < 2; i++ {
		frame := readFrame[map[string]any](t, conn)
		switch frame["name"] {
		case "GUEST_ADDED":
			sawBroadcast = true
			data, err := json.Marshal(frame["payload"])
			require.NoError(t, err)
			var added domain.GuestAdded
			require.NoError(t, json.Unmarshal(data, &added))
			assert.Equal(t, "e1", added.EventID)
			assert.Equal(t, "Mona", added.Guest.Name)
			assert.Equal(t, "0100", added.Guest.Phone)
			assert.Equal(t, domain.GuestPending, added.Guest.Status)
		case handlers.ReplyAck:
			sawAck = true
			assert.Equal(t, "ADD_GUEST", frame["command"])
		}
	}
	assert.True(t, sawBroadcast)
	assert.True(t, sawAck)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"name":"REMOVE_GUEST","eventId":"e1","guestId":"nobody"}`)))
	reply := readFrame[handlers.Reply](t, conn)
	assert.Equal(t, handlers.ReplyError, reply.Name)
	assert.Equal(t, domain.ErrGuestNotFound.Error(), reply.Error)
}

func TestChatForDeletedEventLeavesNoHistory(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events/e1/chat/Royal%20Feast", `{"text":"menu?"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/events/e1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// a reply delivered after the delete must not bring the history back
	time.Sleep(30 * time.Millisecond)
	loaded, err := env.srv.journal.Load("e1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.Empty(t, env.chat.Messages(chat.ConversationID{EventID: "e1", Vendor: "Royal Feast"}))

	_, err = env.chat.Send("e1", "Royal Feast", "still there?")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestGetConversationTrimsVendor(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/events/e1/chat/Royal%20Feast", `{"text":"menu?"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/events/e1/chat/%20Royal%20Feast%20", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	messages := decodeBody[[]chat.Message](t, resp)
	require.NotEmpty(t, messages)
	assert.Equal(t, "menu?", messages[0].Text)
}

func TestWebSocketDeltasFollowSnapshot(t *testing.T) {
	env := newTestEnv(t)

	const writes = 30
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < writes; i++ {
			_, err := env.store.AddGuestToEvent("e1", domain.NewGuest{Name: fmt.Sprintf("Guest %d", i), Phone: "0"})
			assert.NoError(t, err)
		}
	}()

	conn := dial(t, env)
	first := readFrame[events.EventEnvelope](t, conn)
	require.Equal(t, SnapshotMessage, first.Name)
	<-done

	// every change after the snapshot arrives once, in order, with no gap
	want := first.Version + 1
	final := env.store.Version()
	for want <= final {
		frame := readFrame[events.EventEnvelope](t, conn)
		assert.Equal(t, "GUEST_ADDED", frame.Name)
		require.Equal(t, want, frame.Version)
		want++
	}
}

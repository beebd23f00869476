package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/zigo/catalog"
	"github.com/lazharichir/zigo/chat"
	"github.com/lazharichir/zigo/config"
	"github.com/lazharichir/zigo/domain"
	domainevents "github.com/lazharichir/zigo/domain/events"
	"github.com/lazharichir/zigo/planner"
	"github.com/lazharichir/zigo/server/connection"
	"github.com/lazharichir/zigo/server/events"
	"github.com/lazharichir/zigo/server/handlers"
	"github.com/rs/zerolog"
	"github.com/sanity-io/litter"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 64 << 10
)

// SnapshotMessage is the first frame a websocket client receives
const SnapshotMessage = "SNAPSHOT"

// Server exposes the event store over REST and a websocket
type Server struct {
	cfg        config.Config
	store      *domain.Store
	catalog    *catalog.Catalog
	wizard     *planner.Wizard
	chat       *chat.Service
	journal    *domainevents.InMemoryJournal
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

// NewServer wires the store and the chat service to the websocket dispatcher
// and the change journal.
func NewServer(cfg config.Config, store *domain.Store, cat *catalog.Catalog, chatSvc *chat.Service, logger zerolog.Logger) *Server {
	log := logger.With().Str("component", "server").Logger()
	connMgr := connection.NewManager(logger)
	dispatcher := events.NewDispatcher(connMgr, logger)

	s := &Server{
		cfg:        cfg,
		store:      store,
		catalog:    cat,
		wizard:     planner.NewWizard(store, cat),
		chat:       chatSvc,
		journal:    domainevents.NewInMemoryJournal(),
		connMgr:    connMgr,
		cmdRouter:  handlers.NewCommandRouter(store, chatSvc, connMgr, logger),
		dispatcher: dispatcher,
		log:        log,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	store.Subscribe(s.record)
	store.Subscribe(dispatcher.HandleEvent)
	chatSvc.Subscribe(s.record)
	chatSvc.Subscribe(dispatcher.HandleEvent)

	return s
}

// record keeps the per-event history and clears everything tied to a deleted event
func (s *Server) record(event domainevents.Event) {
	if deleted, ok := event.(domain.EventDeleted); ok {
		s.journal.Forget(deleted.EventID)
		if n := s.chat.DropEvent(deleted.EventID); n > 0 {
			s.log.Debug().Str("event_id", deleted.EventID).Int("replies", n).Msg("pending replies cancelled")
		}
		return
	}
	s.journal.Record(event)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowedOrigin == "" || s.cfg.AllowedOrigin == "*" {
		return true
	}
	return r.Header.Get("Origin") == s.cfg.AllowedOrigin
}

// Handler returns the routes wrapped in the CORS and logging middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.cfg.Debug {
		mux.HandleFunc("GET /debug/state", s.handleDebugState)
	}

	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	mux.HandleFunc("GET /api/events/{eventID}", s.handleGetEvent)
	mux.HandleFunc("PATCH /api/events/{eventID}", s.handleUpdateEvent)
	mux.HandleFunc("DELETE /api/events/{eventID}", s.handleDeleteEvent)
	mux.HandleFunc("GET /api/events/{eventID}/history", s.handleEventHistory)

	mux.HandleFunc("POST /api/events/{eventID}/vendors", s.handleAddVendor)
	mux.HandleFunc("DELETE /api/events/{eventID}/vendors/{vendorID}", s.handleRemoveVendor)
	mux.HandleFunc("PUT /api/events/{eventID}/vendors/{vendorID}/payment-status", s.handleVendorPaymentStatus)

	mux.HandleFunc("POST /api/events/{eventID}/guests", s.handleAddGuest)
	mux.HandleFunc("PUT /api/events/{eventID}/guests/{guestID}/status", s.handleGuestStatus)
	mux.HandleFunc("DELETE /api/events/{eventID}/guests/{guestID}", s.handleRemoveGuest)

	mux.HandleFunc("POST /api/events/{eventID}/categories/{category}/complete", s.handleCompleteCategory)
	mux.HandleFunc("GET /api/events/{eventID}/overview", s.handleOverview)

	mux.HandleFunc("GET /api/events/{eventID}/wizard", s.handleWizardProgress)
	mux.HandleFunc("POST /api/events/{eventID}/wizard/select", s.handleWizardSelect)
	mux.HandleFunc("POST /api/events/{eventID}/wizard/skip", s.handleWizardSkip)

	mux.HandleFunc("GET /api/catalog/vendors", s.handleListCatalog)
	mux.HandleFunc("GET /api/catalog/vendors/{vendorID}", s.handleGetCatalogVendor)

	mux.HandleFunc("GET /api/events/{eventID}/chat/{vendor}", s.handleGetConversation)
	mux.HandleFunc("POST /api/events/{eventID}/chat/{vendor}", s.handleSendMessage)

	return s.corsMiddleware(s.logRequests(mux))
}

// corsMiddleware adds CORS headers to all responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.cfg.AllowedOrigin
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the upgrader needs the original writer to hijack the connection
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// run starts the goroutines the websocket layer depends on
func (s *Server) run(ctx context.Context) {
	go s.connMgr.Start(ctx)
}

// Start serves until ctx is cancelled, then drains connections and stops chat timers
func (s *Server) Start(ctx context.Context) error {
	s.run(ctx)

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", httpServer.Addr).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.chat.Close()
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	s.chat.Close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.store.Version(),
		"clients": s.connMgr.Count(),
	})
}

func (s *Server) handleDebugState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(litter.Sdump(s.store.Snapshot())))
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &connection.Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	s.log.Info().Str("remote", r.RemoteAddr).Str("client_id", client.ID).Msg("client connected")

	// no change is published between the snapshot and the registration, so
	// the client's first delta is the one right after the snapshot version
	s.store.Sync(func(snap domain.Snapshot) {
		if data, err := snapshotFrame(snap); err == nil {
			client.Send <- data
		} else {
			s.log.Error().Err(err).Msg("failed to encode snapshot")
		}
		s.connMgr.Register(client)
	})

	go s.readPump(client)
	go s.writePump(client)
}

func snapshotFrame(snap domain.Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return json.Marshal(events.EventEnvelope{
		Name:    SnapshotMessage,
		Version: snap.Version,
		Payload: payload,
	})
}

// readPump reads commands from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessage)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.log.Warn().Err(err).Str("client_id", client.ID).Msg("unexpected close")
			}
			break
		}

		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			s.log.Debug().Err(err).Str("client_id", client.ID).Msg("command rejected")
		}
	}
}

// writePump sends queued messages and keeps the connection alive with pings
func (s *Server) writePump(client *connection.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.log.Debug().Err(err).Str("client_id", client.ID).Msg("write failed")
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package connection

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Client represents a connected view
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// Manager handles all client connections
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	log        zerolog.Logger
}

// NewManager creates a new connection manager
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger.With().Str("component", "connections").Logger(),
	}
}

// Start processes registrations until ctx is cancelled, then closes every client
func (m *Manager) Start(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			m.mutex.Unlock()
			m.log.Debug().Str("client_id", client.ID).Msg("client registered")

		case client := <-m.unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
			m.log.Debug().Str("client_id", client.ID).Msg("client unregistered")

		case <-ctx.Done():
			m.mutex.Lock()
			for id, client := range m.clients {
				delete(m.clients, id)
				close(client.Send)
			}
			m.mutex.Unlock()
			return
		}
	}
}

// Register adds a client. It is a no-op once the manager has stopped.
func (m *Manager) Register(client *Client) {
	select {
	case m.register <- client:
	case <-m.done:
	}
}

// Unregister removes a client and closes its Send channel
func (m *Manager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

// Broadcast queues a message for every client and returns how many accepted it.
// Clients whose buffer is full miss the message.
func (m *Manager) Broadcast(message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for _, client := range m.clients {
		if m.offer(client, message) {
			sent++
		}
	}
	return sent
}

// SendToClient sends a message to a specific client
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return m.offer(client, message)
	}
	return false
}

// Count is the number of registered clients
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

func (m *Manager) offer(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		m.log.Warn().Str("client_id", client.ID).Msg("send buffer full, message dropped")
		return false
	}
}

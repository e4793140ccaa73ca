package websockets

import (
	"riskcheck/config"
	"riskcheck/internal/database"
	"riskcheck/internal/events"
	"riskcheck/internal/logger"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Manager fans event-bus messages out to connected clients. Each client
// watches one request channel, named by request ID, and receives every
// result save/clear and the finalize for that request.
type Manager struct {
	db       database.DB
	eventBus *events.EventBus
	config   config.Config
	log      logger.Logger

	mu      sync.RWMutex
	clients map[string]map[*websocket.Conn]bool
}

func New(db database.DB, eventBus *events.EventBus, config config.Config) (*Manager, error) {
	m := &Manager{
		db:       db,
		eventBus: eventBus,
		config:   config,
		log:      logger.New("websockets"),
		clients:  map[string]map[*websocket.Conn]bool{},
	}

	go func() {
		if err := m.eventBus.Subscribe("results", m.broadcast); err != nil {
			m.log.Er("event subscription ended", err)
		}
	}()

	return m, nil
}

// HandleWebSocket blocks for the lifetime of the connection. The client picks
// its request channel with the requestId query parameter.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	requestID := c.Query("requestId")
	if requestID == "" {
		m.log.Function("HandleWebSocket").Warn("connection without requestId, closing")
		_ = c.Close()
		return
	}

	m.register(requestID, c)
	defer m.unregister(requestID, c)

	// Drain reads until the peer goes away; all traffic is server-to-client.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) register(requestID string, c *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clients[requestID] == nil {
		m.clients[requestID] = map[*websocket.Conn]bool{}
	}
	m.clients[requestID][c] = true
}

func (m *Manager) unregister(requestID string, c *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.clients[requestID], c)
	if len(m.clients[requestID]) == 0 {
		delete(m.clients, requestID)
	}
}

func (m *Manager) broadcast(event events.Event) {
	m.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(m.clients[event.Channel]))
	for c := range m.clients[event.Channel] {
		conns = append(conns, c)
	}
	m.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(event); err != nil {
			m.log.Function("broadcast").Warn("failed to write to client",
				"requestID", event.Channel, "error", err)
		}
	}
}

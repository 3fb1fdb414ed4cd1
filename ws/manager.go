package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event is one activity-feed entry pushed to subscribers.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // favorite_added | favorite_removed | structure_created
	UserID      uint      `json:"user_id,omitempty"`
	StructureID uint      `json:"structure_id"`
	At          time.Time `json:"at"`
}

// NewEvent stamps an event with an id and timestamp.
func NewEvent(eventType string, userID, structureID uint) Event {
	return Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		UserID:      userID,
		StructureID: structureID,
		At:          time.Now().UTC(),
	}
}

// writeTimeout bounds how long a broadcast may spend on one subscriber.
const writeTimeout = 5 * time.Second

// Manager keeps track of active feed subscriber connections.
type Manager struct {
	mu          sync.RWMutex
	writeMu     sync.Mutex                 // serializes writes; websocket conns allow one writer
	connections map[string]*websocket.Conn // subscriberID -> conn
}

func NewManager() *Manager {
	return &Manager{connections: make(map[string]*websocket.Conn)}
}

// Register registers a subscriber connection, replacing any existing one.
func (m *Manager) Register(subscriberID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.connections[subscriberID]; ok && old != conn {
		// close old connection to avoid leaks
		_ = old.Close()
	}
	m.connections[subscriberID] = conn
}

// Unregister removes a subscriber connection.
func (m *Manager) Unregister(subscriberID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if conn, ok := m.connections[subscriberID]; ok {
		_ = conn.Close()
		delete(m.connections, subscriberID)
	}
}

// Broadcast sends the event to every subscriber. Writes happen outside the
// connection-map lock and carry a deadline, so one stalled subscriber can
// never wedge Register/Unregister/Count or the handlers that broadcast.
// Connections that fail to write are dropped.
func (m *Manager) Broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	m.mu.RLock()
	conns := make(map[string]*websocket.Conn, len(m.connections))
	for id, conn := range m.connections {
		conns[id] = conn
	}
	m.mu.RUnlock()

	var failed []string
	m.writeMu.Lock()
	for id, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			failed = append(failed, id)
		}
	}
	m.writeMu.Unlock()

	if len(failed) == 0 {
		return
	}

	m.mu.Lock()
	for _, id := range failed {
		if conn, ok := m.connections[id]; ok {
			_ = conn.Close()
			delete(m.connections, id)
		}
	}
	m.mu.Unlock()
}

// Count returns the number of connected subscribers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

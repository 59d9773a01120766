// services/notifier.go - Live notification push over WebSocket
package services

import (
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Notifier fans newly created notifications out to connected clients.
// Clients that miss a push still see the notification on the next
// GetNotifications fetch; the socket is a hint, not the source of truth.
type Notifier struct {
	mu      sync.RWMutex
	clients map[uint]map[*websocket.Conn]bool
}

func NewNotifier() *Notifier {
	return &Notifier{clients: make(map[uint]map[*websocket.Conn]bool)}
}

// Register adds a connection for the user.
func (n *Notifier) Register(userID uint, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.clients[userID] == nil {
		n.clients[userID] = make(map[*websocket.Conn]bool)
	}
	n.clients[userID][conn] = true
}

// Unregister drops a connection for the user.
func (n *Notifier) Unregister(userID uint, conn *websocket.Conn) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if conns, ok := n.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(n.clients, userID)
		}
	}
}

// Push sends the payload to every connection the user has open. Write
// failures only drop the connection; delivery is best-effort.
func (n *Notifier) Push(userID uint, payload interface{}) {
	n.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(n.clients[userID]))
	for conn := range n.clients[userID] {
		conns = append(conns, conn)
	}
	n.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			log.Printf("notification push failed for user %d: %v", userID, err)
			n.Unregister(userID, conn)
		}
	}
}

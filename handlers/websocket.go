package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"geo-server/ws"
)

// FeedHandler upgrades clients onto the activity feed. Subscribers only
// receive events; anything they send is discarded.
type FeedHandler struct {
	mgr *ws.Manager
}

func NewFeedHandler(mgr *ws.Manager) *FeedHandler {
	return &FeedHandler{mgr: mgr}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleFeed upgrades to websocket and keeps the subscriber registered until
// the connection drops.
// GET /ws
func (h *FeedHandler) HandleFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	subscriberID := uuid.New().String()
	h.mgr.Register(subscriberID, conn)
	log.Printf("feed subscriber connected: %s", subscriberID)

	defer func() {
		h.mgr.Unregister(subscriberID)
		log.Printf("feed subscriber disconnected: %s", subscriberID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("subscriber %s closed connection", subscriberID)
			} else {
				log.Printf("read error from %s: %v", subscriberID, err)
			}
			return
		}
	}
}

// GetFeedStats reports the number of connected subscribers.
// GET /api/v1/feed/stats
func (h *FeedHandler) GetFeedStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"subscribers": h.mgr.Count(),
	})
}

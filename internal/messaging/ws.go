package messaging

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/igwt-platform/igwt/internal/httpx"
)

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// wsClient wraps a connection with a write lock; gorilla connections do not
// support concurrent writers.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeText(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

type hub struct {
	orderID string
	clients map[*websocket.Conn]*wsClient
	mu      sync.RWMutex
}

var (
	hubsMu sync.RWMutex
	hubs   = make(map[string]*hub)
)

func getHub(orderID string) *hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()
	if h, ok := hubs[orderID]; ok {
		return h
	}
	h := &hub{orderID: orderID, clients: make(map[*websocket.Conn]*wsClient)}
	hubs[orderID] = h
	return h
}

func (h *hub) broadcast(evt wsEvent) {
	payload, _ := json.Marshal(evt)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		_ = c.writeText(payload)
	}
}

func (h *hub) register(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = &wsClient{conn: c}
	h.mu.Unlock()
}

func (h *hub) unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// OrderWS - GET /ws/orders/:id, realtime updates for an order thread.
func (h *Handler) OrderWS(c echo.Context) error {
	uid, err := httpx.UserID(c)
	if err != nil {
		return httpx.Error(c, err)
	}

	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing order id"})
	}

	ok, err := h.svc.IsParticipant(c.Request().Context(), uid, orderID)
	if err != nil {
		return httpx.Error(c, err)
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this order"})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	hb := getHub(orderID)
	hb.register(ws)
	hb.broadcast(wsEvent{Type: "presence_join", Data: echo.Map{"user_id": uid}})

	// Read loop; the protocol is server push, client frames are discarded.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			hb.unregister(ws)
			_ = ws.Close()
			hb.broadcast(wsEvent{Type: "presence_leave", Data: echo.Map{"user_id": uid}})
			break
		}
	}
	return nil
}

// BroadcastNewMessage publishes a new message event to the order hub.
func BroadcastNewMessage(orderID string, message interface{}) {
	getHub(orderID).broadcast(wsEvent{Type: "message_new", Data: message})
}

// BroadcastOrderUpdate publishes an order status change to the order hub.
func BroadcastOrderUpdate(orderID string, payload interface{}) {
	getHub(orderID).broadcast(wsEvent{Type: "order_update", Data: payload})
}

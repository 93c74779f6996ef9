package availability

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

const (
	EventSnapshot     = "snapshot"
	EventSlotTaken    = "slot_taken"
	EventSlotReleased = "slot_released"
)

// Event is pushed to every client watching Date.
type Event struct {
	Type  string   `json:"type"`
	Date  string   `json:"date"`
	Slot  string   `json:"slot,omitempty"`
	Slots []string `json:"slots,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	date string
}

// Hub fans out slot changes to websocket clients grouped by calendar date.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHub allows any origin when allowedOrigins is empty or contains "*".
func NewHub(allowedOrigins []string, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		clients: make(map[string]map[*client]struct{}),
		log:     log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// SlotTaken implements the booking engine's slot event sink.
func (h *Hub) SlotTaken(date, slot string) {
	h.Publish(Event{Type: EventSlotTaken, Date: date, Slot: slot})
}

func (h *Hub) SlotReleased(date, slot string) {
	h.Publish(Event{Type: EventSlotReleased, Date: date, Slot: slot})
}

func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[ev.Date] {
		select {
		case c.send <- data:
		default:
			// slow client, drop
		}
	}
}

// Subscribers returns the number of clients watching date.
func (h *Hub) Subscribers(date string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[date])
}

// Serve upgrades the request and blocks until the client disconnects.
// snapshot, when non-nil, is sent as the first message.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, date string, snapshot *Event) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, send: make(chan []byte, 32), date: date}

	if snapshot != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			c.send <- data
		}
	}

	h.register(c)
	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.date]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.date] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.date]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.date)
	}
	close(c.send)
}

// readPump only drains control frames; clients do not send events.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("availability stream closed", zap.String("date", c.date), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

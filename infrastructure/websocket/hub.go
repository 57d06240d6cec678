package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"task-tracker-api/domain/dto"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/metrics"
)

// Conn ส่วนของ *websocket.Conn ที่ hub ใช้
type Conn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Message frame ขาออก
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
	RID   string      `json:"rid,omitempty"`
}

// Client socket หนึ่งอัน (user หนึ่งคนมีได้หลาย socket)
type Client struct {
	ID     string
	UserID uint

	conn    Conn
	limiter *rate.Limiter

	writeMu sync.Mutex

	queryMu sync.Mutex
	query   dto.TaskQuery
}

// NewClient limiter nil = ไม่จำกัด
func NewClient(conn Conn, userID uint, limiter *rate.Limiter) *Client {
	return &Client{
		ID:      uuid.NewString(),
		UserID:  userID,
		conn:    conn,
		limiter: limiter,
		query: dto.TaskQuery{
			PageQuery: dto.PageQuery{PageNumber: dto.DefaultPageNumber, PageSize: dto.DefaultPageSize},
		},
	}
}

// Send writes are serialised per socket.
func (c *Client) Send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *Client) Ping(timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeout))
}

func (c *Client) Allow() bool {
	return c.limiter == nil || c.limiter.Allow()
}

// Query คืน readAllTasks query ล่าสุดของ socket นี้
func (c *Client) Query() dto.TaskQuery {
	c.queryMu.Lock()
	defer c.queryMu.Unlock()
	return c.query
}

func (c *Client) SetQuery(q dto.TaskQuery) {
	c.queryMu.Lock()
	defer c.queryMu.Unlock()
	c.query = q
}

// Hub registry ของ socket ตาม user
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byUser  map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.SetWSConnections(n)
	logger.Info("WebSocket client connected", "client_id", c.ID, "user_id", c.UserID, "connections", n)
}

// Unregister closes the socket; safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	if set := h.byUser[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	n := len(h.clients)
	h.mu.Unlock()

	_ = c.conn.Close()
	metrics.SetWSConnections(n)
	logger.Info("WebSocket client disconnected", "client_id", c.ID, "user_id", c.UserID, "connections", n)
}

// ClientsOf snapshot ของ socket ทั้งหมดของ user
func (h *Hub) ClientsOf(userID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.byUser[userID]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// SendEach สร้าง message แยกต่อ socket ของ user (เช่นตาม query ของแต่ละ socket)
// build คืน error = ข้าม socket นั้น; socket ที่เขียนไม่ได้จะถูกถอดออก
func (h *Hub) SendEach(userID uint, build func(c *Client) (Message, error)) int {
	sent := 0
	for _, c := range h.ClientsOf(userID) {
		msg, err := build(c)
		if err != nil {
			logger.Warn("WebSocket message build failed", "client_id", c.ID, "user_id", userID, "error", err)
			continue
		}
		if err := c.Send(msg); err != nil {
			logger.Warn("WebSocket send failed", "client_id", c.ID, "user_id", userID, "error", err)
			h.Unregister(c)
			continue
		}
		sent++
	}
	return sent
}

// PingAll returns the number of sockets dropped.
func (h *Hub) PingAll(timeout time.Duration) int {
	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	dropped := 0
	for _, c := range all {
		if err := c.Ping(timeout); err != nil {
			h.Unregister(c)
			dropped++
		}
	}
	return dropped
}

// CloseAll ใช้ตอน shutdown
func (h *Hub) CloseAll() {
	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.Unregister(c)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

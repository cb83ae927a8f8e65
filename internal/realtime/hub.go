package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"dentalclinic/internal/auth"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ===========================================================================
// Hub
// Quản lý các kết nối websocket đang mở
// Tra connection của user qua ConnectionRegistry rồi đẩy payload vào buffer
// ===========================================================================

// HubOptions tham số cho Hub
type HubOptions struct {
	SendBuffer   int
	PingInterval time.Duration
	WriteTimeout time.Duration
	// CheckOrigin nil = chấp nhận mọi origin
	CheckOrigin func(r *http.Request) bool
}

// Client một kết nối websocket của user
type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

// Hub implements Publisher
type Hub struct {
	registry *ConnectionRegistry
	logger   *zap.Logger
	opts     HubOptions
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*Client // connection ID -> client
}

// NewHub tạo Hub dùng registry cho trước
func NewHub(registry *ConnectionRegistry, logger *zap.Logger, opts HubOptions) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 16
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}

	return &Hub{
		registry: registry,
		logger:   logger,
		opts:     opts,
		clients:  make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Register thêm client và gán làm kết nối hiện tại của user
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	if previous := h.registry.Register(client.UserID, client.ID); previous != "" {
		h.logger.Debug("realtime connection replaced",
			zap.String("user_id", client.UserID.String()),
			zap.String("previous", previous),
			zap.String("current", client.ID),
		)
	}
}

// Unregister gỡ client và đóng buffer gửi
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
	h.mu.Unlock()

	h.registry.Unregister(client.UserID, client.ID)
}

// ClientCount số kết nối đang mở
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver đẩy payload tới kết nối hiện tại của user
// Trả về false nếu user không online hoặc buffer đầy
func (h *Hub) Deliver(userID uuid.UUID, payload []byte) bool {
	connID, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		h.logger.Warn("realtime send buffer full", zap.String("conn_id", connID))
		return false
	}
}

// PublishNotification implements Publisher
func (h *Hub) PublishNotification(ctx context.Context, userID uuid.UUID, event *NotificationEvent) error {
	event.Type = EventNotification
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	if !h.Deliver(userID, data) {
		h.logger.Debug("user offline, notification kept in inbox only",
			zap.String("user_id", userID.String()),
		)
	}
	return nil
}

// ServeWS nâng cấp HTTP lên websocket
// Request phải đi qua auth middleware để có principal trong context
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		UserID: principal.UserID,
		Send:   make(chan []byte, h.opts.SendBuffer),
	}
	h.Register(client)

	h.logger.Info("realtime connected",
		zap.String("user_id", client.UserID.String()),
		zap.String("conn_id", client.ID),
	)

	go h.writePump(client, conn)
	go h.readPump(client, conn)
}

// readPump chỉ đọc để phát hiện ngắt kết nối và nhận pong
func (h *Hub) readPump(client *Client, conn *websocket.Conn) {
	defer func() {
		h.Unregister(client)
		conn.Close()
		h.logger.Info("realtime disconnected",
			zap.String("user_id", client.UserID.String()),
			zap.String("conn_id", client.ID),
		)
	}()

	conn.SetReadLimit(4096)
	pongWait := h.opts.PingInterval * 2
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

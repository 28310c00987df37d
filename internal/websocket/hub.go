// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"ptieasy-service/internal/domain/notification"
	wstypes "ptieasy-service/internal/domain/websocket"
	"ptieasy-service/internal/pkg/jwt"

	"go.uber.org/zap"
)

// TokenValidator checks a bearer token against its signature and session.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
}

type Hub struct {
	// Registered clients by account ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	validator TokenValidator
	logger    *zap.Logger

	done     chan struct{}
	doneOnce sync.Once
}

type BroadcastMessage struct {
	// AccountIDs limits delivery; nil means every client
	AccountIDs []string
	Channel    wstypes.ChannelType
	Message    *wstypes.WSMessage
}

func NewHub(validator TokenValidator, logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		validator:       validator,
		logger:          logger,
		done:            make(chan struct{}),
	}
}

// AuthenticateClient validates the token and describes the client it belongs to
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		AccountID: claims.AccountID,
		SessionID: claims.ID,
		Role:      claims.Role,
		DriverRef: claims.DriverRef,
		Device:    claims.Device,
	}, nil
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered
// handlers. handled is false when no handler claims the event type.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (handled bool, err error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

// Register hands a connected client to the hub. Clients arriving after
// shutdown are closed.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client; safe to call after shutdown.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Run serves registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return nil

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.accountID] == nil {
		h.clients[client.accountID] = make(map[*Client]bool)
	}
	h.clients[client.accountID][client] = true

	h.logger.Info("websocket client connected",
		zap.String("account_id", client.accountID),
		zap.String("session_id", client.sessionID),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"account_id": client.accountID,
		"session_id": client.sessionID,
		"role":       client.role,
		"driver_ref": client.driverRef,
		"device":     client.device,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.accountID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.accountID)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("account_id", client.accountID),
				zap.String("session_id", client.sessionID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.AccountIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
		return
	}

	for _, accountID := range msg.AccountIDs {
		for client := range h.clients[accountID] {
			if client.IsSubscribed(msg.Channel) {
				client.SendMessage(msg.Message)
			}
		}
	}
}

// enqueue never blocks the caller; a full queue drops the event.
func (h *Hub) enqueue(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping event",
			zap.String("type", string(msg.Message.Type)),
		)
	}
}

func (h *Hub) GetConnectedClients(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// ==================== Notification feed ====================

func (h *Hub) PublishNotification(n *notification.Notification) {
	h.enqueue(&BroadcastMessage{
		Channel: wstypes.ChannelNotifications,
		Message: wstypes.NewMessage(wstypes.EventTypeNotification, n),
	})
}

func (h *Hub) PublishNotificationRead(id string) {
	h.enqueue(&BroadcastMessage{
		Channel: wstypes.ChannelNotifications,
		Message: wstypes.NewMessage(wstypes.EventTypeNotificationRead, wstypes.NotificationRef{NotificationID: id}),
	})
}

func (h *Hub) PublishNotificationsReadAll() {
	h.enqueue(&BroadcastMessage{
		Channel: wstypes.ChannelNotifications,
		Message: wstypes.NewMessage(wstypes.EventTypeNotificationReadAll, nil),
	})
}

func (h *Hub) PublishNotificationRemoved(id string) {
	h.enqueue(&BroadcastMessage{
		Channel: wstypes.ChannelNotifications,
		Message: wstypes.NewMessage(wstypes.EventTypeNotificationRemoved, wstypes.NotificationRef{NotificationID: id}),
	})
}

func (h *Hub) PublishUnreadCount(count int) {
	h.enqueue(&BroadcastMessage{
		Channel: wstypes.ChannelNotifications,
		Message: wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.UnreadCountData{UnreadCount: count}),
	})
}

// ==================== Sessions ====================

// ForceLogout tells the clients of one login session that it ended and
// disconnects them. Other sessions of the same account stay connected.
func (h *Hub) ForceLogout(accountID, sessionID, reason string) {
	msg := wstypes.NewMessage(wstypes.EventTypeForceLogout, wstypes.SessionEventData{
		SessionID: sessionID,
		Reason:    reason,
		Message:   "You have been logged out",
	})

	h.mu.RLock()
	defer h.mu.RUnlock()

	closed := 0
	for client := range h.clients[accountID] {
		if client.sessionID != sessionID {
			continue
		}
		client.SendMessage(msg)
		client.Close()
		closed++
	}

	if closed > 0 {
		h.logger.Info("websocket session logged out",
			zap.String("account_id", accountID),
			zap.String("session_id", sessionID),
			zap.Int("clients", closed),
		)
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.doneOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}

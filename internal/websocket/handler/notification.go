// internal/websocket/handler/notification.go
package handler

import (
	"context"
	"fmt"

	"ptieasy-service/internal/domain/notification"
	wstypes "ptieasy-service/internal/domain/websocket"
	ws "ptieasy-service/internal/websocket"
)

// Feed is the notification feed as seen by websocket clients.
type Feed interface {
	List(ctx context.Context) *notification.NotificationListResponse
	UnreadCount(ctx context.Context) int
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context)
	Remove(ctx context.Context, id string) error
}

type NotificationHandler struct {
	feed Feed
}

func NewNotificationHandler(feed Feed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// SupportedEvents returns events this handler supports
func (h *NotificationHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeNotificationRead,
		wstypes.EventTypeNotificationReadAll,
		wstypes.EventTypeNotificationRemove,
		wstypes.EventTypeNotificationList,
		wstypes.EventTypeNotificationCount,
	}
}

// HandleMessage processes notification-related messages. Changes to the
// feed reach every subscribed client through the hub; the requester also
// gets a direct acknowledgement.
func (h *NotificationHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeNotificationRead:
		return h.handleMarkAsRead(ctx, client, msg)

	case wstypes.EventTypeNotificationReadAll:
		h.feed.MarkAllRead(ctx)
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotificationReadAll, map[string]interface{}{
			"success":      true,
			"unread_count": 0,
		}))
		return nil

	case wstypes.EventTypeNotificationRemove:
		return h.handleRemove(ctx, client, msg)

	case wstypes.EventTypeNotificationList:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotificationList, h.feed.List(ctx)))
		return nil

	case wstypes.EventTypeNotificationCount:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.UnreadCountData{
			UnreadCount: h.feed.UnreadCount(ctx),
		}))
		return nil

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *NotificationHandler) handleMarkAsRead(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	ref, err := decodeRef(msg)
	if err != nil {
		return err
	}

	if err := h.feed.MarkRead(ctx, ref.NotificationID); err != nil {
		return err
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotificationRead, map[string]interface{}{
		"notification_id": ref.NotificationID,
		"success":         true,
		"unread_count":    h.feed.UnreadCount(ctx),
	}))
	return nil
}

func (h *NotificationHandler) handleRemove(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	ref, err := decodeRef(msg)
	if err != nil {
		return err
	}

	if err := h.feed.Remove(ctx, ref.NotificationID); err != nil {
		return err
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotificationRemove, map[string]interface{}{
		"notification_id": ref.NotificationID,
		"success":         true,
		"unread_count":    h.feed.UnreadCount(ctx),
	}))
	return nil
}

func decodeRef(msg *wstypes.WSMessage) (wstypes.NotificationRef, error) {
	var ref wstypes.NotificationRef
	if err := wstypes.DecodeData(msg.Data, &ref); err != nil {
		return ref, fmt.Errorf("invalid request: %w", err)
	}
	if ref.NotificationID == "" {
		return ref, fmt.Errorf("notification_id is required")
	}
	return ref, nil
}

package gateway

import (
	"context"
	"net/http"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

// NotificationGateway implements ports.NotificationAPI over /notifications.
type NotificationGateway struct {
	client *Client
}

func NewNotificationGateway(client *Client) *NotificationGateway {
	return &NotificationGateway{client: client}
}

func (g *NotificationGateway) List(ctx context.Context) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	err := g.client.doJSON(ctx, call{
		group:  groupNotification,
		op:     "fetch notifications",
		method: http.MethodGet,
		path:   "/notifications",
	}, &notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (g *NotificationGateway) MarkRead(ctx context.Context, notificationID string) error {
	return g.client.doJSON(ctx, call{
		group:  groupNotification,
		op:     "mark notification read",
		method: http.MethodPut,
		path:   "/notifications/" + notificationID + "/read",
	}, nil)
}

func (g *NotificationGateway) MarkAllRead(ctx context.Context) error {
	return g.client.doJSON(ctx, call{
		group:  groupNotification,
		op:     "mark all notifications read",
		method: http.MethodPut,
		path:   "/notifications/read-all",
	}, nil)
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// NotificationFeed lists server-generated alerts and applies the read /
// read-all transition, the only mutation notifications support.
type NotificationFeed struct {
	api ports.NotificationAPI
	log zerolog.Logger
}

func NewNotificationFeed(api ports.NotificationAPI, log zerolog.Logger) *NotificationFeed {
	return &NotificationFeed{api: api, log: log}
}

// List returns the current user's notifications, newest first per the
// backend's ordering.
func (f *NotificationFeed) List(ctx context.Context) ([]*domain.Notification, error) {
	return f.api.List(ctx)
}

// MarkRead marks one notification as read.
func (f *NotificationFeed) MarkRead(ctx context.Context, id string) error {
	return f.api.MarkRead(ctx, id)
}

// MarkAllRead marks every notification as read.
func (f *NotificationFeed) MarkAllRead(ctx context.Context) error {
	return f.api.MarkAllRead(ctx)
}

// UnreadCount counts the unread entries in an already-fetched list.
func UnreadCount(notifications []*domain.Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}

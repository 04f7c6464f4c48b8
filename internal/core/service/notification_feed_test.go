package service

import (
	"context"
	"testing"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

type stubNotificationAPI struct {
	notifications []*domain.Notification
	markedRead    []string
	markedAll     bool
}

func (a *stubNotificationAPI) List(_ context.Context) ([]*domain.Notification, error) {
	return a.notifications, nil
}

func (a *stubNotificationAPI) MarkRead(_ context.Context, id string) error {
	a.markedRead = append(a.markedRead, id)
	return nil
}

func (a *stubNotificationAPI) MarkAllRead(_ context.Context) error {
	a.markedAll = true
	return nil
}

func TestNotificationFeed_MarkRead(t *testing.T) {
	api := &stubNotificationAPI{}
	feed := NewNotificationFeed(api, discardLogger)

	if err := feed.MarkRead(context.Background(), "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.markedRead) != 1 || api.markedRead[0] != "n1" {
		t.Errorf("marked = %v", api.markedRead)
	}

	if err := feed.MarkAllRead(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !api.markedAll {
		t.Error("mark-all not forwarded")
	}
}

func TestUnreadCount(t *testing.T) {
	list := []*domain.Notification{
		{ID: "n1", Read: false},
		{ID: "n2", Read: true},
		{ID: "n3", Read: false},
	}
	if got := UnreadCount(list); got != 2 {
		t.Errorf("UnreadCount = %d, want 2", got)
	}
	if got := UnreadCount(nil); got != 0 {
		t.Errorf("UnreadCount(nil) = %d, want 0", got)
	}
}

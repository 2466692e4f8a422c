package notifications

import (
	"context"
	"errors"
	"strings"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Inbox is the persisted per-user notification list. It is independent of the
// Dispatcher: writing here never pushes anything live.
type Inbox struct {
	store StoreAPI
}

func NewInbox(store StoreAPI) *Inbox {
	return &Inbox{store: store}
}

func (i *Inbox) Create(ctx context.Context, userID, kind, title, body string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	return i.store.CreateNotification(ctx, userID, kind, title, body)
}

func (i *Inbox) List(ctx context.Context, userID string, limit, offset int) ([]Entry, error) {
	return i.store.ListNotifications(ctx, userID, limit, offset)
}

func (i *Inbox) Count(ctx context.Context, userID string) (int, error) {
	return i.store.CountNotifications(ctx, userID)
}

func (i *Inbox) MarkRead(ctx context.Context, userID, notificationID string) error {
	updated, err := i.store.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}

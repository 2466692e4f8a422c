package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, userID, kind, title, body string) error
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]Entry, error)
	CountNotifications(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
}

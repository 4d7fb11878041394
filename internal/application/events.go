package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	EventUserCreated        = "user.created"
	EventUserUpdated        = "user.updated"
	EventUserDeleted        = "user.deleted"
	EventCredentialsUpdated = "user.credentials.updated"
)

// UserEvent is the message published after a committed change.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	User       *UserView `json:"user,omitempty"`
	Changes    []string  `json:"changes,omitempty"`
}

// Notifier fans committed changes out to the event broker and the search
// index. Both are best effort: failures are logged, never returned, since the
// write they describe has already been committed. A nil Notifier is a no-op.
type Notifier struct {
	Publisher EventPublisher
	Indexer   UserIndexer
	Logger    *logrus.Logger
}

func NewNotifier(pub EventPublisher, idx UserIndexer, logger *logrus.Logger) *Notifier {
	return &Notifier{Publisher: pub, Indexer: idx, Logger: logger}
}

func (n *Notifier) UserChanged(ctx context.Context, eventType string, v UserView) {
	if n == nil {
		return
	}
	if n.Indexer != nil {
		if err := n.Indexer.IndexUser(ctx, v); err != nil {
			n.warn(err, v.ID, "search index update failed")
		}
	}
	n.publish(ctx, UserEvent{Type: eventType, UserID: v.ID, OccurredAt: v.LastUpdate, User: &v})
}

func (n *Notifier) UserDeleted(ctx context.Context, v UserView, at time.Time) {
	if n == nil {
		return
	}
	if n.Indexer != nil {
		if err := n.Indexer.DeleteUser(ctx, v.ID); err != nil {
			n.warn(err, v.ID, "search index delete failed")
		}
	}
	n.publish(ctx, UserEvent{Type: EventUserDeleted, UserID: v.ID, OccurredAt: at, User: &v})
}

func (n *Notifier) CredentialsChanged(ctx context.Context, userID, field string, at time.Time) {
	if n == nil {
		return
	}
	n.publish(ctx, UserEvent{Type: EventCredentialsUpdated, UserID: userID, OccurredAt: at, Changes: []string{field}})
}

func (n *Notifier) publish(ctx context.Context, ev UserEvent) {
	if n.Publisher == nil {
		return
	}
	if err := n.Publisher.Publish(ctx, ev.Type, ev); err != nil {
		n.warn(err, ev.UserID, "publish "+ev.Type+" failed")
	}
}

func (n *Notifier) warn(err error, userID, msg string) {
	if n.Logger == nil {
		return
	}
	n.Logger.WithError(err).WithField("user_id", userID).Warn(msg)
}

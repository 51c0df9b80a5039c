package services

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/crime-report-api/databases"
	"github.com/linesmerrill/crime-report-api/models"
)

// Pusher delivers a stored notification to the live connections of its user
type Pusher interface {
	Push(userID primitive.ObjectID, n models.Notification)
}

// Mailer sends an html email
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, html string) error
}

// Notifier stores notifications and fans them out to websocket clients and email
type Notifier struct {
	Notifications databases.NotificationDatabase
	Pusher        Pusher
	Mailer        Mailer
}

// NewNotifier creates a new notifier. pusher and mailer may be nil.
func NewNotifier(notifications databases.NotificationDatabase, pusher Pusher, mailer Mailer) *Notifier {
	return &Notifier{Notifications: notifications, Pusher: pusher, Mailer: mailer}
}

// Notify inserts n and pushes it to its user. Only the insert can fail the call.
func (s *Notifier) Notify(ctx context.Context, n models.Notification) error {
	n.IsRead = false
	n.CreatedAt = now()
	id, err := s.Notifications.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	n.ID = id
	if b, ok := ctx.Value(pushBatchKey{}).(*pushBatch); ok {
		b.add(n)
		return nil
	}
	s.push(n)
	return nil
}

// InTransaction runs fn through tx. Pushes for notifications stored inside fn are held
// until tx commits and dropped if it fails. A retried fn starts with an empty batch.
func (s *Notifier) InTransaction(ctx context.Context, tx databases.Transactor, fn func(ctx context.Context) error) error {
	batch := &pushBatch{}
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		batch.reset()
		return fn(context.WithValue(ctx, pushBatchKey{}, batch))
	})
	if err != nil {
		return err
	}
	for _, n := range batch.drain() {
		s.push(n)
	}
	return nil
}

func (s *Notifier) push(n models.Notification) {
	if s.Pusher != nil {
		s.Pusher.Push(n.UserID, n)
	}
}

type pushBatchKey struct{}

type pushBatch struct {
	mu      sync.Mutex
	pending []models.Notification
}

func (b *pushBatch) add(n models.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, n)
}

func (b *pushBatch) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
}

func (b *pushBatch) drain() []models.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.pending
	b.pending = nil
	return pending
}

// Email sends an email when a mailer is configured. Failures are logged, never returned.
func (s *Notifier) Email(ctx context.Context, toEmail, toName, subject, html string) {
	if s.Mailer == nil || toEmail == "" {
		return
	}
	if err := s.Mailer.Send(ctx, toEmail, toName, subject, html); err != nil {
		zap.S().Warnw("failed to send email", "subject", subject, "error", err)
	}
}

// List returns the caller's notifications, newest first
func (s *Notifier) List(ctx context.Context, limit, page int) ([]models.Notification, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	notifications, err := s.Notifications.Find(ctx, bson.M{"user_id": p.ID}, databases.Paginate(limit, page))
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one of the caller's notifications as read
func (s *Notifier) MarkRead(ctx context.Context, notificationID string) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	id, err := parseID(notificationID, models.ErrNotificationNotFound)
	if err != nil {
		return err
	}
	res, err := s.Notifications.UpdateOne(ctx, bson.M{"_id": id, "user_id": p.ID}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}

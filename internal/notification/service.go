package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Notify records a new unread notification.
func (s *Service) Notify(ctx context.Context, kind, title, message, purchaseID string) error {
	n := &Notification{
		ID:         uuid.NewString(),
		Type:       kind,
		Title:      title,
		Message:    message,
		PurchaseID: purchaseID,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// List returns the newest notifications first. limit <= 0 returns all.
func (s *Service) List(ctx context.Context, limit int) ([]*Notification, error) {
	list, err := s.repo.ListNotifications(ctx, limit)
	if err != nil {
		return nil, err
	}

	if list == nil {
		list = []*Notification{}
	}

	return list, nil
}

func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteNotification(ctx, id)
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/MrJamesThe3rd/procurement/internal/database"
	"github.com/MrJamesThe3rd/procurement/internal/notification"
)

type Store struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

func New(db *sql.DB, driver string) *Store {
	return &Store{
		db: db,
		sb: database.Builder(driver),
	}
}

func (s *Store) CreateNotification(ctx context.Context, n *notification.Notification) error {
	query, args, err := s.sb.
		Insert("notifications").
		Columns("id", "type", "title", "message", "purchase_id", "is_read", "created_at").
		Values(n.ID, n.Type, n.Title, n.Message, n.PurchaseID, n.Read, n.CreatedAt.UnixNano()).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

func (s *Store) ListNotifications(ctx context.Context, limit int) ([]*notification.Notification, error) {
	q := s.sb.
		Select("id", "type", "title", "message", "purchase_id", "is_read", "created_at").
		From("notifications").
		OrderBy("created_at DESC", "id")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var list []*notification.Notification

	for rows.Next() {
		var (
			n       notification.Notification
			created int64
		)

		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.PurchaseID, &n.Read, &created); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		n.CreatedAt = time.Unix(0, created).UTC()
		list = append(list, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return list, nil
}

func (s *Store) CountUnread(ctx context.Context) (int, error) {
	query, args, err := s.sb.
		Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}

	return count, nil
}

func (s *Store) MarkRead(ctx context.Context, id string) error {
	query, args, err := s.sb.
		Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	return requireAffected(res)
}

func (s *Store) MarkAllRead(ctx context.Context) error {
	query, args, err := s.sb.
		Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"is_read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}

	return nil
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	query, args, err := s.sb.
		Delete("notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return notification.ErrNotFound
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/MrJamesThe3rd/procurement/internal/database"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

// likeEscaper makes a search term match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// sequenceName keys the per-year purchase counter in the sequences table.
const sequenceName = "purchase"

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

// NextSequence increments the counter for year in a single statement, so
// concurrent creates never observe the same value.
func (s *Store) NextSequence(ctx context.Context, year int) (int, error) {
	query, args, err := s.sb.
		Insert("sequences").
		Columns("name", "year", "value").
		Values(sequenceName, year, 1).
		Suffix("ON CONFLICT (name, year) DO UPDATE SET value = sequences.value + 1 RETURNING value").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building sequence query: %w", err)
	}

	var value int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return 0, fmt.Errorf("incrementing sequence: %w", err)
	}

	return value, nil
}

func (s *Store) CreatePurchase(ctx context.Context, p *purchase.Purchase) error {
	doc, err := json.Marshal(toDocument(p))
	if err != nil {
		return fmt.Errorf("encoding purchase: %w", err)
	}

	query, args, err := s.sb.
		Insert("purchases").
		Columns("id", "pr_no", "title", "purpose", "department", "status", "priority",
			"request_date", "total_amount", "created_at", "document").
		Values(p.ID, p.PRNo, p.Title, p.Purpose, p.Department, string(p.Status), string(p.Priority),
			p.Date, p.TotalAmount.InexactFloat64(), p.CreatedAt.UnixNano(), string(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("creating purchase: %w", err)
	}

	return nil
}

func (s *Store) GetPurchase(ctx context.Context, id string) (*purchase.Purchase, error) {
	query, args, err := s.sb.
		Select("document").
		From("purchases").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	var raw string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, purchase.ErrNotFound
		}

		return nil, fmt.Errorf("getting purchase: %w", err)
	}

	return decode(raw)
}

// ListPurchases returns matching purchases, newest first.
func (s *Store) ListPurchases(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, error) {
	q := s.sb.
		Select("document").
		From("purchases").
		OrderBy("created_at DESC", "id")

	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	if filter.Priority != nil {
		q = q.Where(squirrel.Eq{"priority": string(*filter.Priority)})
	}

	if filter.Department != "" {
		q = q.Where(squirrel.Eq{"department": filter.Department})
	}

	if filter.DateFrom != "" {
		q = q.Where(squirrel.GtOrEq{"request_date": filter.DateFrom})
	}

	if filter.DateTo != "" {
		q = q.Where(squirrel.LtOrEq{"request_date": filter.DateTo})
	}

	if filter.MinAmount != nil {
		q = q.Where(squirrel.GtOrEq{"total_amount": filter.MinAmount.InexactFloat64()})
	}

	if filter.MaxAmount != nil {
		q = q.Where(squirrel.LtOrEq{"total_amount": filter.MaxAmount.InexactFloat64()})
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		q = q.Where(squirrel.Or{
			squirrel.Expr(`LOWER(title) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`LOWER(purpose) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`LOWER(department) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`LOWER(pr_no) LIKE ? ESCAPE '\'`, pattern),
		})
	}

	switch {
	case filter.Limit > 0:
		q = q.Limit(uint64(filter.Limit))
	case filter.Offset > 0:
		// OFFSET without LIMIT is a syntax error in SQLite.
		q = q.Limit(math.MaxInt32)
	}

	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*purchase.Purchase

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}

		p, err := decode(raw)
		if err != nil {
			return nil, err
		}

		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchases: %w", err)
	}

	return purchases, nil
}

// UpdatePurchase replaces the stored document and its projected columns.
func (s *Store) UpdatePurchase(ctx context.Context, p *purchase.Purchase) error {
	doc, err := json.Marshal(toDocument(p))
	if err != nil {
		return fmt.Errorf("encoding purchase: %w", err)
	}

	query, args, err := s.sb.
		Update("purchases").
		Set("title", p.Title).
		Set("purpose", p.Purpose).
		Set("department", p.Department).
		Set("status", string(p.Status)).
		Set("priority", string(p.Priority)).
		Set("request_date", p.Date).
		Set("total_amount", p.TotalAmount.InexactFloat64()).
		Set("document", string(doc)).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating purchase: %w", err)
	}

	return requireAffected(res)
}

func (s *Store) DeletePurchase(ctx context.Context, id string) error {
	query, args, err := s.sb.
		Delete("purchases").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting purchase: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return purchase.ErrNotFound
	}

	return nil
}

func decode(raw string) (*purchase.Purchase, error) {
	var d document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decoding purchase: %w", err)
	}

	return fromDocument(d), nil
}

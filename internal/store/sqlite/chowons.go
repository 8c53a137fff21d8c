package sqlite

import (
	"context"
	"database/sql"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

const chowonColumns = `id, name, leader, sort_order, created_at, updated_at`

func scanChowon(scanner interface{ Scan(dest ...any) error }) (*domain.Chowon, error) {
	var c domain.Chowon

	var (
		leader    sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&c.ID, &c.Name, &leader, &c.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Leader = leader.String

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateChowon inserts a new chowon group.
func (s *Store) CreateChowon(ctx context.Context, c *domain.Chowon) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chowon_lists (`+chowonColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		nullString(c.Leader),
		c.SortOrder,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	return err
}

// GetChowon retrieves a chowon group by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetChowon(ctx context.Context, id string) (*domain.Chowon, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+chowonColumns+` FROM chowon_lists WHERE id = ?`, id)

	c, err := scanChowon(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListChowons returns all chowon groups in their explicit order.
func (s *Store) ListChowons(ctx context.Context) ([]*domain.Chowon, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chowonColumns+` FROM chowon_lists ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chowons []*domain.Chowon
	for rows.Next() {
		c, err := scanChowon(rows)
		if err != nil {
			return nil, err
		}
		chowons = append(chowons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if chowons == nil {
		chowons = []*domain.Chowon{}
	}
	return chowons, nil
}

// UpdateChowon rewrites a chowon group's mutable fields.
func (s *Store) UpdateChowon(ctx context.Context, c *domain.Chowon) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE chowon_lists SET name = ?, leader = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, nullString(c.Leader), c.SortOrder, formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteChowon removes a chowon group. Mokjang entries pointing at it
// keep their chowon_id; the link simply dangles until reassigned.
func (s *Store) DeleteChowon(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chowon_lists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

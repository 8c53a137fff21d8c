package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

const parentListColumns = `id, type, name, sort_order, created_at, updated_at`

func scanParentList(scanner interface{ Scan(dest ...any) error }) (*domain.ParentList, error) {
	var p domain.ParentList

	var createdAt, updatedAt string
	err := scanner.Scan(&p.ID, &p.Type, &p.Name, &p.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

const childListColumns = `id, parent_id, name, sort_order, bg_color, text_color, chowon_id, created_at, updated_at`

func scanChildList(scanner interface{ Scan(dest ...any) error }) (*domain.ChildList, error) {
	var c domain.ChildList

	var (
		bgColor   sql.NullString
		textColor sql.NullString
		chowonID  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&c.ID, &c.ParentID, &c.Name, &c.SortOrder,
		&bgColor, &textColor, &chowonID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.BgColor = bgColor.String
	c.TextColor = textColor.String
	c.ChowonID = chowonID.String

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateParentList inserts a new parent taxonomy.
func (s *Store) CreateParentList(ctx context.Context, p *domain.ParentList) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parent_lists (`+parentListColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Type,
		p.Name,
		p.SortOrder,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	return err
}

// GetParentList retrieves a parent taxonomy by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetParentList(ctx context.Context, id string) (*domain.ParentList, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+parentListColumns+` FROM parent_lists WHERE id = ?`, id)

	p, err := scanParentList(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListParentLists returns all parent taxonomies in their explicit order.
func (s *Store) ListParentLists(ctx context.Context) ([]*domain.ParentList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+parentListColumns+` FROM parent_lists ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parents []*domain.ParentList
	for rows.Next() {
		p, err := scanParentList(rows)
		if err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if parents == nil {
		parents = []*domain.ParentList{}
	}
	return parents, nil
}

// UpdateParentList rewrites a parent taxonomy's mutable fields.
func (s *Store) UpdateParentList(ctx context.Context, p *domain.ParentList) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE parent_lists SET type = ?, name = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		p.Type, p.Name, p.SortOrder, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteParentList removes a parent taxonomy. Its children go with it
// via the foreign key cascade.
func (s *Store) DeleteParentList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM parent_lists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// CreateChildList inserts a new child entry under a parent taxonomy.
func (s *Store) CreateChildList(ctx context.Context, c *domain.ChildList) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO child_lists (`+childListColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.ParentID,
		c.Name,
		c.SortOrder,
		nullString(c.BgColor),
		nullString(c.TextColor),
		nullString(c.ChowonID),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	return err
}

// GetChildList retrieves a child entry by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetChildList(ctx context.Context, id string) (*domain.ChildList, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+childListColumns+` FROM child_lists WHERE id = ?`, id)

	c, err := scanChildList(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListChildLists returns all child entries in their explicit order.
func (s *Store) ListChildLists(ctx context.Context) ([]*domain.ChildList, error) {
	return s.queryChildLists(ctx,
		`SELECT `+childListColumns+` FROM child_lists ORDER BY sort_order ASC, name ASC`)
}

// ListChildrenByParent returns the child entries of one parent in
// their explicit order.
func (s *Store) ListChildrenByParent(ctx context.Context, parentID string) ([]*domain.ChildList, error) {
	return s.queryChildLists(ctx,
		`SELECT `+childListColumns+` FROM child_lists WHERE parent_id = ? ORDER BY sort_order ASC, name ASC`,
		parentID)
}

func (s *Store) queryChildLists(ctx context.Context, query string, args ...any) ([]*domain.ChildList, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []*domain.ChildList
	for rows.Next() {
		c, err := scanChildList(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if children == nil {
		children = []*domain.ChildList{}
	}
	return children, nil
}

// UpdateChildList rewrites a child entry's mutable fields.
func (s *Store) UpdateChildList(ctx context.Context, c *domain.ChildList) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE child_lists SET parent_id = ?, name = ?, sort_order = ?,
			bg_color = ?, text_color = ?, chowon_id = ?, updated_at = ?
		WHERE id = ?`,
		c.ParentID,
		c.Name,
		c.SortOrder,
		nullString(c.BgColor),
		nullString(c.TextColor),
		nullString(c.ChowonID),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateChildChowon sets only the chowon link, for assignment drops.
func (s *Store) UpdateChildChowon(ctx context.Context, childID, chowonID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE child_lists SET chowon_id = ?, updated_at = ? WHERE id = ?`,
		nullString(chowonID), formatTime(time.Now()), childID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ReorderChildLists rewrites the sort_order of a parent's children to
// match the given ID sequence, in a single transaction.
func (s *Store) ReorderChildLists(ctx context.Context, parentID string, orderedIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	for i, childID := range orderedIDs {
		res, err := tx.ExecContext(ctx, `
			UPDATE child_lists SET sort_order = ?, updated_at = ?
			WHERE id = ? AND parent_id = ?`,
			i, now, childID, parentID)
		if err != nil {
			return fmt.Errorf("update sort_order: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrInvalidInput.WithMessage(
				fmt.Sprintf("child %q does not belong to parent %q", childID, parentID))
		}
	}

	return tx.Commit()
}

// DeleteChildList removes a single child entry.
func (s *Store) DeleteChildList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM child_lists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteChildrenByParent removes every child under a parent taxonomy.
func (s *Store) DeleteChildrenByParent(ctx context.Context, parentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM child_lists WHERE parent_id = ?`, parentID)
	return err
}

package sqlite

import (
	"context"
	"database/sql"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

const roleColumns = `id, name, bg_color, text_color, sort_order, created_at, updated_at`

func scanRole(scanner interface{ Scan(dest ...any) error }) (*domain.Role, error) {
	var r domain.Role

	var (
		bgColor   sql.NullString
		textColor sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&r.ID, &r.Name, &bgColor, &textColor, &r.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.BgColor = bgColor.String
	r.TextColor = textColor.String

	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRole inserts a new role.
func (s *Store) CreateRole(ctx context.Context, r *domain.Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roles (`+roleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Name,
		nullString(r.BgColor),
		nullString(r.TextColor),
		r.SortOrder,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	return err
}

// GetRole retrieves a role by ID.
// Returns store.ErrNotFound if the role does not exist.
func (s *Store) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)

	r, err := scanRole(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRoles returns all roles in their explicit order.
func (s *Store) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if roles == nil {
		roles = []*domain.Role{}
	}
	return roles, nil
}

// UpdateRole rewrites a role's mutable fields.
func (s *Store) UpdateRole(ctx context.Context, r *domain.Role) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE roles SET name = ?, bg_color = ?, text_color = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		r.Name,
		nullString(r.BgColor),
		nullString(r.TextColor),
		r.SortOrder,
		formatTime(r.UpdatedAt),
		r.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteRole removes a role.
func (s *Store) DeleteRole(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

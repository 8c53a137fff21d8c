package sqlite

import (
	"context"
	"database/sql"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

const familyColumns = `id, name, created_at, updated_at`

func scanFamily(scanner interface{ Scan(dest ...any) error }) (*domain.Family, error) {
	var f domain.Family

	var (
		name      sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&f.ID, &name, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	f.Name = name.String

	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFamily inserts a new family.
func (s *Store) CreateFamily(ctx context.Context, f *domain.Family) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO families (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		f.ID,
		nullString(f.Name),
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	return err
}

// GetFamily retrieves a family by ID.
// Returns store.ErrNotFound if the family does not exist.
func (s *Store) GetFamily(ctx context.Context, id string) (*domain.Family, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+familyColumns+` FROM families WHERE id = ?`, id)

	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFamilies returns all families ordered by name.
func (s *Store) ListFamilies(ctx context.Context) ([]*domain.Family, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+familyColumns+` FROM families ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var families []*domain.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if families == nil {
		families = []*domain.Family{}
	}
	return families, nil
}

// UpdateFamily rewrites a family's name.
func (s *Store) UpdateFamily(ctx context.Context, f *domain.Family) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE families SET name = ?, updated_at = ? WHERE id = ?`,
		nullString(f.Name), formatTime(f.UpdatedAt), f.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteFamily removes a family row. Members keep their family_id;
// the label simply falls back once the row is gone.
func (s *Store) DeleteFamily(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

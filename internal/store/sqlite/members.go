package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// memberColumns is the ordered list of columns selected in member
// queries. Must match the scan order in scanMember.
const memberColumns = `id, family_id, korean_name, english_name, gender, birthday,
	phone, email, address, relationship, role, mokjang, registration_date,
	baptized, baptism_date, status, offering_number, slip_reference,
	tags, memo, photo_path, photo_blurhash, created_at, updated_at`

// scanMember scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Member.
func scanMember(scanner interface{ Scan(dest ...any) error }) (*domain.Member, error) {
	var m domain.Member

	var (
		familyID       sql.NullString
		englishName    sql.NullString
		gender         sql.NullString
		birthday       sql.NullString
		phone          sql.NullString
		email          sql.NullString
		address        sql.NullString
		relationship   sql.NullString
		role           sql.NullString
		mokjang        sql.NullString
		registration   sql.NullString
		baptized       int
		baptismDate    sql.NullString
		status         sql.NullString
		offeringNumber sql.NullString
		slipReference  sql.NullString
		tagsJSON       string
		photoPath      sql.NullString
		photoBlurHash  sql.NullString
		createdAt      string
		updatedAt      string
	)

	err := scanner.Scan(
		&m.ID,
		&familyID,
		&m.KoreanName,
		&englishName,
		&gender,
		&birthday,
		&phone,
		&email,
		&address,
		&relationship,
		&role,
		&mokjang,
		&registration,
		&baptized,
		&baptismDate,
		&status,
		&offeringNumber,
		&slipReference,
		&tagsJSON,
		&m.Memo,
		&photoPath,
		&photoBlurHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.FamilyID = familyID.String
	m.EnglishName = englishName.String
	m.Gender = domain.Gender(gender.String)
	m.Phone = phone.String
	m.Email = email.String
	m.Address = address.String
	m.Relationship = relationship.String
	m.Role = role.String
	m.Mokjang = mokjang.String
	m.Baptized = baptized != 0
	m.Status = status.String
	m.OfferingNumber = offeringNumber.String
	m.SlipReference = slipReference.String
	m.PhotoPath = photoPath.String
	m.PhotoBlurHash = photoBlurHash.String

	if m.Birthday, err = parseNullableTime(birthday); err != nil {
		return nil, err
	}
	if m.RegistrationDate, err = parseNullableTime(registration); err != nil {
		return nil, err
	}
	if m.BaptismDate, err = parseNullableTime(baptismDate); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &m.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}

	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

// CreateMember inserts a new member into the database.
func (s *Store) CreateMember(ctx context.Context, m *domain.Member) error {
	tags, err := marshalTags(m.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO members (`+memberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		nullString(m.FamilyID),
		m.KoreanName,
		nullString(m.EnglishName),
		nullString(string(m.Gender)),
		nullTimeString(m.Birthday),
		nullString(m.Phone),
		nullString(m.Email),
		nullString(m.Address),
		nullString(m.Relationship),
		nullString(m.Role),
		nullString(m.Mokjang),
		nullTimeString(m.RegistrationDate),
		boolToInt(m.Baptized),
		nullTimeString(m.BaptismDate),
		nullString(m.Status),
		nullString(m.OfferingNumber),
		nullString(m.SlipReference),
		tags,
		m.Memo,
		nullString(m.PhotoPath),
		nullString(m.PhotoBlurHash),
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
	)
	return err
}

// GetMember retrieves a member by ID.
// Returns store.ErrNotFound if the member does not exist.
func (s *Store) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)

	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMembers returns all members ordered by Korean name.
func (s *Store) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY korean_name ASC, id ASC`)
}

// ListMembersByFamily returns all members of one family.
func (s *Store) ListMembersByFamily(ctx context.Context, familyID string) ([]*domain.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM members WHERE family_id = ? ORDER BY korean_name ASC, id ASC`,
		familyID)
}

func (s *Store) queryMembers(ctx context.Context, query string, args ...any) ([]*domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if members == nil {
		members = []*domain.Member{}
	}
	return members, nil
}

// UpdateMember rewrites all mutable member fields.
// Returns store.ErrNotFound if the member does not exist.
func (s *Store) UpdateMember(ctx context.Context, m *domain.Member) error {
	tags, err := marshalTags(m.Tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE members SET
			family_id = ?, korean_name = ?, english_name = ?, gender = ?,
			birthday = ?, phone = ?, email = ?, address = ?, relationship = ?,
			role = ?, mokjang = ?, registration_date = ?, baptized = ?,
			baptism_date = ?, status = ?, offering_number = ?, slip_reference = ?,
			tags = ?, memo = ?, photo_path = ?, photo_blurhash = ?, updated_at = ?
		WHERE id = ?`,
		nullString(m.FamilyID),
		m.KoreanName,
		nullString(m.EnglishName),
		nullString(string(m.Gender)),
		nullTimeString(m.Birthday),
		nullString(m.Phone),
		nullString(m.Email),
		nullString(m.Address),
		nullString(m.Relationship),
		nullString(m.Role),
		nullString(m.Mokjang),
		nullTimeString(m.RegistrationDate),
		boolToInt(m.Baptized),
		nullTimeString(m.BaptismDate),
		nullString(m.Status),
		nullString(m.OfferingNumber),
		nullString(m.SlipReference),
		tags,
		m.Memo,
		nullString(m.PhotoPath),
		nullString(m.PhotoBlurHash),
		formatTime(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateMemberMokjang sets only the mokjang field, for assignment drops.
func (s *Store) UpdateMemberMokjang(ctx context.Context, id, mokjang string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET mokjang = ?, updated_at = ? WHERE id = ?`,
		nullString(mokjang), formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateMemberMemo rewrites the whole memo blob.
func (s *Store) UpdateMemberMemo(ctx context.Context, id, memo string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET memo = ?, updated_at = ? WHERE id = ?`,
		memo, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateMemberTags replaces the member's tag set.
func (s *Store) UpdateMemberTags(ctx context.Context, id string, tags []string) error {
	encoded, err := marshalTags(tags)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET tags = ?, updated_at = ? WHERE id = ?`,
		encoded, formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateMemberPhoto sets the photo path and BlurHash placeholder.
func (s *Store) UpdateMemberPhoto(ctx context.Context, id, photoPath, blurHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET photo_path = ?, photo_blurhash = ?, updated_at = ? WHERE id = ?`,
		nullString(photoPath), nullString(blurHash), formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteMember removes a member.
// Returns store.ErrNotFound if the member does not exist.
func (s *Store) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// requireRow converts a zero-row result into store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

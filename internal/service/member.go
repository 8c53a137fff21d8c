// Package service holds the business logic between the HTTP API and
// the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	domainerrors "github.com/mokjangapp/mokjang-server/internal/errors"
	"github.com/mokjangapp/mokjang-server/internal/id"
	"github.com/mokjangapp/mokjang-server/internal/normalize"
	"github.com/mokjangapp/mokjang-server/internal/store"
	"github.com/mokjangapp/mokjang-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()

// MemberService orchestrates member CRUD and the write-time
// conventions (required Korean name, one head per family, tag
// de-duplication).
type MemberService struct {
	store  store.Store
	logger *slog.Logger
}

// NewMemberService creates a new member service.
func NewMemberService(st store.Store, logger *slog.Logger) *MemberService {
	return &MemberService{store: st, logger: logger}
}

// CreateMemberRequest contains the member registration form fields.
// Exactly one of FamilyID and NewFamilyName may be set; both empty
// creates a member with no family.
type CreateMemberRequest struct {
	FamilyID      string `json:"family_id,omitempty"`
	NewFamilyName string `json:"new_family_name,omitempty"`

	KoreanName       string   `json:"korean_name" validate:"required"`
	EnglishName      string   `json:"english_name,omitempty"`
	Gender           string   `json:"gender,omitempty" validate:"omitempty,oneof=Male Female"`
	Birthday         string   `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone            string   `json:"phone,omitempty"`
	Email            string   `json:"email,omitempty" validate:"omitempty,email"`
	Address          string   `json:"address,omitempty"`
	Relationship     string   `json:"relationship,omitempty"`
	Role             string   `json:"role,omitempty"`
	Mokjang          string   `json:"mokjang,omitempty"`
	RegistrationDate string   `json:"registration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Baptized         bool     `json:"baptized,omitempty"`
	BaptismDate      string   `json:"baptism_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status           string   `json:"status,omitempty"`
	OfferingNumber   string   `json:"offering_number,omitempty"`
	SlipReference    string   `json:"slip_reference,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Memo             string   `json:"memo,omitempty"`
}

// UpdateMemberRequest carries a partial member update. Nil fields are
// left unchanged.
type UpdateMemberRequest struct {
	FamilyID         *string   `json:"family_id,omitempty"`
	KoreanName       *string   `json:"korean_name,omitempty"`
	EnglishName      *string   `json:"english_name,omitempty"`
	Gender           *string   `json:"gender,omitempty"`
	Birthday         *string   `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone            *string   `json:"phone,omitempty"`
	Email            *string   `json:"email,omitempty"`
	Address          *string   `json:"address,omitempty"`
	Relationship     *string   `json:"relationship,omitempty"`
	Role             *string   `json:"role,omitempty"`
	Mokjang          *string   `json:"mokjang,omitempty"`
	RegistrationDate *string   `json:"registration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Baptized         *bool     `json:"baptized,omitempty"`
	BaptismDate      *string   `json:"baptism_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status           *string   `json:"status,omitempty"`
	OfferingNumber   *string   `json:"offering_number,omitempty"`
	SlipReference    *string   `json:"slip_reference,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
}

// CreateMember registers a new member, creating a new family row
// first when NewFamilyName is set.
func (s *MemberService) CreateMember(ctx context.Context, req CreateMemberRequest) (*domain.Member, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.KoreanName) == "" {
		return nil, domainerrors.Validation("korean_name is required")
	}
	if req.FamilyID != "" && req.NewFamilyName != "" {
		return nil, domainerrors.Validation("family_id and new_family_name are mutually exclusive")
	}

	familyID := req.FamilyID
	if req.NewFamilyName != "" {
		family, err := s.createFamily(ctx, req.NewFamilyName)
		if err != nil {
			return nil, err
		}
		familyID = family.ID
	} else if familyID != "" {
		if _, err := s.store.GetFamily(ctx, familyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFoundf("family %q not found", familyID)
			}
			return nil, fmt.Errorf("lookup family: %w", err)
		}
	}

	if err := s.checkDuplicateHead(ctx, familyID, req.Relationship, ""); err != nil {
		return nil, err
	}

	memberID, err := id.Generate("mem")
	if err != nil {
		return nil, fmt.Errorf("generate member ID: %w", err)
	}

	now := time.Now()
	member := &domain.Member{
		ID:               memberID,
		FamilyID:         familyID,
		KoreanName:       strings.TrimSpace(req.KoreanName),
		EnglishName:      req.EnglishName,
		Gender:           domain.Gender(req.Gender),
		Birthday:         parseDate(req.Birthday),
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		Relationship:     req.Relationship,
		Role:             req.Role,
		Mokjang:          req.Mokjang,
		RegistrationDate: parseDate(req.RegistrationDate),
		Baptized:         req.Baptized,
		BaptismDate:      parseDate(req.BaptismDate),
		Status:           defaultStatus(req.Status),
		OfferingNumber:   req.OfferingNumber,
		SlipReference:    req.SlipReference,
		Tags:             dedupeTags(req.Tags),
		Memo:             req.Memo,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.CreateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	s.logger.Info("member created",
		"member_id", member.ID,
		"family_id", member.FamilyID,
	)
	return member, nil
}

// ImportMembers ingests raw backend rows. Each row passes through the
// normalizer, so loosely-typed exports (numeric IDs, null tags,
// stringly-typed booleans) land as canonical members; rows without an
// ID get a fresh one. Normalization is total, so a malformed row
// produces a visibly-broken member rather than failing the batch.
func (s *MemberService) ImportMembers(ctx context.Context, rows []map[string]any) ([]*domain.Member, error) {
	now := time.Now()
	imported := make([]*domain.Member, 0, len(rows))
	for i, raw := range rows {
		m := normalize.Member(raw)
		if m.ID == "" {
			memberID, err := id.Generate("mem")
			if err != nil {
				return nil, fmt.Errorf("generate member ID: %w", err)
			}
			m.ID = memberID
		}
		m.Status = defaultStatus(m.Status)
		m.Tags = dedupeTags(m.Tags)
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = now
		}
		if err := s.store.CreateMember(ctx, m); err != nil {
			return nil, fmt.Errorf("import row %d: %w", i, err)
		}
		imported = append(imported, m)
	}

	s.logger.Info("members imported", "count", len(imported))
	return imported, nil
}

// GetMember returns one member.
func (s *MemberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	m, err := s.store.GetMember(ctx, memberID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("member %q not found", memberID)
	}
	return m, err
}

// ListMembers returns the full collection.
func (s *MemberService) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.store.ListMembers(ctx)
}

// UpdateMember applies a partial update to a member.
func (s *MemberService) UpdateMember(ctx context.Context, memberID string, req UpdateMemberRequest) (*domain.Member, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if req.KoreanName != nil {
		if strings.TrimSpace(*req.KoreanName) == "" {
			return nil, domainerrors.Validation("korean_name cannot be cleared")
		}
		member.KoreanName = strings.TrimSpace(*req.KoreanName)
	}
	if req.FamilyID != nil {
		member.FamilyID = *req.FamilyID
	}
	if req.EnglishName != nil {
		member.EnglishName = *req.EnglishName
	}
	if req.Gender != nil {
		member.Gender = domain.Gender(*req.Gender)
	}
	if req.Birthday != nil {
		member.Birthday = parseDate(*req.Birthday)
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Address != nil {
		member.Address = *req.Address
	}
	if req.Relationship != nil {
		member.Relationship = *req.Relationship
	}
	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.Mokjang != nil {
		member.Mokjang = *req.Mokjang
	}
	if req.RegistrationDate != nil {
		member.RegistrationDate = parseDate(*req.RegistrationDate)
	}
	if req.Baptized != nil {
		member.Baptized = *req.Baptized
	}
	if req.BaptismDate != nil {
		member.BaptismDate = parseDate(*req.BaptismDate)
	}
	if req.Status != nil {
		member.Status = *req.Status
	}
	if req.OfferingNumber != nil {
		member.OfferingNumber = *req.OfferingNumber
	}
	if req.SlipReference != nil {
		member.SlipReference = *req.SlipReference
	}
	if req.Tags != nil {
		member.Tags = dedupeTags(*req.Tags)
	}

	if err := s.checkDuplicateHead(ctx, member.FamilyID, member.Relationship, member.ID); err != nil {
		return nil, err
	}

	member.UpdatedAt = time.Now()
	if err := s.store.UpdateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return member, nil
}

// SetTags replaces a member's tag set, de-duplicated.
func (s *MemberService) SetTags(ctx context.Context, memberID string, tags []string) (*domain.Member, error) {
	deduped := dedupeTags(tags)
	if err := s.store.UpdateMemberTags(ctx, memberID, deduped); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("member %q not found", memberID)
		}
		return nil, fmt.Errorf("update tags: %w", err)
	}
	return s.GetMember(ctx, memberID)
}

// DeleteMember removes a member.
func (s *MemberService) DeleteMember(ctx context.Context, memberID string) error {
	if err := s.store.DeleteMember(ctx, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("member %q not found", memberID)
		}
		return fmt.Errorf("delete member: %w", err)
	}
	s.logger.Info("member deleted", "member_id", memberID)
	return nil
}

// checkDuplicateHead enforces the one-head-per-family convention at
// write time. excludeID skips the member being updated.
func (s *MemberService) checkDuplicateHead(ctx context.Context, familyID, relationship, excludeID string) error {
	if familyID == "" {
		return nil
	}
	rel := strings.ToLower(strings.TrimSpace(relationship))
	if rel != "head" && rel != "self" {
		return nil
	}

	members, err := s.store.ListMembersByFamily(ctx, familyID)
	if err != nil {
		return fmt.Errorf("list family members: %w", err)
	}
	for _, m := range members {
		if m.ID != excludeID && m.IsHead() {
			return domainerrors.Conflictf("family already has a head: %s", m.KoreanName)
		}
	}
	return nil
}

func (s *MemberService) createFamily(ctx context.Context, name string) (*domain.Family, error) {
	familyID, err := id.Generate("fam")
	if err != nil {
		return nil, fmt.Errorf("generate family ID: %w", err)
	}
	now := time.Now()
	family := &domain.Family{
		ID:        familyID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("create family: %w", err)
	}
	return family, nil
}

// dedupeTags removes duplicates case-insensitively, preserving the
// first occurrence and its original casing.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func defaultStatus(status string) string {
	if strings.TrimSpace(status) == "" {
		return domain.StatusActive
	}
	return status
}

// parseDate parses an ISO date, returning nil for empty or malformed
// input. Validation runs before this, so malformed here means the
// field was optional and blank-ish.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

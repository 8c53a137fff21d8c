package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mokjangapp/mokjang-server/internal/domain"
	"github.com/mokjangapp/mokjang-server/internal/memolog"
	"github.com/mokjangapp/mokjang-server/internal/roster"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

func (s *Server) registerMemberRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/members",
		Summary:     "List members",
		Description: "Returns all members unfiltered",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "createMember",
		Method:      http.MethodPost,
		Path:        "/api/v1/members",
		Summary:     "Create member",
		Description: "Registers a new member, optionally creating a new family",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "importMembers",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/import",
		Summary:     "Import members",
		Description: "Ingests raw backend rows, normalizing loosely-typed fields",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMember",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}",
		Summary:     "Get member",
		Description: "Returns a member by ID with derived age and tenure",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMember",
		Method:      http.MethodPatch,
		Path:        "/api/v1/members/{id}",
		Summary:     "Update member",
		Description: "Partially updates a member; omitted fields are unchanged",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMember",
		Method:      http.MethodDelete,
		Path:        "/api/v1/members/{id}",
		Summary:     "Delete member",
		Description: "Permanently removes a member",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "setMemberTags",
		Method:      http.MethodPut,
		Path:        "/api/v1/members/{id}/tags",
		Summary:     "Set member tags",
		Description: "Replaces a member's tags, de-duplicated case-insensitively",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetMemberTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMemberMemos",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/memos",
		Summary:     "List memo entries",
		Description: "Returns the member's memo log, newest first",
		Tags:        []string{"Memos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMemberMemos)

	huma.Register(s.api, huma.Operation{
		OperationID: "addMemberMemo",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/{id}/memos",
		Summary:     "Add memo entry",
		Description: "Prepends a timestamped memo entry",
		Tags:        []string{"Memos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddMemberMemo)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMemberMemo",
		Method:      http.MethodPatch,
		Path:        "/api/v1/members/{id}/memos/{index}",
		Summary:     "Update memo entry",
		Description: "Rewrites one memo entry's content, keeping its timestamp",
		Tags:        []string{"Memos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMemberMemo)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMemberMemo",
		Method:      http.MethodDelete,
		Path:        "/api/v1/members/{id}/memos/{index}",
		Summary:     "Delete memo entry",
		Description: "Removes one memo entry",
		Tags:        []string{"Memos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMemberMemo)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadMemberPhoto",
		Method:      http.MethodPut,
		Path:        "/api/v1/members/{id}/photo",
		Summary:     "Upload member photo",
		Description: "Stores a profile photo and its blurhash placeholder",
		Tags:        []string{"Photos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadMemberPhoto)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMemberPhoto",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/photo",
		Summary:     "Get member photo",
		Description: "Returns the raw photo bytes with an ETag",
		Tags:        []string{"Photos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMemberPhoto)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMemberPhoto",
		Method:      http.MethodDelete,
		Path:        "/api/v1/members/{id}/photo",
		Summary:     "Delete member photo",
		Description: "Removes the member's photo",
		Tags:        []string{"Photos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMemberPhoto)
}

// === DTOs ===

// TenureResponse is the derived membership tenure.
type TenureResponse struct {
	Years  int `json:"years" doc:"Whole years since registration"`
	Months int `json:"months" doc:"Remaining whole months"`
}

// MemberResponse contains member data plus derived fields.
type MemberResponse struct {
	ID               string          `json:"id" doc:"Member ID"`
	FamilyID         string          `json:"family_id,omitempty" doc:"Family ID, empty when ungrouped"`
	KoreanName       string          `json:"korean_name" doc:"Korean name"`
	EnglishName      string          `json:"english_name,omitempty" doc:"English name"`
	Gender           string          `json:"gender,omitempty" doc:"Gender (Male/Female)"`
	Birthday         *time.Time      `json:"birthday,omitempty" doc:"Date of birth"`
	Age              *int            `json:"age,omitempty" doc:"Derived age in years"`
	Phone            string          `json:"phone,omitempty" doc:"Phone number"`
	Email            string          `json:"email,omitempty" doc:"Email address"`
	Address          string          `json:"address,omitempty" doc:"Home address"`
	Relationship     string          `json:"relationship,omitempty" doc:"Relationship within the family"`
	Role             string          `json:"role,omitempty" doc:"Church role name"`
	Mokjang          string          `json:"mokjang,omitempty" doc:"Mokjang (cell group) name"`
	RegistrationDate *time.Time      `json:"registration_date,omitempty" doc:"Registration date"`
	Tenure           *TenureResponse `json:"tenure,omitempty" doc:"Derived membership tenure"`
	Baptized         bool            `json:"baptized" doc:"Whether baptized"`
	BaptismDate      *time.Time      `json:"baptism_date,omitempty" doc:"Baptism date"`
	Status           string          `json:"status,omitempty" doc:"Membership status"`
	OfferingNumber   string          `json:"offering_number,omitempty" doc:"Offering envelope number"`
	SlipReference    string          `json:"slip_reference,omitempty" doc:"Registration slip reference"`
	Tags             []string        `json:"tags" doc:"Member tags"`
	PhotoPath        string          `json:"photo_path,omitempty" doc:"Photo storage key"`
	PhotoBlurHash    string          `json:"photo_blurhash,omitempty" doc:"Blurhash placeholder"`
	CreatedAt        time.Time       `json:"created_at" doc:"Creation time"`
	UpdatedAt        time.Time       `json:"updated_at" doc:"Last update time"`
}

// ListMembersInput contains parameters for listing members.
type ListMembersInput struct {
	Authorization string `header:"Authorization"`
}

// ListMembersResponse contains a list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members" doc:"List of members"`
}

// ListMembersOutput wraps the list members response for Huma.
type ListMembersOutput struct {
	Body ListMembersResponse
}

// CreateMemberInput wraps the create member request for Huma.
type CreateMemberInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateMemberRequest
}

// MemberOutput wraps a single member response for Huma.
type MemberOutput struct {
	Body MemberResponse
}

// ImportMembersRequest carries raw rows from a legacy backend export.
type ImportMembersRequest struct {
	Rows []map[string]any `json:"rows" validate:"required" doc:"Raw member rows, loosely typed"`
}

// ImportMembersInput wraps the import request for Huma.
type ImportMembersInput struct {
	Authorization string `header:"Authorization"`
	Body          ImportMembersRequest
}

// ImportMembersResponse reports the import outcome.
type ImportMembersResponse struct {
	Imported int              `json:"imported" doc:"Number of rows persisted"`
	Members  []MemberResponse `json:"members" doc:"Imported members after normalization"`
}

// ImportMembersOutput wraps the import response for Huma.
type ImportMembersOutput struct {
	Body ImportMembersResponse
}

// GetMemberInput contains parameters for getting a member.
type GetMemberInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
}

// UpdateMemberInput wraps the update member request for Huma.
type UpdateMemberInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
	Body          service.UpdateMemberRequest
}

// SetMemberTagsRequest is the request body for replacing tags.
type SetMemberTagsRequest struct {
	Tags []string `json:"tags" doc:"Replacement tag list"`
}

// SetMemberTagsInput wraps the set tags request for Huma.
type SetMemberTagsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
	Body          SetMemberTagsRequest
}

// MemoEntryResponse is one parsed memo entry.
type MemoEntryResponse struct {
	Timestamp string `json:"timestamp,omitempty" doc:"Entry timestamp, empty for legacy entries"`
	Content   string `json:"content" doc:"Entry text"`
}

// MemoListResponse contains a member's memo entries, newest first.
type MemoListResponse struct {
	Entries []MemoEntryResponse `json:"entries" doc:"Memo entries"`
}

// MemoListOutput wraps the memo list response for Huma.
type MemoListOutput struct {
	Body MemoListResponse
}

// MemoEntryInput identifies a member for memo listing.
type MemoEntryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
}

// AddMemoRequest is the request body for adding a memo entry.
type AddMemoRequest struct {
	Content string `json:"content" validate:"required" doc:"Entry text"`
}

// AddMemoInput wraps the add memo request for Huma.
type AddMemoInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
	Body          AddMemoRequest
}

// UpdateMemoInput wraps the update memo request for Huma.
type UpdateMemoInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
	Index         int    `path:"index" doc:"Entry index, newest first"`
	Body          AddMemoRequest
}

// DeleteMemoInput identifies one memo entry.
type DeleteMemoInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
	Index         int    `path:"index" doc:"Entry index, newest first"`
}

// UploadPhotoInput wraps a raw photo upload for Huma.
type UploadPhotoInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
	RawBody       []byte `contentType:"application/octet-stream"`
}

// PhotoResponse describes a stored photo.
type PhotoResponse struct {
	Key      string `json:"key" doc:"Photo storage key"`
	BlurHash string `json:"blurhash" doc:"Blurhash placeholder"`
	ETag     string `json:"etag" doc:"Content hash"`
}

// PhotoOutput wraps the photo response for Huma.
type PhotoOutput struct {
	Body PhotoResponse
}

// GetPhotoInput identifies a member photo.
type GetPhotoInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Member ID"`
}

// GetPhotoOutput returns raw image bytes.
type GetPhotoOutput struct {
	ContentType string `header:"Content-Type"`
	ETag        string `header:"ETag"`
	Body        []byte
}

// === Handlers ===

func (s *Server) handleListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	members, err := s.services.Member.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	resp := make([]MemberResponse, len(members))
	for i, m := range members {
		resp[i] = mapMemberResponse(m, today)
	}

	return &ListMembersOutput{Body: ListMembersResponse{Members: resp}}, nil
}

func (s *Server) handleCreateMember(ctx context.Context, input *CreateMemberInput) (*MemberOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	m, err := s.services.Member.CreateMember(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &MemberOutput{Body: mapMemberResponse(m, time.Now())}, nil
}

func (s *Server) handleImportMembers(ctx context.Context, input *ImportMembersInput) (*ImportMembersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	members, err := s.services.Member.ImportMembers(ctx, input.Body.Rows)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	resp := make([]MemberResponse, len(members))
	for i, m := range members {
		resp[i] = mapMemberResponse(m, today)
	}

	return &ImportMembersOutput{Body: ImportMembersResponse{
		Imported: len(resp),
		Members:  resp,
	}}, nil
}

func (s *Server) handleGetMember(ctx context.Context, input *GetMemberInput) (*MemberOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	m, err := s.services.Member.GetMember(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &MemberOutput{Body: mapMemberResponse(m, time.Now())}, nil
}

func (s *Server) handleUpdateMember(ctx context.Context, input *UpdateMemberInput) (*MemberOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	m, err := s.services.Member.UpdateMember(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &MemberOutput{Body: mapMemberResponse(m, time.Now())}, nil
}

func (s *Server) handleDeleteMember(ctx context.Context, input *GetMemberInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Member.DeleteMember(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Member deleted"}}, nil
}

func (s *Server) handleSetMemberTags(ctx context.Context, input *SetMemberTagsInput) (*MemberOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	m, err := s.services.Member.SetTags(ctx, input.ID, input.Body.Tags)
	if err != nil {
		return nil, err
	}

	return &MemberOutput{Body: mapMemberResponse(m, time.Now())}, nil
}

func (s *Server) handleListMemberMemos(ctx context.Context, input *MemoEntryInput) (*MemoListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	entries, err := s.services.Memo.ListEntries(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &MemoListOutput{Body: MemoListResponse{Entries: mapMemoEntries(entries)}}, nil
}

func (s *Server) handleAddMemberMemo(ctx context.Context, input *AddMemoInput) (*MemoListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	entries, err := s.services.Memo.AddEntry(ctx, input.ID, input.Body.Content)
	if err != nil {
		return nil, err
	}

	return &MemoListOutput{Body: MemoListResponse{Entries: mapMemoEntries(entries)}}, nil
}

func (s *Server) handleUpdateMemberMemo(ctx context.Context, input *UpdateMemoInput) (*MemoListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	entries, err := s.services.Memo.UpdateEntry(ctx, input.ID, input.Index, input.Body.Content)
	if err != nil {
		return nil, err
	}

	return &MemoListOutput{Body: MemoListResponse{Entries: mapMemoEntries(entries)}}, nil
}

func (s *Server) handleDeleteMemberMemo(ctx context.Context, input *DeleteMemoInput) (*MemoListOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	entries, err := s.services.Memo.RemoveEntry(ctx, input.ID, input.Index)
	if err != nil {
		return nil, err
	}

	return &MemoListOutput{Body: MemoListResponse{Entries: mapMemoEntries(entries)}}, nil
}

func (s *Server) handleUploadMemberPhoto(ctx context.Context, input *UploadPhotoInput) (*PhotoOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Photo.Upload(ctx, input.ID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &PhotoOutput{Body: PhotoResponse{
		Key:      result.Key,
		BlurHash: result.BlurHash,
		ETag:     result.ETag,
	}}, nil
}

func (s *Server) handleGetMemberPhoto(ctx context.Context, input *GetPhotoInput) (*GetPhotoOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	data, etag, err := s.services.Photo.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetPhotoOutput{
		ContentType: "image/jpeg",
		ETag:        etag,
		Body:        data,
	}, nil
}

func (s *Server) handleDeleteMemberPhoto(ctx context.Context, input *GetPhotoInput) (*MessageOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Photo.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Photo deleted"}}, nil
}

// === Helpers ===

func mapMemberResponse(m *domain.Member, today time.Time) MemberResponse {
	resp := MemberResponse{
		ID:               m.ID,
		FamilyID:         m.FamilyID,
		KoreanName:       m.KoreanName,
		EnglishName:      m.EnglishName,
		Gender:           string(m.Gender),
		Birthday:         m.Birthday,
		Phone:            m.Phone,
		Email:            m.Email,
		Address:          m.Address,
		Relationship:     m.Relationship,
		Role:             m.Role,
		Mokjang:          m.Mokjang,
		RegistrationDate: m.RegistrationDate,
		Baptized:         m.Baptized,
		BaptismDate:      m.BaptismDate,
		Status:           m.Status,
		OfferingNumber:   m.OfferingNumber,
		SlipReference:    m.SlipReference,
		Tags:             m.UniqueTags(),
		PhotoPath:        m.PhotoPath,
		PhotoBlurHash:    m.PhotoBlurHash,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if age, ok := roster.Age(m.Birthday, today); ok {
		resp.Age = &age
	}
	if tenure, ok := roster.TenureSince(m.RegistrationDate, today); ok {
		resp.Tenure = &TenureResponse{Years: tenure.Years, Months: tenure.Months}
	}
	return resp
}

func mapMemoEntries(entries []memolog.Entry) []MemoEntryResponse {
	out := make([]MemoEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = MemoEntryResponse{Timestamp: e.Timestamp, Content: e.Content}
	}
	return out
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestMember registers a member through the API and returns its ID.
func (ts *testServer) createTestMember(t *testing.T, token string, body map[string]any) MemberResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/members", body, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "Create member failed: %s", resp.Body.String())

	var envelope testEnvelope[MemberResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestMemberCRUD(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	created := ts.createTestMember(t, token, map[string]any{
		"korean_name":       "김철수",
		"english_name":      "Chulsoo Kim",
		"gender":            "Male",
		"birthday":          "1980-03-15",
		"registration_date": "2020-01-10",
		"new_family_name":   "김철수",
		"relationship":      "Head",
		"mokjang":           "1목장",
	})
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.FamilyID)
	assert.Equal(t, "Active", created.Status)
	require.NotNil(t, created.Age)
	require.NotNil(t, created.Tenure)

	resp := ts.api.Get("/api/v1/members/"+created.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var got testEnvelope[MemberResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "김철수", got.Data.KoreanName)
	assert.Equal(t, "1목장", got.Data.Mokjang)

	resp = ts.api.Patch("/api/v1/members/"+created.ID, map[string]any{
		"phone": "010-1234-5678",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "010-1234-5678", got.Data.Phone)
	assert.Equal(t, "김철수", got.Data.KoreanName)

	resp = ts.api.Get("/api/v1/members", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[ListMembersResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Data.Members, 1)

	resp = ts.api.Delete("/api/v1/members/"+created.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/members/"+created.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMemberImportNormalizesRawRows(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)
	auth := "Authorization: Bearer " + token

	resp := ts.api.Post("/api/v1/members/import", map[string]any{
		"rows": []map[string]any{
			{
				"id":          1001,
				"korean_name": "  김철수 ",
				"tags":        "성가대, 새가족, 성가대",
				"birthday":    "1980/03/15",
				"baptized":    "yes",
			},
			{
				"phone": "010-1111-2222",
			},
		},
	}, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ImportMembersResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 2, envelope.Data.Imported)
	require.Len(t, envelope.Data.Members, 2)

	first := envelope.Data.Members[0]
	assert.Equal(t, "1001", first.ID)
	assert.Equal(t, "김철수", first.KoreanName)
	assert.Equal(t, []string{"성가대", "새가족"}, first.Tags)
	assert.True(t, first.Baptized)
	assert.Equal(t, "Active", first.Status)
	require.NotNil(t, first.Birthday)
	assert.Equal(t, 1980, first.Birthday.Year())

	// Nameless rows land with the placeholder so the roster shows them.
	second := envelope.Data.Members[1]
	assert.NotEmpty(t, second.ID)
	assert.Equal(t, "(이름 없음)", second.KoreanName)
	assert.Equal(t, "010-1111-2222", second.Phone)

	resp = ts.api.Get("/api/v1/members", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[ListMembersResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Data.Members, 2)
}

func TestMemberValidationErrors(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	// Whitespace-only Korean name.
	resp := ts.api.Post("/api/v1/members", map[string]any{
		"korean_name": "   ",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Family reference and new family name are mutually exclusive.
	resp = ts.api.Post("/api/v1/members", map[string]any{
		"korean_name":     "이영희",
		"family_id":       "fam_abc",
		"new_family_name": "이영희",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDuplicateFamilyHeadRejected(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	head := ts.createTestMember(t, token, map[string]any{
		"korean_name":     "박준호",
		"new_family_name": "박준호",
		"relationship":    "Head",
	})

	resp := ts.api.Post("/api/v1/members", map[string]any{
		"korean_name":  "박민수",
		"family_id":    head.FamilyID,
		"relationship": "Self",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// A spouse in the same family is fine.
	resp = ts.api.Post("/api/v1/members", map[string]any{
		"korean_name":  "최수진",
		"family_id":    head.FamilyID,
		"relationship": "Spouse",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestSetMemberTagsDeduplicates(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	m := ts.createTestMember(t, token, map[string]any{"korean_name": "정다은"})

	resp := ts.api.Put(fmt.Sprintf("/api/v1/members/%s/tags", m.ID), map[string]any{
		"tags": []string{"Choir", "choir", "새가족", "CHOIR", "새가족"},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[MemberResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"Choir", "새가족"}, envelope.Data.Tags)
}

func TestMemberMemoLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	m := ts.createTestMember(t, token, map[string]any{"korean_name": "한지민"})
	base := fmt.Sprintf("/api/v1/members/%s/memos", m.ID)

	resp := ts.api.Post(base, map[string]any{"content": "첫 심방"}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post(base, map[string]any{"content": "새가족 등록 상담"}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var memos testEnvelope[MemoListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &memos))
	require.Len(t, memos.Data.Entries, 2)
	// Newest first.
	assert.Equal(t, "새가족 등록 상담", memos.Data.Entries[0].Content)
	assert.Equal(t, "첫 심방", memos.Data.Entries[1].Content)
	originalStamp := memos.Data.Entries[0].Timestamp
	assert.NotEmpty(t, originalStamp)

	resp = ts.api.Patch(base+"/0", map[string]any{"content": "새가족 등록 완료"}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &memos))
	assert.Equal(t, "새가족 등록 완료", memos.Data.Entries[0].Content)
	assert.Equal(t, originalStamp, memos.Data.Entries[0].Timestamp)

	resp = ts.api.Delete(base+"/0", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &memos))
	require.Len(t, memos.Data.Entries, 1)
	assert.Equal(t, "첫 심방", memos.Data.Entries[0].Content)
}

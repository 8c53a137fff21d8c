package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberNames(members []MemberResponse) []string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.KoreanName
	}
	return names
}

func TestRosterDefaultSortAndSearch(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	ts.createTestMember(t, token, map[string]any{"korean_name": "이영희", "phone": "010-1111-2222"})
	ts.createTestMember(t, token, map[string]any{"korean_name": "김철수", "phone": "010-3333-4444"})
	ts.createTestMember(t, token, map[string]any{"korean_name": "박준호", "phone": "010-5555-6666"})

	resp := ts.api.Get("/api/v1/roster", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var view testEnvelope[RosterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	// 가나다 order.
	assert.Equal(t, []string{"김철수", "박준호", "이영희"}, memberNames(view.Data.Members))

	resp = ts.api.Get("/api/v1/roster?sort_order=desc", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	assert.Equal(t, []string{"이영희", "박준호", "김철수"}, memberNames(view.Data.Members))

	// Search by name fragment.
	resp = ts.api.Get("/api/v1/roster?search=철수", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	assert.Equal(t, []string{"김철수"}, memberNames(view.Data.Members))

	// Phone search ignores separators.
	resp = ts.api.Get("/api/v1/roster?search=01055556666", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	assert.Equal(t, []string{"박준호"}, memberNames(view.Data.Members))
}

func TestRosterActiveOnlyAndBirthdayMenu(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	ts.createTestMember(t, token, map[string]any{
		"korean_name": "김활동",
		"birthday":    "1990-05-20",
	})
	ts.createTestMember(t, token, map[string]any{
		"korean_name": "이장기",
		"status":      "Inactive",
		"birthday":    "1985-11-02",
	})

	resp := ts.api.Get("/api/v1/roster?active_only=true", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var view testEnvelope[RosterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	assert.Equal(t, []string{"김활동"}, memberNames(view.Data.Members))

	// Birthday menu, May is month index 4.
	resp = ts.api.Get("/api/v1/roster?menu=birthdays&birthday_month=4", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	assert.Equal(t, []string{"김활동"}, memberNames(view.Data.Members))
}

func TestRosterFilterMenuByTaxonomy(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)
	auth := "Authorization: Bearer " + token

	resp := ts.api.Post("/api/v1/taxonomies", map[string]any{
		"type": "mokjang",
		"name": "목장",
	}, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var parent testEnvelope[ParentListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parent))

	resp = ts.api.Post("/api/v1/taxonomies/"+parent.Data.ID+"/children", map[string]any{
		"name": "1목장",
	}, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var child testEnvelope[ChildListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &child))

	ts.createTestMember(t, token, map[string]any{"korean_name": "김일목", "mokjang": "1목장"})
	ts.createTestMember(t, token, map[string]any{"korean_name": "이이목", "mokjang": "2목장"})

	resp = ts.api.Get("/api/v1/roster?menu=filter&parent_id="+parent.Data.ID+"&child_id="+child.Data.ID, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var view testEnvelope[RosterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	assert.Equal(t, []string{"김일목"}, memberNames(view.Data.Members))

	// Filter menu without a selection is a validation error.
	resp = ts.api.Get("/api/v1/roster?menu=filter", auth)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRosterFamilyView(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	head := ts.createTestMember(t, token, map[string]any{
		"korean_name":     "박가장",
		"new_family_name": "박가장",
		"relationship":    "Head",
		"mokjang":         "3목장",
	})
	ts.createTestMember(t, token, map[string]any{
		"korean_name":  "박식구",
		"family_id":    head.FamilyID,
		"relationship": "Child",
	})
	ts.createTestMember(t, token, map[string]any{"korean_name": "남남남"})

	resp := ts.api.Get("/api/v1/roster?search=박가장&family_view=true", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var view testEnvelope[RosterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	// The match expands to the whole family, not to strangers.
	assert.ElementsMatch(t, []string{"박가장", "박식구"}, memberNames(view.Data.Members))
	assert.Equal(t, []string{head.FamilyID}, view.Data.FamilyIDs)
}

func TestRosterSummary(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)

	ts.createTestMember(t, token, map[string]any{
		"korean_name":     "김하나",
		"new_family_name": "김하나",
	})
	ts.createTestMember(t, token, map[string]any{
		"korean_name": "이혼자",
		"status":      "Inactive",
	})

	resp := ts.api.Get("/api/v1/roster/summary", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var summary testEnvelope[RosterSummaryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Data.TotalMembers)
	assert.Equal(t, 1, summary.Data.TotalFamilies)
	assert.Equal(t, 1, summary.Data.ActiveMembers)
}

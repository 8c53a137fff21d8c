package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentFlow(t *testing.T) {
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

	resp = ts.api.Post("/api/v1/chowons", map[string]any{"name": "1초원"}, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var chowon testEnvelope[ChowonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &chowon))

	m := ts.createTestMember(t, token, map[string]any{"korean_name": "김목원"})

	// Board works from a loaded copy.
	resp = ts.api.Post("/api/v1/assignments/reload", auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Member onto mokjang.
	resp = ts.api.Post("/api/v1/assignments", map[string]any{
		"item_type":   "member",
		"item_id":     m.ID,
		"target_type": "mokjang",
		"target_id":   child.Data.ID,
	}, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result testEnvelope[AssignmentResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.Data.Applied)
	assert.Equal(t, "reconciled", result.Data.State)

	resp = ts.api.Get("/api/v1/members/"+m.ID, auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var member testEnvelope[MemberResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &member))
	assert.Equal(t, "1목장", member.Data.Mokjang)

	// Mokjang onto chowon.
	resp = ts.api.Post("/api/v1/assignments", map[string]any{
		"item_type":   "mokjang",
		"item_id":     child.Data.ID,
		"target_type": "chowon",
		"target_id":   chowon.Data.ID,
	}, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.True(t, result.Data.Applied)

	resp = ts.api.Get("/api/v1/taxonomies/"+parent.Data.ID+"/children", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var children testEnvelope[ListChildrenResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &children))
	require.Len(t, children.Data.Children, 1)
	assert.Equal(t, chowon.Data.ID, children.Data.Children[0].ChowonID)

	// The chowon list reflects the supervision link.
	resp = ts.api.Get("/api/v1/chowons", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	var chowons testEnvelope[ListChowonsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &chowons))
	require.Len(t, chowons.Data.Chowons, 1)
	require.Len(t, chowons.Data.Chowons[0].Mokjangs, 1)
	assert.Equal(t, "1목장", chowons.Data.Chowons[0].Mokjangs[0].Name)
}

func TestAssignmentUnsupportedPairing(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)
	auth := "Authorization: Bearer " + token

	m := ts.createTestMember(t, token, map[string]any{"korean_name": "이무소속"})

	resp := ts.api.Post("/api/v1/assignments/reload", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	// Member onto chowon is not a supported transition.
	resp = ts.api.Post("/api/v1/assignments", map[string]any{
		"item_type":   "member",
		"item_id":     m.ID,
		"target_type": "chowon",
		"target_id":   "cho_whatever",
	}, auth)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result testEnvelope[AssignmentResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.False(t, result.Data.Applied)
}

func TestAssignmentUnknownTarget(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupAdmin(t)
	auth := "Authorization: Bearer " + token

	m := ts.createTestMember(t, token, map[string]any{"korean_name": "박미지"})

	resp := ts.api.Post("/api/v1/assignments/reload", auth)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/assignments", map[string]any{
		"item_type":   "member",
		"item_id":     m.ID,
		"target_type": "mokjang",
		"target_id":   "cl_missing",
	}, auth)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

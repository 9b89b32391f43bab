package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
)

func TestCreateAndListWorkspaces(t *testing.T) {
	r := setupTest(t)

	_, alice := registerUser(t, r, "Alice", "alice@example.com")
	_, bob := registerUser(t, r, "Bob", "bob@example.com")

	wsID := createWorkspace(t, r, alice, "Acme")

	w := doJSON(t, r, http.MethodGet, "/api/workspaces", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)
	require.Equal(t, "Acme", list[0]["name"])

	// Bob has no membership row, so he sees nothing and cannot read it.
	w = doJSON(t, r, http.MethodGet, "/api/workspaces", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeList(t, w))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/workspaces/%d", wsID), bob, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/workspaces/9999", alice, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateWorkspaceRequiresAdmin(t *testing.T) {
	r := setupTest(t)

	_, alice := registerUser(t, r, "Alice", "alice@example.com")
	bobID, bob := registerUser(t, r, "Bob", "bob@example.com")

	wsID := createWorkspace(t, r, alice, "Acme")

	require.NoError(t, db.DB.Create(&models.WorkspaceUser{
		WorkspaceID: wsID,
		UserID:      bobID,
		AccessLevel: types.AccessMember,
	}).Error)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/workspaces/%d", wsID), bob, gin.H{"name": "Hijacked"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/workspaces/%d", wsID), alice, gin.H{"name": "Acme Corp"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Acme Corp", decodeBody(t, w)["name"])
}

func TestDeleteWorkspace(t *testing.T) {
	r := setupTest(t)

	_, alice := registerUser(t, r, "Alice", "alice@example.com")
	wsID := createWorkspace(t, r, alice, "Acme")

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/workspaces/%d", wsID), alice, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/workspaces/%d", wsID), alice, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceMembers(t *testing.T) {
	r := setupTest(t)

	aliceID, alice := registerUser(t, r, "Alice", "alice@example.com")
	bobID, bob := registerUser(t, r, "Bob", "bob@example.com")

	wsID := createWorkspace(t, r, alice, "Acme")

	require.NoError(t, db.DB.Create(&models.WorkspaceUser{
		WorkspaceID: wsID,
		UserID:      bobID,
		AccessLevel: types.AccessViewer,
	}).Error)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/workspaces/%d/users", wsID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeList(t, w), 2)

	// Only an admin can change roles or remove members.
	path := fmt.Sprintf("/api/workspaces/%d/users/%d", wsID, aliceID)
	w = doJSON(t, r, http.MethodPatch, path, bob, gin.H{"access_level": "viewer"})
	require.Equal(t, http.StatusForbidden, w.Code)

	path = fmt.Sprintf("/api/workspaces/%d/users/%d", wsID, bobID)
	w = doJSON(t, r, http.MethodPatch, path, alice, gin.H{"access_level": "member"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func invitePath(projectID uint, action string) string {
	return fmt.Sprintf("/api/projects/%d/invites/%s", projectID, action)
}

func TestInviteLifecycle(t *testing.T) {
	r := setupTest(t)

	_, alice := registerUser(t, r, "Alice", "alice@example.com")
	bobID, bob := registerUser(t, r, "Bob", "bob@example.com")

	wsID := createWorkspace(t, r, alice, "Acme")
	projectID := createProject(t, r, alice, wsID, "Website")
	createTask(t, r, alice, projectID, "Secret work")

	// Until the invite is accepted, Bob cannot see the project.
	w := doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), alice, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", projectID), bob, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The pending invite shows up on Bob's list with the project name.
	w = doJSON(t, r, http.MethodGet, "/api/user/invites", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	invites := decodeList(t, w)
	require.Len(t, invites, 1)
	require.Equal(t, "Website", invites[0]["project_name"])

	// Accepting makes him a member with full read access.
	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "accept"), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", projectID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeList(t, w), 1)

	w = doJSON(t, r, http.MethodGet, "/api/user/invites", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeList(t, w))
}

func TestInviteDecline(t *testing.T) {
	r := setupTest(t)

	_, alice := registerUser(t, r, "Alice", "alice@example.com")
	bobID, bob := registerUser(t, r, "Bob", "bob@example.com")

	wsID := createWorkspace(t, r, alice, "Acme")
	projectID := createProject(t, r, alice, wsID, "Website")

	w := doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), alice, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "decline"), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Declining removes the row entirely, so he can be invited again.
	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), alice, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestInviteErrors(t *testing.T) {
	r := setupTest(t)

	_, alice := registerUser(t, r, "Alice", "alice@example.com")
	bobID, bob := registerUser(t, r, "Bob", "bob@example.com")

	wsID := createWorkspace(t, r, alice, "Acme")
	projectID := createProject(t, r, alice, wsID, "Website")

	// Only a project admin can invite.
	w := doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), bob, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusForbidden, w.Code)

	// The invitee must exist.
	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), alice, gin.H{"user_id": 9999})
	require.Equal(t, http.StatusNotFound, w.Code)

	// Accepting without a pending invite is a 404.
	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "accept"), bob, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Inviting twice conflicts.
	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), alice, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), alice, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusConflict, w.Code)

	// So does inviting someone who is already a member.
	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "accept"), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, invitePath(projectID, "send"), alice, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusConflict, w.Code)
}

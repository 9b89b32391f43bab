// Package access resolves a user's effective access level for a project or
// workspace from membership rows and gates operations on it. A missing row
// means no access; "invited" grants nothing until accepted.
package access

import (
	"errors"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("target not found")
	ErrForbidden = errors.New("access denied")
)

// LevelForProject returns the user's access level for the project, or
// ErrNotFound when the project does not exist.
func LevelForProject(projectID, userID uint) (types.AccessLevel, error) {
	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.AccessNone, ErrNotFound
		}
		return types.AccessNone, err
	}

	var membership models.ProjectUser

	err := db.DB.Where("project_id = ? AND user_id = ?", projectID, userID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.AccessNone, nil
		}
		return types.AccessNone, err
	}

	return membership.AccessLevel, nil
}

func LevelForWorkspace(workspaceID, userID uint) (types.AccessLevel, error) {
	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.AccessNone, ErrNotFound
		}
		return types.AccessNone, err
	}

	var membership models.WorkspaceUser

	err := db.DB.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.AccessNone, nil
		}
		return types.AccessNone, err
	}

	return membership.AccessLevel, nil
}

func atLeastViewer(level types.AccessLevel) bool {
	return level == types.AccessAdmin || level == types.AccessMember || level == types.AccessViewer
}

func atLeastEditor(level types.AccessLevel) bool {
	return level == types.AccessAdmin || level == types.AccessMember
}

func gate(level types.AccessLevel, err error, pass func(types.AccessLevel) bool) error {
	if err != nil {
		return err
	}
	if !pass(level) {
		return ErrForbidden
	}
	return nil
}

// RequireProjectViewer passes for admin, member and viewer.
func RequireProjectViewer(projectID, userID uint) error {
	level, err := LevelForProject(projectID, userID)
	return gate(level, err, atLeastViewer)
}

// RequireProjectEditor passes for admin and member.
func RequireProjectEditor(projectID, userID uint) error {
	level, err := LevelForProject(projectID, userID)
	return gate(level, err, atLeastEditor)
}

func RequireProjectAdmin(projectID, userID uint) error {
	level, err := LevelForProject(projectID, userID)
	return gate(level, err, func(l types.AccessLevel) bool { return l == types.AccessAdmin })
}

func RequireWorkspaceViewer(workspaceID, userID uint) error {
	level, err := LevelForWorkspace(workspaceID, userID)
	return gate(level, err, atLeastViewer)
}

func RequireWorkspaceAdmin(workspaceID, userID uint) error {
	level, err := LevelForWorkspace(workspaceID, userID)
	return gate(level, err, func(l types.AccessLevel) bool { return l == types.AccessAdmin })
}

// CanToggleCompletion implements the completion rule: admins and members may
// toggle any task in the project, a viewer only tasks assigned to them.
func CanToggleCompletion(task models.Task, userID uint) (bool, error) {
	level, err := LevelForProject(task.ProjectID, userID)
	if err != nil {
		return false, err
	}

	if atLeastEditor(level) {
		return true, nil
	}

	if level == types.AccessViewer {
		return task.AssignedTo != nil && *task.AssignedTo == userID, nil
	}

	return false, nil
}

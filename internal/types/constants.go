package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// AccessLevel is the ordered capability tier a membership row grants.
type AccessLevel string

const (
	AccessAdmin   AccessLevel = "admin"
	AccessMember  AccessLevel = "member"
	AccessViewer  AccessLevel = "viewer"
	AccessInvited AccessLevel = "invited"
	// AccessNone is never stored; it is the resolved level when no row exists.
	AccessNone AccessLevel = "none"
)

// ValidRole reports whether a level may be assigned to a member directly.
// "invited" is reachable only through the invite workflow.
func ValidRole(level AccessLevel) bool {
	switch level {
	case AccessAdmin, AccessMember, AccessViewer:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

func ValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityNone   TaskPriority = "NONE"
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityNormal TaskPriority = "NORMAL"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

func ValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityNone, TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh:
		return true
	}
	return false
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

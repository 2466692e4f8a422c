package tasks

import "hrportal/internal/domain/performance"

const (
	StatusPending    = performance.TaskStatusPending
	StatusInProgress = performance.TaskStatusInProgress
	StatusCompleted  = performance.TaskStatusCompleted
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	RoleAdmin     = "admin"
	RoleExecutive = "executive"
)

const maxTitleLength = 200

func validPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

package tasks

import (
	"time"

	"hrportal/internal/domain/performance"
)

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	AssignedTo    string     `json:"assignedTo"`
	AssignedBy    string     `json:"assignedBy,omitempty"`
	DepartmentID  string     `json:"departmentId,omitempty"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func (t Task) Record() performance.TaskRecord {
	return performance.TaskRecord{
		ID:            t.ID,
		Status:        t.Status,
		DueDate:       t.DueDate,
		CompletedDate: t.CompletedDate,
	}
}

type NewTask struct {
	AssigneeID  string     `json:"assignedTo"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// Actor is whoever is acting on a task.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       string
}

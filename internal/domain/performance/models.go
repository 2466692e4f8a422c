package performance

import "time"

type TaskRecord struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
}

// Sample is one employee's derived figures. OnTimeTasks <= CompletedTasks <=
// TotalTasks and 0 <= Score <= 100.
type Sample struct {
	EmployeeID     string  `json:"employeeId"`
	Name           string  `json:"name"`
	Position       string  `json:"position,omitempty"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	OnTimeTasks    int     `json:"onTimeTasks"`
	CompletionRate float64 `json:"completionRate"`
	OnTimeRate     float64 `json:"onTimeRate"`
	Score          float64 `json:"performanceScore"`
}

type GroupSummary struct {
	MemberCount    int     `json:"memberCount"`
	AverageScore   float64 `json:"averageScore"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	OnTimeTasks    int     `json:"onTimeTasks"`
}

package notifications

import (
	"encoding/json"
	"time"
)

// Payload is the typed body of a Message. Each payload knows its own tag.
type Payload interface {
	Type() Type
}

type TaskAssigned struct {
	TaskID     string     `json:"taskId"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Priority   string     `json:"priority,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	AssignedBy string     `json:"assignedBy,omitempty"`
}

func (TaskAssigned) Type() Type { return TypeTaskAssigned }

type TaskUpdate struct {
	TaskID     string `json:"taskId"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	EmployeeID string `json:"employeeId"`
}

func (TaskUpdate) Type() Type { return TypeTaskUpdate }

type PerformanceUpdate struct {
	DepartmentID   string  `json:"departmentId"`
	MemberCount    int     `json:"memberCount"`
	AverageScore   float64 `json:"averageScore"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	OnTimeTasks    int     `json:"onTimeTasks"`
}

func (PerformanceUpdate) Type() Type { return TypePerformanceUpdate }

type SkillUpdate struct {
	EmployeeID  string  `json:"employeeId"`
	SkillID     string  `json:"skillId"`
	SkillName   string  `json:"skillName"`
	Proficiency float64 `json:"proficiency"`
}

func (SkillUpdate) Type() Type { return TypeSkillUpdate }

type LearningUpdate struct {
	EmployeeID string  `json:"employeeId"`
	CourseID   string  `json:"courseId"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress"`
}

func (LearningUpdate) Type() Type { return TypeLearningUpdate }

type Generic struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (Generic) Type() Type { return TypeNotification }

// Message is immutable once built; fields are only reachable through accessors.
type Message struct {
	kind      Type
	data      Payload
	timestamp time.Time
}

func NewMessage(payload Payload, at time.Time) Message {
	return Message{kind: payload.Type(), data: payload, timestamp: at.UTC()}
}

func (m Message) Type() Type           { return m.kind }
func (m Message) Data() Payload        { return m.data }
func (m Message) Timestamp() time.Time { return m.timestamp }

type wireMessage struct {
	Type      Type    `json:"type"`
	Data      Payload `json:"data"`
	Timestamp string  `json:"timestamp"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMessage{
		Type:      m.kind,
		Data:      m.data,
		Timestamp: m.timestamp.Format(time.RFC3339Nano),
	})
}

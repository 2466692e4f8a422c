package development

import "time"

type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type EmployeeSkill struct {
	SkillID     string    `json:"skillId"`
	Name        string    `json:"name"`
	Proficiency float64   `json:"proficiency"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"type,omitempty"`
}

type Enrollment struct {
	CourseID    string     `json:"courseId"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Progress    float64    `json:"progress"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Plan struct {
	ID          string     `json:"id"`
	EmployeeID  string     `json:"employeeId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Goals       []string   `json:"goals"`
	Status      string     `json:"status"`
	TargetDate  *time.Time `json:"targetDate,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type NewPlan struct {
	EmployeeID  string     `json:"employeeId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Goals       []string   `json:"goals"`
	TargetDate  *time.Time `json:"targetDate"`
}

// MemberDevelopment is one team member's skills, courses and plans.
type MemberDevelopment struct {
	EmployeeID string          `json:"employeeId"`
	Name       string          `json:"name"`
	Skills     []EmployeeSkill `json:"skills"`
	Courses    []Enrollment    `json:"courses"`
	Plans      []Plan          `json:"developmentPlans"`
}

package development

import (
	"context"
	"time"
)

type StoreAPI interface {
	GetSkill(ctx context.Context, skillID string) (Skill, error)
	UpsertSkillProgress(ctx context.Context, employeeID, skillID string, proficiency float64) error
	SkillsForEmployee(ctx context.Context, employeeID string) ([]EmployeeSkill, error)
	GetCourse(ctx context.Context, courseID string) (Course, error)
	UpsertCourseProgress(ctx context.Context, employeeID, courseID, status string, progress float64, completedAt *time.Time) error
	CoursesForEmployee(ctx context.Context, employeeID string) ([]Enrollment, error)
	CreatePlan(ctx context.Context, createdBy string, payload NewPlan) (Plan, error)
	PlansForEmployee(ctx context.Context, employeeID string) ([]Plan, error)
}

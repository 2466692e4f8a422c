package development

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrportal/internal/domain/core"
	"hrportal/internal/domain/notifications"
)

type People interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	DepartmentOfManager(ctx context.Context, managerEmployeeID string) (core.Department, error)
	EmployeesInDepartment(ctx context.Context, departmentID string) ([]core.Employee, error)
}

type InboxWriter interface {
	Create(ctx context.Context, userID, kind, title, body string) error
}

type Service struct {
	store  StoreAPI
	people People
	inbox  InboxWriter
	notify *notifications.Dispatcher
	now    func() time.Time
}

func NewService(store StoreAPI, people People, inbox InboxWriter, notify *notifications.Dispatcher) *Service {
	return &Service{store: store, people: people, inbox: inbox, notify: notify, now: time.Now}
}

func validProgress(v float64) bool {
	return v >= minProgress && v <= maxProgress
}

// audience is the employee's department, or the employee alone when they have
// none.
func audience(emp core.Employee) notifications.Target {
	if emp.DepartmentID == "" {
		return notifications.ToUser(emp.UserID)
	}
	return notifications.ToDepartment(emp.DepartmentID)
}

func (s *Service) UpdateSkillProgress(ctx context.Context, employeeID, skillID string, proficiency float64) (EmployeeSkill, error) {
	if !validProgress(proficiency) {
		return EmployeeSkill{}, fmt.Errorf("%w: proficiency must be between %d and %d", ErrInvalidInput, minProgress, maxProgress)
	}
	skill, err := s.store.GetSkill(ctx, skillID)
	if err != nil {
		return EmployeeSkill{}, err
	}
	emp, err := s.people.GetEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeSkill{}, err
	}
	if err := s.store.UpsertSkillProgress(ctx, emp.ID, skill.ID, proficiency); err != nil {
		return EmployeeSkill{}, err
	}

	s.notify.NotifySkillUpdate(ctx, audience(emp), notifications.SkillUpdate{
		EmployeeID:  emp.ID,
		SkillID:     skill.ID,
		SkillName:   skill.Name,
		Proficiency: proficiency,
	})
	return EmployeeSkill{SkillID: skill.ID, Name: skill.Name, Proficiency: proficiency, UpdatedAt: s.now().UTC()}, nil
}

// UpdateCourseProgress records progress on a course. Reaching 100 completes it.
func (s *Service) UpdateCourseProgress(ctx context.Context, employeeID, courseID string, progress float64) (Enrollment, error) {
	if !validProgress(progress) {
		return Enrollment{}, fmt.Errorf("%w: progress must be between %d and %d", ErrInvalidInput, minProgress, maxProgress)
	}
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	emp, err := s.people.GetEmployee(ctx, employeeID)
	if err != nil {
		return Enrollment{}, err
	}

	status := CourseStatusFor(progress)
	var completedAt *time.Time
	if status == CourseCompleted {
		now := s.now().UTC()
		completedAt = &now
	}
	if err := s.store.UpsertCourseProgress(ctx, emp.ID, course.ID, status, progress, completedAt); err != nil {
		return Enrollment{}, err
	}

	s.notify.NotifyLearningUpdate(ctx, audience(emp), notifications.LearningUpdate{
		EmployeeID: emp.ID,
		CourseID:   course.ID,
		Title:      course.Title,
		Status:     status,
		Progress:   progress,
	})
	return Enrollment{CourseID: course.ID, Title: course.Title, Status: status, Progress: progress, CompletedAt: completedAt}, nil
}

func (s *Service) AssignDevelopmentPlan(ctx context.Context, managerEmployeeID string, payload NewPlan) (Plan, error) {
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Description = strings.TrimSpace(payload.Description)
	if payload.Title == "" {
		return Plan{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if payload.EmployeeID == "" {
		return Plan{}, fmt.Errorf("%w: employee is required", ErrInvalidInput)
	}
	goals := payload.Goals[:0:0]
	for _, g := range payload.Goals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	payload.Goals = goals

	dep, err := s.managedDepartment(ctx, managerEmployeeID)
	if err != nil {
		return Plan{}, err
	}
	emp, err := s.people.GetEmployee(ctx, payload.EmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			return Plan{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return Plan{}, err
	}
	if emp.DepartmentID != dep.ID {
		return Plan{}, fmt.Errorf("%w: employee %s is not in department %s", ErrForbidden, emp.ID, dep.ID)
	}

	plan, err := s.store.CreatePlan(ctx, managerEmployeeID, payload)
	if err != nil {
		return Plan{}, err
	}

	title := "New development plan"
	body := fmt.Sprintf("A development plan has been assigned to you: %s", plan.Title)
	if err := s.inbox.Create(ctx, emp.UserID, notifications.InboxPlanAssigned, title, body); err != nil {
		slog.Warn("development plan inbox entry failed", "planId", plan.ID, "err", err)
	}
	s.notify.NotifyGeneric(ctx, notifications.ToUser(emp.UserID), title, body)
	return plan, nil
}

// TeamDevelopment gathers skills, courses and plans for every member of the
// manager's department except whoever leads it.
func (s *Service) TeamDevelopment(ctx context.Context, managerEmployeeID string) ([]MemberDevelopment, error) {
	dep, err := s.managedDepartment(ctx, managerEmployeeID)
	if err != nil {
		return nil, err
	}
	members, err := s.people.EmployeesInDepartment(ctx, dep.ID)
	if err != nil {
		return nil, err
	}

	out := make([]MemberDevelopment, 0, len(members))
	for _, m := range members {
		if m.ID == managerEmployeeID || dep.ManagedBy(m) {
			continue
		}
		skills, err := s.store.SkillsForEmployee(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		courses, err := s.store.CoursesForEmployee(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		plans, err := s.store.PlansForEmployee(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, MemberDevelopment{
			EmployeeID: m.ID,
			Name:       m.FullName(),
			Skills:     nonNil(skills),
			Courses:    nonNil(courses),
			Plans:      nonNil(plans),
		})
	}
	return out, nil
}

func (s *Service) managedDepartment(ctx context.Context, managerEmployeeID string) (core.Department, error) {
	dep, err := s.people.DepartmentOfManager(ctx, managerEmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrDepartmentNotFound) {
			return core.Department{}, fmt.Errorf("%w: manager has no department", ErrForbidden)
		}
		return core.Department{}, err
	}
	return dep, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

package development

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

var _ StoreAPI = (*Store)(nil)

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetSkill(ctx context.Context, skillID string) (Skill, error) {
	var sk Skill
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(category, '')
    FROM skills
    WHERE id = $1
  `, skillID).Scan(&sk.ID, &sk.Name, &sk.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return Skill{}, fmt.Errorf("%w: %s", ErrSkillNotFound, skillID)
	}
	return sk, err
}

func (s *Store) UpsertSkillProgress(ctx context.Context, employeeID, skillID string, proficiency float64) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employee_skills (employee_id, skill_id, proficiency, updated_at)
    VALUES ($1, $2, $3, now())
    ON CONFLICT (employee_id, skill_id)
    DO UPDATE SET proficiency = EXCLUDED.proficiency, updated_at = now()
  `, employeeID, skillID, proficiency)
	return err
}

func (s *Store) SkillsForEmployee(ctx context.Context, employeeID string) ([]EmployeeSkill, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT es.skill_id, sk.name, es.proficiency, es.updated_at
    FROM employee_skills es
    JOIN skills sk ON sk.id = es.skill_id
    WHERE es.employee_id = $1
    ORDER BY sk.name
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeSkill
	for rows.Next() {
		var es EmployeeSkill
		if err := rows.Scan(&es.SkillID, &es.Name, &es.Proficiency, &es.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, es)
	}
	return out, rows.Err()
}

func (s *Store) GetCourse(ctx context.Context, courseID string) (Course, error) {
	var c Course
	err := s.DB.QueryRow(ctx, `
    SELECT id, title, COALESCE(type, '')
    FROM learning_resources
    WHERE id = $1
  `, courseID).Scan(&c.ID, &c.Title, &c.Kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return Course{}, fmt.Errorf("%w: %s", ErrCourseNotFound, courseID)
	}
	return c, err
}

func (s *Store) UpsertCourseProgress(ctx context.Context, employeeID, courseID, status string, progress float64, completedAt *time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employee_courses (employee_id, course_id, status, progress, started_at, completed_at)
    VALUES ($1, $2, $3, $4, now(), $5)
    ON CONFLICT (employee_id, course_id)
    DO UPDATE SET status = EXCLUDED.status,
                  progress = EXCLUDED.progress,
                  completed_at = COALESCE(employee_courses.completed_at, EXCLUDED.completed_at)
  `, employeeID, courseID, status, progress, completedAt)
	return err
}

func (s *Store) CoursesForEmployee(ctx context.Context, employeeID string) ([]Enrollment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT ec.course_id, lr.title, ec.status, ec.progress, ec.completed_at
    FROM employee_courses ec
    JOIN learning_resources lr ON lr.id = ec.course_id
    WHERE ec.employee_id = $1
    ORDER BY lr.title
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Enrollment
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.CourseID, &e.Title, &e.Status, &e.Progress, &e.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) CreatePlan(ctx context.Context, createdBy string, payload NewPlan) (Plan, error) {
	p := Plan{
		EmployeeID:  payload.EmployeeID,
		Title:       payload.Title,
		Description: payload.Description,
		Goals:       payload.Goals,
		Status:      PlanInProgress,
		TargetDate:  payload.TargetDate,
		CreatedBy:   createdBy,
	}
	if p.Goals == nil {
		p.Goals = []string{}
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO development_plans (employee_id, title, description, goals, status, target_date, created_by)
    VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, '')::uuid)
    RETURNING id, created_at
  `, p.EmployeeID, p.Title, p.Description, p.Goals, p.Status, p.TargetDate, createdBy).Scan(&p.ID, &p.CreatedAt)
	return p, err
}

func (s *Store) PlansForEmployee(ctx context.Context, employeeID string) ([]Plan, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, title, COALESCE(description, ''), goals, status,
           target_date, COALESCE(created_by::text, ''), created_at
    FROM development_plans
    WHERE employee_id = $1
    ORDER BY created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Title, &p.Description, &p.Goals, &p.Status,
			&p.TargetDate, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

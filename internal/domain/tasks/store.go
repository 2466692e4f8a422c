package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrportal/internal/domain/performance"
)

type Store struct {
	DB *pgxpool.Pool
}

var _ StoreAPI = (*Store)(nil)

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const taskColumns = `
    t.id, t.title, COALESCE(t.description, ''),
    t.assigned_to, COALESCE(t.assigned_by::text, ''),
    COALESCE(e.department_id::text, ''),
    t.priority, t.status, t.due_date, t.completed_date, t.created_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.AssignedBy, &t.DepartmentID,
		&t.Priority, &t.Status, &t.DueDate, &t.CompletedDate, &t.CreatedAt)
	return t, err
}

func (s *Store) CreateTask(ctx context.Context, assignedBy string, payload NewTask) (Task, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (title, description, assigned_to, assigned_by, priority, status, due_date)
    VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, '')::uuid, $5, $6, $7)
    RETURNING id
  `, payload.Title, payload.Description, payload.AssigneeID, assignedBy, payload.Priority, StatusPending, payload.DueDate).Scan(&id); err != nil {
		return Task{}, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) GetTask(ctx context.Context, taskID string) (Task, error) {
	task, err := scanTask(s.DB.QueryRow(ctx, `SELECT `+taskColumns+`
    FROM tasks t
    JOIN employees e ON e.id = t.assigned_to
    WHERE t.id = $1
  `, taskID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return task, err
}

func (s *Store) UpdateStatus(ctx context.Context, taskID, status string, completedAt *time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET status = $2, completed_date = $3, updated_at = now()
    WHERE id = $1
  `, taskID, status, completedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return nil
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	return s.list(ctx, `WHERE t.assigned_to = $1`, employeeID)
}

func (s *Store) ListForDepartment(ctx context.Context, departmentID string) ([]Task, error) {
	return s.list(ctx, `WHERE e.department_id = $1`, departmentID)
}

func (s *Store) list(ctx context.Context, where string, arg string) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+taskColumns+`
    FROM tasks t
    JOIN employees e ON e.id = t.assigned_to
    `+where+`
    ORDER BY t.due_date NULLS LAST, t.created_at DESC
  `, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TasksForEmployee returns the scoring view of an employee's tasks.
func (s *Store) TasksForEmployee(ctx context.Context, employeeID string) ([]performance.TaskRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, status, due_date, completed_date
    FROM tasks
    WHERE assigned_to = $1
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []performance.TaskRecord
	for rows.Next() {
		var r performance.TaskRecord
		if err := rows.Scan(&r.ID, &r.Status, &r.DueDate, &r.CompletedDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

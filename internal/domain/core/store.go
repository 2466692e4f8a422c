package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    e.id,
    COALESCE(e.user_id::text, ''),
    e.first_name, e.last_name, e.email,
    COALESCE(e.position, ''),
    COALESCE(e.department_id::text, ''),
    e.hire_date,
    COALESCE(u.role, '')`

const employeeFrom = `
    FROM employees e
    LEFT JOIN users u ON u.id = e.user_id`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Position, &emp.DepartmentID, &emp.HireDate, &emp.Role)
	return emp, err
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+employeeFrom+`
    WHERE e.id = $1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}
	return emp, err
}

func (s *Store) EmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+employeeFrom+`
    WHERE e.user_id = $1
  `, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, fmt.Errorf("%w: user %s", ErrEmployeeNotFound, userID)
	}
	return emp, err
}

// DepartmentOfManager resolves the department a manager belongs to.
func (s *Store) DepartmentOfManager(ctx context.Context, managerEmployeeID string) (Department, error) {
	var dep Department
	err := s.DB.QueryRow(ctx, `
    SELECT d.id, d.name, COALESCE(d.description, ''), COALESCE(d.manager_id::text, '')
    FROM employees e
    JOIN departments d ON d.id = e.department_id
    WHERE e.id = $1
  `, managerEmployeeID).Scan(&dep.ID, &dep.Name, &dep.Description, &dep.ManagerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, fmt.Errorf("%w: manager %s", ErrDepartmentNotFound, managerEmployeeID)
	}
	return dep, err
}

func (s *Store) GetDepartment(ctx context.Context, departmentID string) (Department, error) {
	var dep Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(description, ''), COALESCE(manager_id::text, '')
    FROM departments
    WHERE id = $1
  `, departmentID).Scan(&dep.ID, &dep.Name, &dep.Description, &dep.ManagerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, fmt.Errorf("%w: %s", ErrDepartmentNotFound, departmentID)
	}
	return dep, err
}

func (s *Store) EmployeesInDepartment(ctx context.Context, departmentID string) ([]Employee, error) {
	return s.listEmployees(ctx, `SELECT `+employeeColumns+employeeFrom+`
    WHERE e.department_id = $1
    ORDER BY e.last_name, e.first_name
  `, departmentID)
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.listEmployees(ctx, `SELECT `+employeeColumns+employeeFrom+`
    ORDER BY e.last_name, e.first_name
  `)
}

func (s *Store) listEmployees(ctx context.Context, query string, args ...any) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, ''), COALESCE(manager_id::text, '')
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.Description, &dep.ManagerID); err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

func (s *Store) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM employees),
      (SELECT COUNT(1) FROM departments),
      (SELECT COUNT(1) FROM tasks WHERE status <> 'completed'),
      (SELECT COUNT(1) FROM learning_resources)
  `).Scan(&out.Employees, &out.Departments, &out.OpenTasks, &out.Courses)
	return out, err
}

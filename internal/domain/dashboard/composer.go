package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"hrportal/internal/domain/core"
	"hrportal/internal/domain/notifications"
	"hrportal/internal/domain/performance"
)

type Directory interface {
	DepartmentOfManager(ctx context.Context, managerEmployeeID string) (core.Department, error)
	GetDepartment(ctx context.Context, departmentID string) (core.Department, error)
	EmployeesInDepartment(ctx context.Context, departmentID string) ([]core.Employee, error)
	ListEmployees(ctx context.Context) ([]core.Employee, error)
	ListDepartments(ctx context.Context) ([]core.Department, error)
}

type TaskSource interface {
	TasksForEmployee(ctx context.Context, employeeID string) ([]performance.TaskRecord, error)
}

type Composer struct {
	dir    Directory
	tasks  TaskSource
	notify *notifications.Dispatcher
	now    func() time.Time
}

func NewComposer(dir Directory, tasks TaskSource, notify *notifications.Dispatcher) *Composer {
	return &Composer{dir: dir, tasks: tasks, notify: notify, now: time.Now}
}

// BuildManagerDashboard scores every member of the manager's department except
// whoever leads it.
func (c *Composer) BuildManagerDashboard(ctx context.Context, managerEmployeeID string) (ManagerDashboard, error) {
	dep, err := c.managerDepartment(ctx, managerEmployeeID)
	if err != nil {
		return ManagerDashboard{}, err
	}
	return c.departmentDashboard(ctx, dep, managerEmployeeID)
}

func (c *Composer) managerDepartment(ctx context.Context, managerEmployeeID string) (core.Department, error) {
	dep, err := c.dir.DepartmentOfManager(ctx, managerEmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrDepartmentNotFound) || errors.Is(err, core.ErrEmployeeNotFound) {
			return core.Department{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return core.Department{}, fmt.Errorf("resolve manager department: %w", err)
	}
	if dep.ID == "" {
		return core.Department{}, fmt.Errorf("%w: manager %s has no department", ErrNotFound, managerEmployeeID)
	}
	return dep, nil
}

func (c *Composer) departmentDashboard(ctx context.Context, dep core.Department, excludeEmployeeID string) (ManagerDashboard, error) {
	members, err := c.dir.EmployeesInDepartment(ctx, dep.ID)
	if err != nil {
		return ManagerDashboard{}, fmt.Errorf("list department employees: %w", err)
	}
	team := make([]core.Employee, 0, len(members))
	for _, m := range members {
		if m.ID == excludeEmployeeID || dep.ManagedBy(m) {
			continue
		}
		team = append(team, m)
	}

	samples, skipped, err := c.scoreMembers(ctx, team)
	if err != nil {
		return ManagerDashboard{}, err
	}
	return ManagerDashboard{
		Department:  dep,
		Samples:     samples,
		Summary:     performance.Summarize(samples),
		Skipped:     skipped,
		GeneratedAt: c.now().UTC(),
	}, nil
}

func (c *Composer) BuildExecutiveDashboard(ctx context.Context) (ExecutiveDashboard, error) {
	employees, err := c.dir.ListEmployees(ctx)
	if err != nil {
		return ExecutiveDashboard{}, fmt.Errorf("list employees: %w", err)
	}
	departments, err := c.dir.ListDepartments(ctx)
	if err != nil {
		return ExecutiveDashboard{}, fmt.Errorf("list departments: %w", err)
	}

	samples, skipped, err := c.scoreMembers(ctx, employees)
	if err != nil {
		return ExecutiveDashboard{}, err
	}

	departmentOf := make(map[string]string, len(employees))
	for _, emp := range employees {
		departmentOf[emp.ID] = emp.DepartmentID
	}
	grouped := map[string][]performance.Sample{}
	for _, s := range samples {
		if dep := departmentOf[s.EmployeeID]; dep != "" {
			grouped[dep] = append(grouped[dep], s)
		}
	}

	out := ExecutiveDashboard{
		Company:     performance.Summarize(samples),
		Departments: make([]DepartmentSummary, 0, len(departments)),
		Skipped:     skipped,
		GeneratedAt: c.now().UTC(),
	}
	for _, dep := range departments {
		out.Departments = append(out.Departments, DepartmentSummary{
			Department: dep,
			Summary:    performance.Summarize(grouped[dep.ID]),
		})
	}
	return out, nil
}

// scoreMembers skips employees whose task data cannot be scored; data access
// failures abort.
func (c *Composer) scoreMembers(ctx context.Context, members []core.Employee) ([]performance.Sample, []string, error) {
	samples := make([]performance.Sample, 0, len(members))
	var skipped []string
	for _, m := range members {
		tasks, err := c.tasks.TasksForEmployee(ctx, m.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("load tasks for employee %s: %w", m.ID, err)
		}
		sample, err := performance.ScoreEmployee(tasks)
		if err != nil {
			slog.Warn("skipping employee with unscorable tasks", "employeeId", m.ID, "err", err)
			skipped = append(skipped, m.ID)
			continue
		}
		sample.EmployeeID = m.ID
		sample.Name = m.FullName()
		sample.Position = m.Position
		samples = append(samples, sample)
	}
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Score != samples[j].Score {
			return samples[i].Score > samples[j].Score
		}
		return samples[i].Name < samples[j].Name
	})
	return samples, skipped, nil
}

// PublishDepartmentPerformance recomputes a department summary and pushes it to
// the department's live connections. It returns the number of deliveries.
func (c *Composer) PublishDepartmentPerformance(ctx context.Context, departmentID string) (int, error) {
	dep, err := c.dir.GetDepartment(ctx, departmentID)
	if err != nil {
		if errors.Is(err, core.ErrDepartmentNotFound) {
			return 0, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return 0, fmt.Errorf("load department: %w", err)
	}
	d, err := c.departmentDashboard(ctx, dep, "")
	if err != nil {
		return 0, err
	}
	return c.notify.NotifyPerformanceUpdate(ctx, notifications.ToDepartment(dep.ID), notifications.PerformanceUpdate{
		DepartmentID:   dep.ID,
		MemberCount:    d.Summary.MemberCount,
		AverageScore:   d.Summary.AverageScore,
		TotalTasks:     d.Summary.TotalTasks,
		CompletedTasks: d.Summary.CompletedTasks,
		OnTimeTasks:    d.Summary.OnTimeTasks,
	}), nil
}

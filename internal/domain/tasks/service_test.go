package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"hrportal/internal/domain/core"
	"hrportal/internal/domain/notifications"
	"hrportal/internal/domain/performance"
)

type fakeStore struct {
	tasks map[string]Task
	seq   int

	// departmentOf mirrors the employees join the real store reads departments through.
	departmentOf map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{tasks: map[string]Task{}} }

func (f *fakeStore) CreateTask(ctx context.Context, assignedBy string, payload NewTask) (Task, error) {
	f.seq++
	t := Task{
		ID:          fmt.Sprintf("t%d", f.seq),
		Title:        payload.Title,
		Description:  payload.Description,
		AssignedTo:   payload.AssigneeID,
		AssignedBy:   assignedBy,
		DepartmentID: f.departmentOf[payload.AssigneeID],
		Priority:     payload.Priority,
		Status:       StatusPending,
		DueDate:      payload.DueDate,
	}
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeStore) GetTask(ctx context.Context, taskID string) (Task, error) {
	t, ok := f.tasks[taskID]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, taskID, status string, completedAt *time.Time) error {
	t, ok := f.tasks[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	t.Status = status
	t.CompletedDate = completedAt
	f.tasks[taskID] = t
	return nil
}

func (f *fakeStore) ListForEmployee(ctx context.Context, employeeID string) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.AssignedTo == employeeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListForDepartment(ctx context.Context, departmentID string) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.DepartmentID == departmentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) TasksForEmployee(ctx context.Context, employeeID string) ([]performance.TaskRecord, error) {
	return nil, nil
}

type fakePeople struct {
	employees   map[string]core.Employee
	departments map[string]core.Department
}

func (f *fakePeople) GetEmployee(ctx context.Context, employeeID string) (core.Employee, error) {
	e, ok := f.employees[employeeID]
	if !ok {
		return core.Employee{}, core.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakePeople) GetDepartment(ctx context.Context, departmentID string) (core.Department, error) {
	d, ok := f.departments[departmentID]
	if !ok {
		return core.Department{}, core.ErrDepartmentNotFound
	}
	return d, nil
}

func (f *fakePeople) DepartmentOfManager(ctx context.Context, managerEmployeeID string) (core.Department, error) {
	e, ok := f.employees[managerEmployeeID]
	if !ok || e.DepartmentID == "" {
		return core.Department{}, core.ErrDepartmentNotFound
	}
	return f.GetDepartment(ctx, e.DepartmentID)
}

type inboxEntry struct{ userID, kind string }

type fakeInbox struct{ entries []inboxEntry }

func (f *fakeInbox) Create(ctx context.Context, userID, kind, title, body string) error {
	f.entries = append(f.entries, inboxEntry{userID, kind})
	return nil
}

type fakePublisher struct{ departments []string }

func (f *fakePublisher) PublishDepartmentPerformance(ctx context.Context, departmentID string) (int, error) {
	f.departments = append(f.departments, departmentID)
	return 0, nil
}

type captureConn struct{ msgs []notifications.Message }

func (c *captureConn) Send(ctx context.Context, msg notifications.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

type harness struct {
	svc       *Service
	store     *fakeStore
	inbox     *fakeInbox
	publisher *fakePublisher
	worker    *captureConn
	peer      *captureConn
}

func newHarness() harness {
	people := &fakePeople{
		employees: map[string]core.Employee{
			"mgr":    {ID: "mgr", UserID: "u-mgr", DepartmentID: "eng", Role: core.RoleManager},
			"e1":     {ID: "e1", UserID: "u-e1", FirstName: "Ann", DepartmentID: "eng"},
			"e2":     {ID: "e2", UserID: "u-e2", DepartmentID: "eng"},
			"opsmgr": {ID: "opsmgr", UserID: "u-opsmgr", DepartmentID: "ops", Role: core.RoleManager},
			"o1":     {ID: "o1", UserID: "u-o1", DepartmentID: "ops"},
			"lonely": {ID: "lonely", UserID: "u-lonely", Role: core.RoleManager},
		},
		departments: map[string]core.Department{
			"eng": {ID: "eng", Name: "Engineering", ManagerID: "mgr"},
			"ops": {ID: "ops", Name: "Operations"},
		},
	}
	reg := notifications.NewRegistry()
	worker, peer := &captureConn{}, &captureConn{}
	reg.Register(worker, "u-e1", "eng")
	reg.Register(peer, "u-e2", "eng")

	store := newFakeStore()
	store.departmentOf = map[string]string{}
	for id, e := range people.employees {
		store.departmentOf[id] = e.DepartmentID
	}
	inbox := &fakeInbox{}
	pub := &fakePublisher{}
	svc := NewService(store, people, inbox, notifications.NewDispatcher(reg), pub)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return harness{svc: svc, store: store, inbox: inbox, publisher: pub, worker: worker, peer: peer}
}

func TestAssignTaskNotifiesAssigneeAndDepartment(t *testing.T) {
	h := newHarness()
	manager := Actor{UserID: "u-mgr", EmployeeID: "mgr", Role: "manager"}

	task, err := h.svc.AssignTask(context.Background(), manager, NewTask{AssigneeID: "e1", Title: "  Write report "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Write report" || task.Priority != PriorityMedium || task.Status != StatusPending {
		t.Fatalf("unexpected task: %+v", task)
	}
	if len(h.inbox.entries) != 1 || h.inbox.entries[0] != (inboxEntry{"u-e1", notifications.InboxTaskAssigned}) {
		t.Fatalf("unexpected inbox entries: %+v", h.inbox.entries)
	}

	// e1 gets task_assigned (user) plus task_update (department); e2 only the update.
	if len(h.worker.msgs) != 2 || h.worker.msgs[0].Type() != notifications.TypeTaskAssigned {
		t.Fatalf("unexpected assignee messages: %+v", h.worker.msgs)
	}
	if len(h.peer.msgs) != 1 || h.peer.msgs[0].Type() != notifications.TypeTaskUpdate {
		t.Fatalf("unexpected peer messages: %+v", h.peer.msgs)
	}
	if len(h.publisher.departments) != 1 || h.publisher.departments[0] != "eng" {
		t.Fatalf("expected performance republish for eng, got %v", h.publisher.departments)
	}
}

func TestManagerWithoutRecordedDepartmentManagerMovesAssignedTask(t *testing.T) {
	h := newHarness()
	manager := Actor{UserID: "u-opsmgr", EmployeeID: "opsmgr", Role: core.RoleManager}

	task, err := h.svc.AssignTask(context.Background(), manager, NewTask{AssigneeID: "o1", Title: "Restock"})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	moved, err := h.svc.UpdateStatus(context.Background(), manager, task.ID, StatusInProgress)
	if err != nil {
		t.Fatalf("manager could not move a task they assigned: %v", err)
	}
	if moved.Status != StatusInProgress || h.store.tasks[task.ID].Status != StatusInProgress {
		t.Fatalf("unexpected task after move: %+v", moved)
	}
}

func TestAssignTaskValidation(t *testing.T) {
	manager := Actor{EmployeeID: "mgr"}
	tests := []struct {
		name    string
		actor   Actor
		payload NewTask
		want    error
	}{
		{"blank title", manager, NewTask{AssigneeID: "e1", Title: " "}, ErrInvalidTask},
		{"missing assignee", manager, NewTask{Title: "x"}, ErrInvalidTask},
		{"bad priority", manager, NewTask{AssigneeID: "e1", Title: "x", Priority: "urgent"}, ErrInvalidTask},
		{"unknown assignee", manager, NewTask{AssigneeID: "ghost", Title: "x"}, ErrInvalidTask},
		{"other department", manager, NewTask{AssigneeID: "o1", Title: "x"}, ErrForbidden},
		{"manager without department", Actor{EmployeeID: "lonely"}, NewTask{AssigneeID: "e1", Title: "x"}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			_, err := h.svc.AssignTask(context.Background(), tt.actor, tt.payload)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(h.store.tasks) != 0 || len(h.worker.msgs) != 0 {
				t.Fatal("rejected assignment must not persist or notify")
			}
		})
	}
}

func TestUpdateStatusCompletedStampsAndRepublishes(t *testing.T) {
	h := newHarness()
	h.store.tasks["t9"] = Task{ID: "t9", Title: "Ship", AssignedTo: "e1", AssignedBy: "mgr", DepartmentID: "eng", Status: StatusInProgress}

	task, err := h.svc.UpdateStatus(context.Background(), Actor{UserID: "u-e1", EmployeeID: "e1"}, "t9", StatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.CompletedDate == nil || !task.CompletedDate.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected completion stamp, got %v", task.CompletedDate)
	}
	if h.store.tasks["t9"].Status != StatusCompleted {
		t.Fatal("status not persisted")
	}
	if len(h.publisher.departments) != 1 || h.publisher.departments[0] != "eng" {
		t.Fatalf("expected performance republish for eng, got %v", h.publisher.departments)
	}
	if len(h.peer.msgs) != 1 || h.peer.msgs[0].Type() != notifications.TypeTaskUpdate {
		t.Fatalf("expected department task_update, got %+v", h.peer.msgs)
	}
	if len(h.inbox.entries) != 1 || h.inbox.entries[0] != (inboxEntry{"u-mgr", notifications.InboxTaskStatusMoved}) {
		t.Fatalf("expected assigner inbox entry, got %+v", h.inbox.entries)
	}
}

func TestUpdateStatusReopenClearsCompletion(t *testing.T) {
	h := newHarness()
	done := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	h.store.tasks["t1"] = Task{ID: "t1", AssignedTo: "e1", DepartmentID: "eng", Status: StatusCompleted, CompletedDate: &done}

	task, err := h.svc.UpdateStatus(context.Background(), Actor{EmployeeID: "mgr", Role: core.RoleManager}, "t1", StatusInProgress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.CompletedDate != nil || h.store.tasks["t1"].CompletedDate != nil {
		t.Fatal("reopened task must drop its completion date")
	}
}

func TestUpdateStatusAuthorization(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		want  error
	}{
		{"assignee", Actor{EmployeeID: "e1"}, nil},
		{"department manager", Actor{EmployeeID: "mgr", Role: core.RoleManager}, nil},
		{"admin", Actor{Role: RoleAdmin}, nil},
		{"peer", Actor{EmployeeID: "e2", Role: "employee"}, ErrForbidden},
		{"outsider", Actor{EmployeeID: "o1"}, ErrForbidden},
		{"manager of another department", Actor{EmployeeID: "opsmgr", Role: core.RoleManager}, ErrForbidden},
		{"manager without department", Actor{EmployeeID: "lonely", Role: core.RoleManager}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.store.tasks["t1"] = Task{ID: "t1", AssignedTo: "e1", DepartmentID: "eng", Status: StatusPending}
			_, err := h.svc.UpdateStatus(context.Background(), tt.actor, "t1", StatusInProgress)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUpdateStatusRejectsUnknownStatusAndTask(t *testing.T) {
	h := newHarness()
	if _, err := h.svc.UpdateStatus(context.Background(), Actor{EmployeeID: "e1"}, "t1", "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := h.svc.UpdateStatus(context.Background(), Actor{EmployeeID: "e1"}, "missing", StatusCompleted); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestListForDepartmentRequiresManagedDepartment(t *testing.T) {
	h := newHarness()
	h.store.tasks["t1"] = Task{ID: "t1", AssignedTo: "e1", DepartmentID: "eng"}
	h.store.tasks["t2"] = Task{ID: "t2", AssignedTo: "o1", DepartmentID: "ops"}

	got, err := h.svc.ListForDepartment(context.Background(), "mgr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("unexpected tasks: %+v", got)
	}
	if _, err := h.svc.ListForDepartment(context.Background(), "lonely"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

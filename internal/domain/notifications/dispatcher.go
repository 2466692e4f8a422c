package notifications

import (
	"context"
	"log/slog"
	"time"
)

type targetKind int

const (
	targetUser targetKind = iota + 1
	targetDepartment
)

// Target addresses either a single user or every connection of a department.
type Target struct {
	kind targetKind
	id   string
}

func ToUser(userID string) Target             { return Target{kind: targetUser, id: userID} }
func ToDepartment(departmentID string) Target { return Target{kind: targetDepartment, id: departmentID} }

func (t Target) String() string {
	switch t.kind {
	case targetUser:
		return "user:" + t.id
	case targetDepartment:
		return "department:" + t.id
	}
	return "none"
}

// Recorder observes delivery outcomes. A nil Recorder is allowed.
type Recorder interface {
	Delivered(t Type)
	Failed(t Type)
	Dropped(t Type)
}

// DefaultSendBudget caps how long one Dispatch may spend writing to all of its
// target's connections together.
const DefaultSendBudget = 2 * time.Second

// Dispatcher pushes typed messages to whoever is connected right now.
//
// Delivery is best effort. When nobody is connected the message is dropped,
// and a failing connection is logged and skipped. Nothing is queued or
// retried; the persisted inbox covers durable state. Connections are written
// in turn under one shared send budget, so stalled sockets delay the caller
// by at most the budget in total.
type Dispatcher struct {
	registry *Registry
	recorder Recorder
	now      func() time.Time
	budget   time.Duration
}

type DispatcherOption func(*Dispatcher)

func WithRecorder(rec Recorder) DispatcherOption {
	return func(d *Dispatcher) { d.recorder = rec }
}

func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithSendBudget replaces DefaultSendBudget. Zero or less removes the bound.
func WithSendBudget(budget time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.budget = budget }
}

func NewDispatcher(registry *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{registry: registry, now: time.Now, budget: DefaultSendBudget}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) NotifyTaskAssigned(ctx context.Context, target Target, p TaskAssigned) int {
	return d.Dispatch(ctx, target, p)
}

func (d *Dispatcher) NotifyTaskUpdate(ctx context.Context, target Target, p TaskUpdate) int {
	return d.Dispatch(ctx, target, p)
}

func (d *Dispatcher) NotifyPerformanceUpdate(ctx context.Context, target Target, p PerformanceUpdate) int {
	return d.Dispatch(ctx, target, p)
}

func (d *Dispatcher) NotifySkillUpdate(ctx context.Context, target Target, p SkillUpdate) int {
	return d.Dispatch(ctx, target, p)
}

func (d *Dispatcher) NotifyLearningUpdate(ctx context.Context, target Target, p LearningUpdate) int {
	return d.Dispatch(ctx, target, p)
}

func (d *Dispatcher) NotifyGeneric(ctx context.Context, target Target, title, message string) int {
	return d.Dispatch(ctx, target, Generic{Title: title, Message: message})
}

// Dispatch stamps, wraps and delivers payload to every connection of target.
// It returns the number of connections that accepted the message.
func (d *Dispatcher) Dispatch(ctx context.Context, target Target, payload Payload) int {
	if d == nil || d.registry == nil || payload == nil {
		return 0
	}
	msg := NewMessage(payload, d.now())

	var conns []Conn
	switch target.kind {
	case targetUser:
		conns = d.registry.ConnectionsForUser(target.id)
	case targetDepartment:
		conns = d.registry.ConnectionsForDepartment(target.id)
	}
	if len(conns) == 0 {
		d.record(msg.Type(), outcomeDropped)
		return 0
	}

	if d.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.budget)
		defer cancel()
	}

	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(ctx, msg); err != nil {
			slog.Warn("notification delivery failed", "type", msg.Type(), "target", target.String(), "err", err)
			d.record(msg.Type(), outcomeFailed)
			continue
		}
		delivered++
		d.record(msg.Type(), outcomeDelivered)
	}
	return delivered
}

type outcome int

const (
	outcomeDelivered outcome = iota
	outcomeFailed
	outcomeDropped
)

func (d *Dispatcher) record(t Type, o outcome) {
	if d.recorder == nil {
		return
	}
	switch o {
	case outcomeDelivered:
		d.recorder.Delivered(t)
	case outcomeFailed:
		d.recorder.Failed(t)
	case outcomeDropped:
		d.recorder.Dropped(t)
	}
}

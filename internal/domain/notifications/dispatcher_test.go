package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
}

type countingRecorder struct {
	delivered, failed, dropped map[Type]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{delivered: map[Type]int{}, failed: map[Type]int{}, dropped: map[Type]int{}}
}

func (r *countingRecorder) Delivered(t Type) { r.delivered[t]++ }
func (r *countingRecorder) Failed(t Type)    { r.failed[t]++ }
func (r *countingRecorder) Dropped(t Type)   { r.dropped[t]++ }

func TestDispatchToEmptyDepartmentDrops(t *testing.T) {
	rec := newCountingRecorder()
	d := NewDispatcher(NewRegistry(), WithRecorder(rec))

	done := make(chan int, 1)
	go func() {
		done <- d.NotifyPerformanceUpdate(context.Background(), ToDepartment("nobody"), PerformanceUpdate{DepartmentID: "nobody"})
	}()

	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("expected zero deliveries, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("dispatch to empty department blocked")
	}
	if rec.dropped[TypePerformanceUpdate] != 1 {
		t.Fatalf("expected one dropped message, got %+v", rec.dropped)
	}
}

func TestDispatchSkipsFailingConnection(t *testing.T) {
	reg := NewRegistry()
	ok1 := &fakeConn{}
	bad := &fakeConn{fail: errors.New("broken pipe")}
	ok2 := &fakeConn{}
	reg.Register(ok1, "u1", "d1")
	reg.Register(bad, "u1", "d1")
	reg.Register(ok2, "u1", "d1")

	rec := newCountingRecorder()
	d := NewDispatcher(reg, WithRecorder(rec), WithClock(fixedNow))
	n := d.NotifyGeneric(context.Background(), ToUser("u1"), "Hello", "world")

	if n != 2 {
		t.Fatalf("expected 2 deliveries, got %d", n)
	}
	if len(ok1.received()) != 1 || len(ok2.received()) != 1 {
		t.Fatal("expected healthy connections to receive the message")
	}
	if rec.failed[TypeNotification] != 1 || rec.delivered[TypeNotification] != 2 {
		t.Fatalf("unexpected recorder counts: failed=%v delivered=%v", rec.failed, rec.delivered)
	}
	if got := len(reg.ConnectionsForUser("u1")); got != 3 {
		t.Fatalf("failed send must not unregister, have %d connections", got)
	}
}

// stalledConn never completes a write on its own.
type stalledConn struct{}

func (c *stalledConn) Send(ctx context.Context, msg Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDispatchBoundsStalledConnections(t *testing.T) {
	reg := NewRegistry()
	healthy := &fakeConn{}
	reg.Register(healthy, "u1", "d1")
	for i := 0; i < 4; i++ {
		reg.Register(&stalledConn{}, "u2", "d1")
	}

	rec := newCountingRecorder()
	d := NewDispatcher(reg, WithRecorder(rec), WithSendBudget(50*time.Millisecond))

	start := time.Now()
	n := d.NotifyTaskUpdate(context.Background(), ToDepartment("d1"), TaskUpdate{TaskID: "t1"})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("dispatch took %v with a 50ms budget", elapsed)
	}
	if n != 1 || len(healthy.received()) != 1 || rec.failed[TypeTaskUpdate] != 4 {
		t.Fatalf("expected one delivery and four timeouts, got n=%d failed=%v", n, rec.failed)
	}
	if got := len(reg.ConnectionsForDepartment("d1")); got != 5 {
		t.Fatalf("timed out sends must not unregister, have %d", got)
	}
}

func TestDispatchRoutesByTarget(t *testing.T) {
	reg := NewRegistry()
	alice := &fakeConn{}
	bob := &fakeConn{}
	carol := &fakeConn{}
	reg.Register(alice, "alice", "eng")
	reg.Register(bob, "bob", "eng")
	reg.Register(carol, "carol", "ops")

	d := NewDispatcher(reg, WithClock(fixedNow))
	ctx := context.Background()

	if n := d.NotifyTaskAssigned(ctx, ToUser("alice"), TaskAssigned{TaskID: "t1", Title: "Ship"}); n != 1 {
		t.Fatalf("expected personal delivery, got %d", n)
	}
	if n := d.NotifySkillUpdate(ctx, ToDepartment("eng"), SkillUpdate{EmployeeID: "e1", SkillName: "Go"}); n != 2 {
		t.Fatalf("expected department broadcast to 2, got %d", n)
	}
	if len(carol.received()) != 0 {
		t.Fatal("ops connection must not receive eng traffic")
	}

	got := alice.received()
	if len(got) != 2 || got[0].Type() != TypeTaskAssigned || got[1].Type() != TypeSkillUpdate {
		t.Fatalf("unexpected messages for alice: %+v", got)
	}
	if !got[0].Timestamp().Equal(fixedNow()) {
		t.Fatalf("expected server timestamp, got %v", got[0].Timestamp())
	}
}

func TestMessageWireShape(t *testing.T) {
	at := time.Date(2026, 3, 4, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	msg := NewMessage(LearningUpdate{EmployeeID: "e1", CourseID: "c1", Status: "in_progress", Progress: 40}, at)

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Type      string         `json:"type"`
		Data      map[string]any `json:"data"`
		Timestamp string         `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "learning_update" {
		t.Fatalf("unexpected type %q", decoded.Type)
	}
	if decoded.Timestamp != "2026-03-04T11:00:00Z" {
		t.Fatalf("expected UTC ISO-8601 timestamp, got %q", decoded.Timestamp)
	}
	if decoded.Data["courseId"] != "c1" || decoded.Data["progress"] != float64(40) {
		t.Fatalf("unexpected data: %+v", decoded.Data)
	}
}

func TestPayloadTypesCoverAllTags(t *testing.T) {
	payloads := []Payload{TaskAssigned{}, TaskUpdate{}, PerformanceUpdate{}, SkillUpdate{}, LearningUpdate{}, Generic{}}
	seen := map[Type]bool{}
	for _, p := range payloads {
		seen[p.Type()] = true
	}
	for _, tag := range AllTypes() {
		if !seen[tag] {
			t.Fatalf("no payload carries type %q", tag)
		}
	}
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	if n := d.NotifyGeneric(context.Background(), ToUser("u1"), "a", "b"); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}

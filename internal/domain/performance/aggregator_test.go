package performance

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"
)

func day(d int) *time.Time {
	t := time.Date(2026, 1, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestScoreEmployee(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []TaskRecord
		total     int
		completed int
		onTime    int
		score     float64
	}{
		{
			name:  "no tasks scores zero",
			tasks: nil,
			score: 0,
		},
		{
			name: "mixed example",
			tasks: []TaskRecord{
				{Status: TaskStatusCompleted, DueDate: day(10), CompletedDate: day(9)},
				{Status: TaskStatusCompleted, DueDate: day(10), CompletedDate: day(12)},
				{Status: TaskStatusPending, DueDate: day(20)},
			},
			total: 3, completed: 2, onTime: 1,
			score: 61.67,
		},
		{
			name: "all completed on due date",
			tasks: []TaskRecord{
				{Status: TaskStatusCompleted, DueDate: day(10), CompletedDate: day(10)},
				{Status: TaskStatusCompleted, DueDate: day(11), CompletedDate: day(1)},
			},
			total: 2, completed: 2, onTime: 2,
			score: 100,
		},
		{
			name: "nothing completed",
			tasks: []TaskRecord{
				{Status: TaskStatusPending},
				{Status: TaskStatusInProgress},
			},
			total: 2,
			score: 0,
		},
		{
			name: "missing due date is not on time",
			tasks: []TaskRecord{
				{Status: TaskStatusCompleted, CompletedDate: day(3)},
			},
			total: 1, completed: 1, onTime: 0,
			score: 70,
		},
		{
			name: "missing completion date is not on time",
			tasks: []TaskRecord{
				{Status: TaskStatusCompleted, DueDate: day(3)},
			},
			total: 1, completed: 1, onTime: 0,
			score: 70,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ScoreEmployee(tc.tasks)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.TotalTasks != tc.total || got.CompletedTasks != tc.completed || got.OnTimeTasks != tc.onTime {
				t.Fatalf("unexpected counts: %+v", got)
			}
			if got.Score != tc.score {
				t.Fatalf("expected score %v, got %v", tc.score, got.Score)
			}
		})
	}
}

func TestScoreEmployeeRatesAreRounded(t *testing.T) {
	got, err := ScoreEmployee([]TaskRecord{
		{Status: TaskStatusCompleted, DueDate: day(10), CompletedDate: day(9)},
		{Status: TaskStatusCompleted, DueDate: day(10), CompletedDate: day(12)},
		{Status: TaskStatusPending},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CompletionRate != 66.67 || got.OnTimeRate != 50 {
		t.Fatalf("unexpected rates: %+v", got)
	}
}

func TestScoreEmployeeRejectsUnknownStatus(t *testing.T) {
	_, err := ScoreEmployee([]TaskRecord{{ID: "t9", Status: "archived"}})
	if !errors.Is(err, ErrMalformedTask) {
		t.Fatalf("expected malformed task error, got %v", err)
	}
}

func TestScoreEmployeeInvariantsAndOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	statuses := []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

	for i := 0; i < 200; i++ {
		n := rng.Intn(12)
		tasks := make([]TaskRecord, n)
		for j := range tasks {
			tasks[j].Status = statuses[rng.Intn(len(statuses))]
			if rng.Intn(4) > 0 {
				tasks[j].DueDate = day(1 + rng.Intn(27))
			}
			if tasks[j].Status == TaskStatusCompleted && rng.Intn(4) > 0 {
				tasks[j].CompletedDate = day(1 + rng.Intn(27))
			}
		}

		first, err := ScoreEmployee(tasks)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.OnTimeTasks > first.CompletedTasks || first.CompletedTasks > first.TotalTasks {
			t.Fatalf("count invariant broken: %+v", first)
		}
		if first.Score < 0 || first.Score > 100 {
			t.Fatalf("score out of range: %+v", first)
		}

		rng.Shuffle(len(tasks), func(a, b int) { tasks[a], tasks[b] = tasks[b], tasks[a] })
		second, err := ScoreEmployee(tasks)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first != second {
			t.Fatalf("order changed result: %+v vs %+v", first, second)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil)
	if got != (GroupSummary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestSummarizeIdenticalSamples(t *testing.T) {
	sample := Sample{TotalTasks: 3, CompletedTasks: 2, OnTimeTasks: 1, Score: 61.67}
	samples := []Sample{sample, sample, sample, sample}

	got := Summarize(samples)
	if got.MemberCount != 4 {
		t.Fatalf("expected 4 members, got %d", got.MemberCount)
	}
	if math.Abs(got.AverageScore-61.67) > 0.005 {
		t.Fatalf("expected average 61.67, got %v", got.AverageScore)
	}
	if got.TotalTasks != 12 || got.CompletedTasks != 8 || got.OnTimeTasks != 4 {
		t.Fatalf("unexpected sums: %+v", got)
	}
}

func TestSummarizeAverages(t *testing.T) {
	got := Summarize([]Sample{{Score: 100}, {Score: 0}, {Score: 50}})
	if got.AverageScore != 50 {
		t.Fatalf("expected 50, got %v", got.AverageScore)
	}
}

package performance

import (
	"fmt"
	"math"
)

// ScoreEmployee derives a sample from one employee's tasks. Identity fields are
// left for the caller. An empty list scores exactly zero.
func ScoreEmployee(tasks []TaskRecord) (Sample, error) {
	var sample Sample
	for _, task := range tasks {
		if !ValidTaskStatus(task.Status) {
			return Sample{}, fmt.Errorf("%w: task %q has status %q", ErrMalformedTask, task.ID, task.Status)
		}
		sample.TotalTasks++
		if task.Status != TaskStatusCompleted {
			continue
		}
		sample.CompletedTasks++
		if completedOnTime(task) {
			sample.OnTimeTasks++
		}
	}

	if sample.TotalTasks > 0 {
		sample.CompletionRate = float64(sample.CompletedTasks) / float64(sample.TotalTasks) * 100
	}
	if sample.CompletedTasks > 0 {
		sample.OnTimeRate = float64(sample.OnTimeTasks) / float64(sample.CompletedTasks) * 100
	}
	sample.Score = round2(sample.CompletionRate*completionWeight + sample.OnTimeRate*onTimeWeight)
	sample.CompletionRate = round2(sample.CompletionRate)
	sample.OnTimeRate = round2(sample.OnTimeRate)
	return sample, nil
}

// A missing due or completion date never counts as on time.
func completedOnTime(task TaskRecord) bool {
	if task.DueDate == nil || task.CompletedDate == nil {
		return false
	}
	return !task.CompletedDate.After(*task.DueDate)
}

// Summarize folds samples into a group summary. No samples yields the zero
// summary.
func Summarize(samples []Sample) GroupSummary {
	summary := GroupSummary{MemberCount: len(samples)}
	if len(samples) == 0 {
		return summary
	}
	total := 0.0
	for _, s := range samples {
		total += s.Score
		summary.TotalTasks += s.TotalTasks
		summary.CompletedTasks += s.CompletedTasks
		summary.OnTimeTasks += s.OnTimeTasks
	}
	summary.AverageScore = round2(total / float64(len(samples)))
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

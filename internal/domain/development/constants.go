package development

const (
	CourseNotStarted = "not_started"
	CourseInProgress = "in_progress"
	CourseCompleted  = "completed"
)

const (
	PlanInProgress = "in_progress"
	PlanCompleted  = "completed"
)

const (
	minProgress = 0
	maxProgress = 100
)

// CourseStatusFor derives the stored course status from a progress value.
func CourseStatusFor(progress float64) string {
	switch {
	case progress >= maxProgress:
		return CourseCompleted
	case progress > minProgress:
		return CourseInProgress
	}
	return CourseNotStarted
}

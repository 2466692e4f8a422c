package notifications

type Type string

const (
	TypeTaskAssigned      Type = "task_assigned"
	TypeTaskUpdate        Type = "task_update"
	TypePerformanceUpdate Type = "performance_update"
	TypeSkillUpdate       Type = "skill_update"
	TypeLearningUpdate    Type = "learning_update"
	TypeNotification      Type = "notification"
)

func AllTypes() []Type {
	return []Type{
		TypeTaskAssigned,
		TypeTaskUpdate,
		TypePerformanceUpdate,
		TypeSkillUpdate,
		TypeLearningUpdate,
		TypeNotification,
	}
}

// Inbox entry kinds stored with persisted notifications.
const (
	InboxTaskAssigned    = "task_assigned"
	InboxPlanAssigned    = "development_plan_assigned"
	InboxTaskStatusMoved = "task_status_changed"
)

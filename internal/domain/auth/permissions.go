package auth

import "context"

const (
	PermTasksRead         = "tasks.read"
	PermTasksUpdate       = "tasks.update"
	PermTasksAssign       = "tasks.assign"
	PermTeamRead          = "team.read"
	PermCompanyRead       = "company.read"
	PermDevelopmentWrite  = "development.write"
	PermDevelopmentAssign = "development.assign"
	PermNotificationsRead = "notifications.read"
	PermLiveUpdates       = "live.subscribe"
	PermSystemAdmin       = "admin.system"
)

var DefaultPermissions = []string{
	PermTasksRead,
	PermTasksUpdate,
	PermTasksAssign,
	PermTeamRead,
	PermCompanyRead,
	PermDevelopmentWrite,
	PermDevelopmentAssign,
	PermNotificationsRead,
	PermLiveUpdates,
	PermSystemAdmin,
}

var selfService = []string{
	PermTasksRead,
	PermTasksUpdate,
	PermDevelopmentWrite,
	PermNotificationsRead,
	PermLiveUpdates,
}

var RolePermissions = map[string][]string{
	RoleEmployee: selfService,
	RoleManager: append(append([]string{}, selfService...),
		PermTasksAssign,
		PermTeamRead,
		PermDevelopmentAssign,
	),
	RoleExecutive: append(append([]string{}, selfService...),
		PermCompanyRead,
	),
	RoleAdmin: append(append([]string{}, selfService...),
		PermCompanyRead,
		PermSystemAdmin,
	),
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

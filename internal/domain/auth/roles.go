package auth

const (
	RoleEmployee  = "employee"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
	RoleExecutive = "executive"
)

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin, RoleExecutive:
		return true
	}
	return false
}

// UserContext is the authenticated caller carried on a request context.
type UserContext struct {
	UserID       string
	EmployeeID   string
	DepartmentID string
	RoleName     string
}

package core

import "time"

type Employee struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Position     string     `json:"position"`
	DepartmentID string     `json:"departmentId"`
	HireDate     *time.Time `json:"hireDate,omitempty"`
	Role         string     `json:"role,omitempty"`
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ManagerID   string `json:"managerId,omitempty"`
}

// RoleManager is the account role that leads the department an employee
// belongs to.
const RoleManager = "manager"

// ManagedBy reports whether emp leads d: the recorded manager, or a member
// holding the manager role. manager_id is optional, so both count.
func (d Department) ManagedBy(emp Employee) bool {
	if emp.ID == "" {
		return false
	}
	if d.ManagerID != "" && emp.ID == d.ManagerID {
		return true
	}
	return emp.Role == RoleManager && emp.DepartmentID == d.ID
}

type Overview struct {
	Employees   int `json:"totalEmployees"`
	Departments int `json:"totalDepartments"`
	OpenTasks   int `json:"openTasks"`
	Courses     int `json:"totalCourses"`
}

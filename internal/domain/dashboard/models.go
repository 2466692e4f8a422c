package dashboard

import (
	"time"

	"hrportal/internal/domain/core"
	"hrportal/internal/domain/performance"
)

type ManagerDashboard struct {
	Department  core.Department          `json:"department"`
	Samples     []performance.Sample     `json:"teamMembers"`
	Summary     performance.GroupSummary `json:"departmentStats"`
	Skipped     []string                 `json:"skippedEmployees,omitempty"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

type DepartmentSummary struct {
	Department core.Department          `json:"department"`
	Summary    performance.GroupSummary `json:"summary"`
}

type ExecutiveDashboard struct {
	Company     performance.GroupSummary `json:"companyStats"`
	Departments []DepartmentSummary      `json:"departments"`
	Skipped     []string                 `json:"skippedEmployees,omitempty"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

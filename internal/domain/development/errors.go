package development

import "errors"

var (
	ErrSkillNotFound  = errors.New("skill not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
)

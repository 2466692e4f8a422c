package tasks

import "errors"

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidTask   = errors.New("invalid task")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrForbidden     = errors.New("forbidden")
)

package database

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("user does not own this task")
	// ErrAlreadyCompleted rejects a second completion of the same task.
	ErrAlreadyCompleted = errors.New("task is already completed")
	// ErrPartialWrite means a procrastination log could not be rolled back
	// after its detail row failed to insert.
	ErrPartialWrite = errors.New("partial procrastination log write")
)

package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures reported by the task engine.
type ErrorCode string

const (
	CodeEmptyTitle             ErrorCode = "EMPTY_TITLE"
	CodeEmptyDueDate           ErrorCode = "EMPTY_DUE_DATE"
	CodeInvalidDateFormat      ErrorCode = "INVALID_DATE_FORMAT"
	CodeInvalidPriority        ErrorCode = "INVALID_PRIORITY"
	CodeDuplicateTask          ErrorCode = "DUPLICATE_TASK"
	CodeTaskNotFound           ErrorCode = "TASK_NOT_FOUND"
	CodeAlreadyDone            ErrorCode = "ALREADY_DONE"
	CodeUnrecognizedRecurrence ErrorCode = "UNRECOGNIZED_RECURRENCE"
	CodeStoreIO                ErrorCode = "STORE_IO"
)

// Error is a classified, user-facing failure.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError attaches a classification to an underlying error.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	ErrEmptyTitle        = NewError(CodeEmptyTitle, "title must not be empty")
	ErrEmptyDueDate      = NewError(CodeEmptyDueDate, "due date must not be empty")
	ErrInvalidDateFormat = NewError(CodeInvalidDateFormat, "due date is invalid, use the YYYY-MM-DD format")
	ErrInvalidPriority   = NewError(CodeInvalidPriority, "priority is invalid, choose one of: Low, Medium, High")
)

// DuplicateTaskError reports a title/due-date collision.
func DuplicateTaskError(title string) *Error {
	return NewError(CodeDuplicateTask, fmt.Sprintf("task %q already exists with the same due date", title))
}

// TaskNotFoundError reports an unknown task id.
func TaskNotFoundError(id int64) *Error {
	return NewError(CodeTaskNotFound, fmt.Sprintf("task with id %d not found", id))
}

// AlreadyDoneError reports a repeated completion.
func AlreadyDoneError(id int64) *Error {
	return NewError(CodeAlreadyDone, fmt.Sprintf("task %d is already done", id))
}

// UnrecognizedRecurrenceError reports a recurring task whose pattern is not
// Daily, Weekly or Monthly. The completion itself has been saved.
func UnrecognizedRecurrenceError(id int64, pattern RecurrencePattern) *Error {
	return NewError(CodeUnrecognizedRecurrence,
		fmt.Sprintf("unknown recurrence pattern %q for task %d, no next instance created", pattern, id))
}

// IsCode reports whether err carries the given classification.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

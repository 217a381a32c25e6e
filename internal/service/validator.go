package service

import (
	"strings"

	"personal-planner/internal/model"
)

// Validate checks task input and returns the parsed due date. Checks run in
// a fixed order and stop at the first failure: title, due date presence,
// due date format, priority.
func Validate(title, dueDate, priority string) (model.Date, error) {
	if strings.TrimSpace(title) == "" {
		return model.Date{}, model.ErrEmptyTitle
	}
	if strings.TrimSpace(dueDate) == "" {
		return model.Date{}, model.ErrEmptyDueDate
	}
	due, err := model.ParseDate(dueDate)
	if err != nil {
		return model.Date{}, model.ErrInvalidDateFormat
	}
	if _, ok := model.ParsePriority(priority); !ok {
		return model.Date{}, model.ErrInvalidPriority
	}
	return due, nil
}

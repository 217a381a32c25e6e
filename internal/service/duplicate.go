package service

import (
	"strings"

	"personal-planner/internal/model"
)

// IsDuplicate reports whether tasks already holds a task with the same title
// (case-insensitive) and the same due date.
func IsDuplicate(title string, due model.Date, tasks []model.Task) bool {
	dueStr := due.String()
	for _, existing := range tasks {
		if strings.EqualFold(existing.Title, title) && existing.DueDate.String() == dueStr {
			return true
		}
	}
	return false
}

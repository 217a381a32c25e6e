package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority is the closed set of task priority levels.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists the accepted levels in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority matches raw exactly (case-sensitive) against the known levels.
func ParsePriority(raw string) (Priority, bool) {
	for _, p := range Priorities {
		if string(p) == raw {
			return p, true
		}
	}
	return "", false
}

// Status is the lifecycle state of a task. It only moves Pending -> Done.
type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
)

// RecurrencePattern controls the offset applied to the due date when a
// recurring task is completed. Values read from the store are kept verbatim,
// so unknown patterns survive a load and can be reported on completion.
type RecurrencePattern string

const (
	RecurDaily   RecurrencePattern = "Daily"
	RecurWeekly  RecurrencePattern = "Weekly"
	RecurMonthly RecurrencePattern = "Monthly"
)

// Canonical resolves p case-insensitively to one of the known patterns.
func (p RecurrencePattern) Canonical() (RecurrencePattern, bool) {
	for _, known := range []RecurrencePattern{RecurDaily, RecurWeekly, RecurMonthly} {
		if strings.EqualFold(string(p), string(known)) {
			return known, true
		}
	}
	return p, false
}

// Next returns the due date following due for the pattern.
// Monthly steps are clamped to the last day of the target month.
func (p RecurrencePattern) Next(due Date) (Date, bool) {
	canonical, ok := p.Canonical()
	if !ok {
		return Date{}, false
	}
	switch canonical {
	case RecurDaily:
		return due.AddDays(1), true
	case RecurWeekly:
		return due.AddDays(7), true
	default:
		return due.AddMonthsClamped(1), true
	}
}

// Task represents a single item in the planner.
type Task struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	DueDate           Date              `json:"due_date"`
	Priority          Priority          `json:"priority"`
	Status            Status            `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	LastUpdatedAt     time.Time         `json:"last_updated_at"`
	IsRecurring       bool              `json:"is_recurring"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern,omitempty"`
}

// IsDone reports whether the task has been completed.
func (t *Task) IsDone() bool {
	return t != nil && t.Status == StatusDone
}

// UnmarshalJSON tolerates records whose id is missing or not a number;
// such records load with ID 0 and are skipped by id scans and lookups.
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	aux := &struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	t.ID = numericID(aux.ID)
	return nil
}

func numericID(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f)
	}
	return 0
}

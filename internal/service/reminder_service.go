package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"personal-planner/internal/model"
	"personal-planner/internal/repository"
)

// Digest groups pending tasks relative to a given day.
type Digest struct {
	Day      model.Date
	Overdue  []model.Task
	DueToday []model.Task
	Upcoming []model.Task
}

// Empty reports whether no pending task needs attention.
func (d Digest) Empty() bool {
	return len(d.Overdue) == 0 && len(d.DueToday) == 0 && len(d.Upcoming) == 0
}

// ReminderService builds human-readable summaries of pending tasks.
type ReminderService struct {
	store        repository.TaskStore
	upcomingDays int
}

func NewReminderService(store repository.TaskStore, upcomingDays int) *ReminderService {
	if upcomingDays < 0 {
		upcomingDays = 0
	}
	return &ReminderService{store: store, upcomingDays: upcomingDays}
}

// Build collects pending tasks that are overdue, due on day, or due within
// the upcoming window. Each group is sorted by due date, then id.
func (s *ReminderService) Build(ctx context.Context, day model.Date) (Digest, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Digest{}, model.WrapError(model.CodeStoreIO, "load tasks", err)
	}

	digest := Digest{Day: day}
	horizon := day.AddDays(s.upcomingDays)
	for _, task := range tasks {
		if task.IsDone() {
			continue
		}
		switch {
		case task.DueDate.Before(day):
			digest.Overdue = append(digest.Overdue, task)
		case task.DueDate.Equal(day):
			digest.DueToday = append(digest.DueToday, task)
		case !task.DueDate.After(horizon):
			digest.Upcoming = append(digest.Upcoming, task)
		}
	}

	sortByDue(digest.Overdue)
	sortByDue(digest.DueToday)
	sortByDue(digest.Upcoming)
	return digest, nil
}

// DailySummary renders the digest for day as plain text.
func (s *ReminderService) DailySummary(ctx context.Context, day model.Date) (string, error) {
	digest, err := s.Build(ctx, day)
	if err != nil {
		return "", err
	}
	return FormatDigest(digest), nil
}

// FormatDigest renders a digest as plain text.
func FormatDigest(d Digest) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Daily report for %s\n", d.Day))

	writeGroup(&builder, "Overdue", d.Overdue, d.Day)
	writeGroup(&builder, "Due today", d.DueToday, d.Day)
	writeGroup(&builder, "Upcoming", d.Upcoming, d.Day)

	if d.Empty() {
		builder.WriteString("\nNothing pending.\n")
	}
	return strings.TrimSpace(builder.String())
}

func writeGroup(b *strings.Builder, heading string, tasks []model.Task, day model.Date) {
	if len(tasks) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\n%s:\n", heading))
	for _, task := range tasks {
		b.WriteString(formatTask(task, day))
	}
}

func formatTask(task model.Task, day model.Date) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  #%d [%s] %s", task.ID, task.Priority, strings.TrimSpace(task.Title)))

	switch days := day.DaysUntil(task.DueDate); {
	case days < 0:
		sb.WriteString(fmt.Sprintf(" (due %s, %d days late)", task.DueDate, -days))
	case days > 0:
		sb.WriteString(fmt.Sprintf(" (due %s, in %d days)", task.DueDate, days))
	}
	if task.IsRecurring {
		sb.WriteString(fmt.Sprintf(" [%s]", task.RecurrencePattern))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func sortByDue(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"personal-planner/internal/model"
	"personal-planner/internal/repository"
)

// memStore is an in-memory TaskStore that counts calls and injects failures.
type memStore struct {
	tasks   []model.Task
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(_ context.Context) ([]model.Task, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.Task(nil), m.tasks...), nil
}

func (m *memStore) Save(_ context.Context, tasks []model.Task) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tasks = append([]model.Task(nil), tasks...)
	return nil
}

// testClock starts at a fixed instant and advances one minute per call.
func testClock() func() time.Time {
	now := time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func newTestService(t *testing.T, store repository.TaskStore) *TaskService {
	t.Helper()
	svc, err := NewTaskService(context.Background(), store, WithClock(testClock()))
	if err != nil {
		t.Fatalf("NewTaskService: %v", err)
	}
	return svc
}

func recurringTask(id int64, due model.Date, pattern model.RecurrencePattern) model.Task {
	created := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	return model.Task{
		ID:                id,
		Title:             "Exercise",
		Description:       "Gym for one hour",
		DueDate:           due,
		Priority:          model.PriorityMedium,
		Status:            model.StatusPending,
		CreatedAt:         created,
		LastUpdatedAt:     created,
		IsRecurring:       true,
		RecurrencePattern: pattern,
	}
}

func TestCreateTask(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)

	task, err := svc.CreateTask(context.Background(), TaskInput{
		Title:       "Buy books",
		Description: "Software engineering books.",
		DueDate:     "2025-07-20",
		Priority:    "High",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if task.ID != 1 {
		t.Errorf("ID: got %d, want 1", task.ID)
	}
	if task.Status != model.StatusPending {
		t.Errorf("Status: got %s, want Pending", task.Status)
	}
	if task.DueDate.String() != "2025-07-20" || task.Priority != model.PriorityHigh {
		t.Errorf("fields: got %s / %s", task.DueDate, task.Priority)
	}
	if task.CreatedAt.IsZero() || !task.CreatedAt.Equal(task.LastUpdatedAt) {
		t.Errorf("timestamps: created %s, updated %s", task.CreatedAt, task.LastUpdatedAt)
	}
	if task.IsRecurring || task.RecurrencePattern != "" {
		t.Errorf("non-recurring task has pattern %q", task.RecurrencePattern)
	}
	if len(store.tasks) != 1 || store.saves != 1 {
		t.Errorf("store: %d tasks after %d saves", len(store.tasks), store.saves)
	}
}

func TestCreateTaskRecurringDefaultsToDaily(t *testing.T) {
	svc := newTestService(t, &memStore{})

	task, err := svc.CreateTask(context.Background(), TaskInput{
		Title:       "Exercise",
		DueDate:     "2025-07-21",
		Priority:    "Medium",
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if !task.IsRecurring || task.RecurrencePattern != model.RecurDaily {
		t.Errorf("recurrence: got %v / %q", task.IsRecurring, task.RecurrencePattern)
	}
}

func TestCreateTaskValidationSkipsStore(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	loadsAfterInit := store.loads

	_, err := svc.CreateTask(context.Background(), TaskInput{
		Title:    "",
		DueDate:  "not-a-date",
		Priority: "High",
	})
	if !model.IsCode(err, model.CodeEmptyTitle) {
		t.Fatalf("got %v, want EMPTY_TITLE", err)
	}
	if store.loads != loadsAfterInit || store.saves != 0 {
		t.Errorf("store touched: %d loads, %d saves", store.loads-loadsAfterInit, store.saves)
	}
}

func TestCreateTaskRejectsDuplicate(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, TaskInput{Title: "Buy books", DueDate: "2025-07-20", Priority: "High"}); err != nil {
		t.Fatalf("first CreateTask: %v", err)
	}

	_, err := svc.CreateTask(ctx, TaskInput{Title: "BUY BOOKS", DueDate: "2025-07-20", Priority: "Low"})
	if !model.IsCode(err, model.CodeDuplicateTask) {
		t.Fatalf("got %v, want DUPLICATE_TASK", err)
	}
	if len(store.tasks) != 1 || store.saves != 1 {
		t.Errorf("store: %d tasks after %d saves", len(store.tasks), store.saves)
	}

	// Same title on another day is a different task.
	next, err := svc.CreateTask(ctx, TaskInput{Title: "Buy books", DueDate: "2025-07-21", Priority: "High"})
	if err != nil {
		t.Fatalf("CreateTask other day: %v", err)
	}
	if next.ID != 2 {
		t.Errorf("duplicate must not consume an id: got %d, want 2", next.ID)
	}
}

func TestCreateTaskIDsSurviveRestart(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()
	svc := newTestService(t, store)

	for i, title := range []string{"a", "b", "c"} {
		task, err := svc.CreateTask(ctx, TaskInput{Title: title, DueDate: "2025-07-20", Priority: "Low"})
		if err != nil {
			t.Fatalf("CreateTask %s: %v", title, err)
		}
		if task.ID != int64(i+1) {
			t.Errorf("task %s: got id %d, want %d", title, task.ID, i+1)
		}
	}

	restarted := newTestService(t, store)
	task, err := restarted.CreateTask(ctx, TaskInput{Title: "d", DueDate: "2025-07-20", Priority: "Low"})
	if err != nil {
		t.Fatalf("CreateTask after restart: %v", err)
	}
	if task.ID != 4 {
		t.Errorf("after restart: got id %d, want 4", task.ID)
	}
}

func TestCreateTaskSeedsFromExistingIDs(t *testing.T) {
	store := &memStore{tasks: []model.Task{
		{ID: 0, Title: "legacy", DueDate: model.NewDate(2025, 1, 1)},
		{ID: 42, Title: "old", DueDate: model.NewDate(2025, 1, 2)},
		{ID: 7, Title: "older", DueDate: model.NewDate(2025, 1, 3)},
	}}
	svc := newTestService(t, store)

	task, err := svc.CreateTask(context.Background(), TaskInput{Title: "new", DueDate: "2025-07-20", Priority: "Low"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != 43 {
		t.Errorf("got id %d, want 43", task.ID)
	}
}

func TestCreateTaskSaveFailure(t *testing.T) {
	diskFull := errors.New("disk full")
	store := &memStore{saveErr: diskFull}
	svc := newTestService(t, store)

	task, err := svc.CreateTask(context.Background(), TaskInput{Title: "a", DueDate: "2025-07-20", Priority: "Low"})
	if task != nil {
		t.Errorf("expected no task, got %+v", task)
	}
	if !model.IsCode(err, model.CodeStoreIO) || !errors.Is(err, diskFull) {
		t.Fatalf("got %v, want STORE_IO wrapping disk full", err)
	}
	if len(store.tasks) != 0 {
		t.Errorf("store should be unchanged, has %d tasks", len(store.tasks))
	}
}

func TestNewTaskServiceLoadFailure(t *testing.T) {
	_, err := NewTaskService(context.Background(), &memStore{loadErr: errors.New("permission denied")})
	if !model.IsCode(err, model.CodeStoreIO) {
		t.Fatalf("got %v, want STORE_IO", err)
	}
}

func TestCompleteTaskRecurrence(t *testing.T) {
	tests := []struct {
		name    string
		due     model.Date
		pattern model.RecurrencePattern
		wantDue string
		wantPat model.RecurrencePattern
	}{
		{"daily", model.NewDate(2025, 7, 21), model.RecurDaily, "2025-07-22", model.RecurDaily},
		{"weekly", model.NewDate(2025, 7, 21), model.RecurWeekly, "2025-07-28", model.RecurWeekly},
		{"monthly", model.NewDate(2025, 7, 21), model.RecurMonthly, "2025-08-21", model.RecurMonthly},
		{"monthly end of january", model.NewDate(2025, 1, 31), model.RecurMonthly, "2025-02-28", model.RecurMonthly},
		{"monthly leap year", model.NewDate(2024, 1, 31), model.RecurMonthly, "2024-02-29", model.RecurMonthly},
		{"lowercase pattern kept", model.NewDate(2025, 7, 21), "weekly", "2025-07-28", "weekly"},
		{"missing pattern falls back to daily", model.NewDate(2025, 12, 31), "", "2026-01-01", model.RecurDaily},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			original := recurringTask(3, tc.due, tc.pattern)
			store := &memStore{tasks: []model.Task{original}}
			svc := newTestService(t, store)

			next, err := svc.CompleteTask(context.Background(), 3)
			if err != nil {
				t.Fatalf("CompleteTask: %v", err)
			}
			if next == nil {
				t.Fatal("expected next instance")
			}

			if next.ID != 4 {
				t.Errorf("next ID: got %d, want 4", next.ID)
			}
			if next.DueDate.String() != tc.wantDue {
				t.Errorf("next due: got %s, want %s", next.DueDate, tc.wantDue)
			}
			if next.Status != model.StatusPending || !next.IsRecurring || next.RecurrencePattern != tc.wantPat {
				t.Errorf("next state: %s / %v / %q", next.Status, next.IsRecurring, next.RecurrencePattern)
			}
			if next.Title != original.Title || next.Description != original.Description || next.Priority != original.Priority {
				t.Errorf("copied fields: got %+v", next)
			}
			if !next.CreatedAt.After(original.CreatedAt) || !next.CreatedAt.Equal(next.LastUpdatedAt) {
				t.Errorf("next timestamps: %s / %s", next.CreatedAt, next.LastUpdatedAt)
			}

			if len(store.tasks) != 2 {
				t.Fatalf("store: got %d tasks, want 2", len(store.tasks))
			}
			done := store.tasks[0]
			if done.Status != model.StatusDone || !done.LastUpdatedAt.After(original.LastUpdatedAt) {
				t.Errorf("completed task: %s updated %s", done.Status, done.LastUpdatedAt)
			}
			if done.RecurrencePattern != tc.pattern {
				t.Errorf("completed task pattern changed to %q", done.RecurrencePattern)
			}
			if store.tasks[1].ID != next.ID {
				t.Errorf("next instance not appended: %+v", store.tasks[1])
			}
		})
	}
}

func TestCompleteTaskNonRecurring(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, TaskInput{Title: "Buy books", DueDate: "2025-07-20", Priority: "High"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	next, err := svc.CompleteTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if next != nil {
		t.Fatalf("expected no next instance, got %+v", next)
	}
	if len(store.tasks) != 1 {
		t.Fatalf("store: got %d tasks, want 1", len(store.tasks))
	}
	done := store.tasks[0]
	if done.Status != model.StatusDone {
		t.Errorf("Status: got %s, want Done", done.Status)
	}
	if !done.LastUpdatedAt.After(created.LastUpdatedAt) {
		t.Errorf("LastUpdatedAt not refreshed: %s", done.LastUpdatedAt)
	}
	if !done.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: %s", done.CreatedAt)
	}
}

func TestCompleteTaskUnknownID(t *testing.T) {
	store := &memStore{}
	for id := int64(1); id <= 5; id++ {
		store.tasks = append(store.tasks, model.Task{ID: id, Title: "t", DueDate: model.NewDate(2025, 7, int(id)), Status: model.StatusPending})
	}
	svc := newTestService(t, store)

	next, err := svc.CompleteTask(context.Background(), 99999)
	if next != nil || !model.IsCode(err, model.CodeTaskNotFound) {
		t.Fatalf("got %v / %v, want TASK_NOT_FOUND", next, err)
	}
	if store.saves != 0 {
		t.Errorf("store written %d times", store.saves)
	}
	for _, task := range store.tasks {
		if task.Status != model.StatusPending {
			t.Errorf("task %d modified", task.ID)
		}
	}
}

func TestCompleteTaskIgnoresInvalidIDs(t *testing.T) {
	store := &memStore{tasks: []model.Task{{ID: 0, Title: "legacy", Status: model.StatusPending}}}
	svc := newTestService(t, store)

	if _, err := svc.CompleteTask(context.Background(), 0); !model.IsCode(err, model.CodeTaskNotFound) {
		t.Fatalf("got %v, want TASK_NOT_FOUND", err)
	}
}

func TestCompleteTaskUnrecognizedPattern(t *testing.T) {
	store := &memStore{tasks: []model.Task{recurringTask(1, model.NewDate(2025, 7, 21), "Yearly")}}
	svc := newTestService(t, store)

	next, err := svc.CompleteTask(context.Background(), 1)
	if next != nil {
		t.Fatalf("expected no next instance, got %+v", next)
	}
	if !model.IsCode(err, model.CodeUnrecognizedRecurrence) {
		t.Fatalf("got %v, want UNRECOGNIZED_RECURRENCE", err)
	}
	if store.saves != 1 || len(store.tasks) != 1 {
		t.Fatalf("store: %d saves, %d tasks", store.saves, len(store.tasks))
	}
	if store.tasks[0].Status != model.StatusDone {
		t.Errorf("completion not persisted: %s", store.tasks[0].Status)
	}
}

func TestCompleteTaskAlreadyDone(t *testing.T) {
	task := recurringTask(1, model.NewDate(2025, 7, 21), model.RecurDaily)
	task.Status = model.StatusDone
	store := &memStore{tasks: []model.Task{task}}
	svc := newTestService(t, store)

	next, err := svc.CompleteTask(context.Background(), 1)
	if next != nil || !model.IsCode(err, model.CodeAlreadyDone) {
		t.Fatalf("got %v / %v, want ALREADY_DONE", next, err)
	}
	if store.saves != 0 || len(store.tasks) != 1 {
		t.Errorf("store: %d saves, %d tasks", store.saves, len(store.tasks))
	}
}

func TestCompleteTaskSaveFailure(t *testing.T) {
	store := &memStore{tasks: []model.Task{recurringTask(1, model.NewDate(2025, 7, 21), model.RecurDaily)}}
	svc := newTestService(t, store)
	store.saveErr = errors.New("read-only file system")

	next, err := svc.CompleteTask(context.Background(), 1)
	if next != nil || !model.IsCode(err, model.CodeStoreIO) {
		t.Fatalf("got %v / %v, want STORE_IO", next, err)
	}
	if store.tasks[0].Status != model.StatusPending || len(store.tasks) != 1 {
		t.Errorf("failed save must leave the store untouched: %+v", store.tasks)
	}
}

func TestListAndGetTask(t *testing.T) {
	done := recurringTask(1, model.NewDate(2025, 7, 20), model.RecurDaily)
	done.Status = model.StatusDone
	pending := recurringTask(2, model.NewDate(2025, 7, 21), model.RecurDaily)
	store := &memStore{tasks: []model.Task{done, pending}}
	svc := newTestService(t, store)
	ctx := context.Background()

	all, err := svc.ListTasks(ctx, ListFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("ListTasks all: %d, %v", len(all), err)
	}
	onlyPending, err := svc.ListTasks(ctx, ListFilter{Status: "pending"})
	if err != nil || len(onlyPending) != 1 || onlyPending[0].ID != 2 {
		t.Fatalf("ListTasks pending: %+v, %v", onlyPending, err)
	}

	got, err := svc.GetTask(ctx, 1)
	if err != nil || got.Status != model.StatusDone {
		t.Fatalf("GetTask: %+v, %v", got, err)
	}
	if _, err := svc.GetTask(ctx, 9); !model.IsCode(err, model.CodeTaskNotFound) {
		t.Errorf("GetTask unknown: %v", err)
	}
	if store.saves != 0 {
		t.Errorf("read operations wrote %d times", store.saves)
	}
}

func TestCreatedTaskRoundTripsThroughJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	svc := newTestService(t, repository.NewJSONFileStore(path))
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, TaskInput{
		Title:       "Exercise",
		Description: "Gym for one hour",
		DueDate:     "2025-07-21",
		Priority:    "Medium",
		IsRecurring: true,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	loaded, err := repository.NewJSONFileStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("got %d tasks, want 1", len(loaded))
	}
	got := loaded[0]
	if got.ID != created.ID || got.Title != created.Title || got.Description != created.Description {
		t.Errorf("identity fields: got %+v, want %+v", got, *created)
	}
	if got.DueDate.String() != "2025-07-21" || got.Priority != created.Priority || got.Status != created.Status {
		t.Errorf("fields: got %s / %s / %s", got.DueDate, got.Priority, got.Status)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) || !got.LastUpdatedAt.Equal(created.LastUpdatedAt) {
		t.Errorf("timestamps: got %s / %s", got.CreatedAt, got.LastUpdatedAt)
	}
	if got.IsRecurring != created.IsRecurring || got.RecurrencePattern != created.RecurrencePattern {
		t.Errorf("recurrence: got %v / %q", got.IsRecurring, got.RecurrencePattern)
	}
}

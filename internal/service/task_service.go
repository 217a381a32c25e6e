package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"personal-planner/internal/model"
	"personal-planner/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	IsRecurring bool
}

// ListFilter narrows ListTasks results. Zero value matches everything.
type ListFilter struct {
	Status model.Status
}

// TaskService owns the task lifecycle: create, complete and the spawning of
// the next instance of a recurring task. Every write loads the whole
// collection, mutates it and saves it back.
type TaskService struct {
	store  repository.TaskStore
	ids    *IDAllocator
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a TaskService.
type Option func(*TaskService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *TaskService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTaskService loads the collection once to seed the id allocator.
func NewTaskService(ctx context.Context, store repository.TaskStore, opts ...Option) (*TaskService, error) {
	s := &TaskService{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := store.Load(ctx)
	if err != nil {
		s.logger.Error("seed task ids", zap.Error(err))
		return nil, model.WrapError(model.CodeStoreIO, "load tasks", err)
	}
	s.ids = NewIDAllocator(tasks)
	s.logger.Debug("task service ready", zap.Int("tasks", len(tasks)), zap.Int64("next_id", s.ids.Peek()))
	return s, nil
}

// CreateTask validates input, rejects duplicates and appends a new pending
// task. Recurring tasks always get the Daily pattern.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	log := s.opLogger("create")

	due, err := Validate(input.Title, input.DueDate, input.Priority)
	if err != nil {
		log.Info("task rejected", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}

	tasks, err := s.load(ctx, log)
	if err != nil {
		return nil, err
	}

	if IsDuplicate(input.Title, due, tasks) {
		log.Info("duplicate task", zap.String("title", input.Title), zap.Stringer("due_date", due))
		return nil, model.DuplicateTaskError(input.Title)
	}

	now := s.clock()
	task := model.Task{
		ID:            s.ids.Next(),
		Title:         input.Title,
		Description:   input.Description,
		DueDate:       due,
		Priority:      model.Priority(input.Priority),
		Status:        model.StatusPending,
		CreatedAt:     now,
		LastUpdatedAt: now,
		IsRecurring:   input.IsRecurring,
	}
	if input.IsRecurring {
		task.RecurrencePattern = model.RecurDaily
	}

	tasks = append(tasks, task)
	if err := s.save(ctx, log, tasks); err != nil {
		return nil, err
	}

	log.Info("task created", zap.Int64("id", task.ID), zap.String("title", task.Title))
	return &task, nil
}

// CompleteTask marks the task done and, for recurring tasks, appends the
// next instance and returns it. A nil task with a nil error means the task
// was completed and nothing was spawned.
func (s *TaskService) CompleteTask(ctx context.Context, id int64) (*model.Task, error) {
	log := s.opLogger("complete").With(zap.Int64("id", id))

	tasks, err := s.load(ctx, log)
	if err != nil {
		return nil, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		log.Info("task not found")
		return nil, model.TaskNotFoundError(id)
	}
	if tasks[idx].IsDone() {
		log.Info("task already done")
		return nil, model.AlreadyDoneError(id)
	}

	now := s.clock()
	completed := &tasks[idx]
	completed.Status = model.StatusDone
	completed.LastUpdatedAt = now
	log.Info("task completed", zap.String("title", completed.Title))

	if !completed.IsRecurring {
		return nil, s.save(ctx, log, tasks)
	}

	pattern := completed.RecurrencePattern
	if pattern == "" {
		pattern = model.RecurDaily
	}
	nextDue, ok := pattern.Next(completed.DueDate)
	if !ok {
		log.Warn("unknown recurrence pattern", zap.String("pattern", string(pattern)))
		if err := s.save(ctx, log, tasks); err != nil {
			return nil, err
		}
		return nil, model.UnrecognizedRecurrenceError(id, pattern)
	}

	next := model.Task{
		ID:                s.ids.Next(),
		Title:             completed.Title,
		Description:       completed.Description,
		DueDate:           nextDue,
		Priority:          completed.Priority,
		Status:            model.StatusPending,
		CreatedAt:         now,
		LastUpdatedAt:     now,
		IsRecurring:       true,
		RecurrencePattern: pattern,
	}
	tasks = append(tasks, next)
	if err := s.save(ctx, log, tasks); err != nil {
		return nil, err
	}

	log.Info("next instance created", zap.Int64("next_id", next.ID), zap.Stringer("due_date", next.DueDate))
	return &next, nil
}

// ListTasks returns stored tasks in collection order.
func (s *TaskService) ListTasks(ctx context.Context, filter ListFilter) ([]model.Task, error) {
	tasks, err := s.load(ctx, s.opLogger("list"))
	if err != nil {
		return nil, err
	}
	if filter.Status == "" {
		return tasks, nil
	}

	matched := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.EqualFold(string(t.Status), string(filter.Status)) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// GetTask returns a single task by id.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	tasks, err := s.load(ctx, s.opLogger("get"))
	if err != nil {
		return nil, err
	}
	idx := indexOf(tasks, id)
	if idx < 0 {
		return nil, model.TaskNotFoundError(id)
	}
	task := tasks[idx]
	return &task, nil
}

func (s *TaskService) load(ctx context.Context, log *zap.Logger) ([]model.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		log.Error("load tasks", zap.Error(err))
		return nil, model.WrapError(model.CodeStoreIO, "load tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) save(ctx context.Context, log *zap.Logger, tasks []model.Task) error {
	if err := s.store.Save(ctx, tasks); err != nil {
		log.Error("save tasks", zap.Error(err))
		return model.WrapError(model.CodeStoreIO, "save tasks", err)
	}
	return nil
}

func (s *TaskService) opLogger(op string) *zap.Logger {
	return s.logger.With(zap.String("op", op), zap.String("op_id", uuid.NewString()))
}

// clock drops the monotonic reading so stored and in-memory values match.
func (s *TaskService) clock() time.Time {
	return s.now().Round(0)
}

// indexOf finds id by linear scan. Records without a valid id never match.
func indexOf(tasks []model.Task, id int64) int {
	if id <= 0 {
		return -1
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

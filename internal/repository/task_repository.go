package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"personal-planner/internal/model"
)

// taskRecord is the row form of a task. Seq keeps collection order.
type taskRecord struct {
	Seq               uint  `gorm:"primaryKey;autoIncrement"`
	TaskID            int64 `gorm:"column:task_id;index"`
	Title             string
	Description       string
	DueDate           string
	Priority          string
	Status            string
	Created           time.Time `gorm:"column:created_at"`
	LastUpdated       time.Time `gorm:"column:last_updated_at"`
	IsRecurring       bool      `gorm:"default:false"`
	RecurrencePattern string
}

func (taskRecord) TableName() string { return "tasks" }

// SQLStore persists the collection in a SQLite table through gorm.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context) ([]model.Task, error) {
	var rows []taskRecord
	if err := s.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("load task %d: %w", row.TaskID, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Save replaces the table contents in a single transaction.
func (s *SQLStore) Save(ctx context.Context, tasks []model.Task) error {
	rows := make([]taskRecord, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, recordFromModel(task))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&taskRecord{}).Error; err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return fmt.Errorf("insert tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func recordFromModel(t model.Task) taskRecord {
	return taskRecord{
		TaskID:            t.ID,
		Title:             t.Title,
		Description:       t.Description,
		DueDate:           t.DueDate.String(),
		Priority:          string(t.Priority),
		Status:            string(t.Status),
		Created:           t.CreatedAt,
		LastUpdated:       t.LastUpdatedAt,
		IsRecurring:       t.IsRecurring,
		RecurrencePattern: string(t.RecurrencePattern),
	}
}

func (r taskRecord) toModel() (model.Task, error) {
	var due model.Date
	if err := due.UnmarshalText([]byte(r.DueDate)); err != nil {
		return model.Task{}, err
	}
	return model.Task{
		ID:                r.TaskID,
		Title:             r.Title,
		Description:       r.Description,
		DueDate:           due,
		Priority:          model.Priority(r.Priority),
		Status:            model.Status(r.Status),
		CreatedAt:         r.Created,
		LastUpdatedAt:     r.LastUpdated,
		IsRecurring:       r.IsRecurring,
		RecurrencePattern: model.RecurrencePattern(r.RecurrencePattern),
	}, nil
}

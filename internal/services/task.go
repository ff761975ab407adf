package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/whyteferrari/RECALLR/types"
)

// TaskRepository defines persistence operations for study tasks.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	SetCompleted(ctx context.Context, userID, taskID int, completed bool) error
	Delete(ctx context.Context, userID, taskID int) error
}

// TaskInput is the form for scheduling a task.
type TaskInput struct {
	DeckID   int    `json:"deck_id" validate:"required,gte=1"`
	TaskTime string `json:"task_time" validate:"required"`
	Color    string `json:"color" validate:"required,max=32"`
}

var taskTimeLayouts = []string{"15:04:05", "15:04"}

// TaskService encapsulates task use-cases.
type TaskService struct {
	repo  TaskRepository
	decks DeckAuthorizer
}

func NewTaskService(repo TaskRepository, decks DeckAuthorizer) *TaskService {
	return &TaskService{repo: repo, decks: decks}
}

func (s *TaskService) List(ctx context.Context, userID int) ([]types.Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create schedules a task on one of the user's decks.
func (s *TaskService) Create(ctx context.Context, userID int, input TaskInput) (types.Task, error) {
	input.TaskTime = strings.TrimSpace(input.TaskTime)
	input.Color = strings.TrimSpace(input.Color)
	if err := validateStruct(input, ""); err != nil {
		return types.Task{}, err
	}

	taskTime, err := parseTaskTime(input.TaskTime)
	if err != nil {
		return types.Task{}, err
	}

	deck, err := s.decks.Authorize(ctx, userID, input.DeckID)
	if err != nil {
		return types.Task{}, err
	}

	task, err := s.repo.Create(ctx, types.Task{
		UserID:   userID,
		DeckID:   deck.ID,
		TaskTime: taskTime,
		Color:    input.Color,
	})
	if err != nil {
		return types.Task{}, fmt.Errorf("create task: %w", err)
	}
	task.DeckName = deck.Name
	return task, nil
}

func (s *TaskService) SetCompleted(ctx context.Context, userID, taskID int, completed bool) error {
	return s.repo.SetCompleted(ctx, userID, taskID, completed)
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int) error {
	return s.repo.Delete(ctx, userID, taskID)
}

// parseTaskTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func parseTaskTime(raw string) (string, error) {
	for _, layout := range taskTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", invalid("task_time", "must be formatted as HH:MM or HH:MM:SS")
}

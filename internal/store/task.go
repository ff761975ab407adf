package store

import (
	"context"
	"time"

	"github.com/whyteferrari/RECALLR/types"
)

// TaskRepository handles persistence for study tasks.
type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int) ([]types.Task, error) {
	const query = `
		SELECT t.task_id, t.user_id, t.deck_id, d.name, t.task_time::text, t.color, t.completed, t.created_at
		FROM tasks t
		JOIN decks d ON d.deck_id = t.deck_id
		WHERE t.user_id = $1
		ORDER BY t.task_time, t.task_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		var task types.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.DeckID,
			&task.DeckName,
			&task.TaskTime,
			&task.Color,
			&task.Completed,
			&task.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	task.CreatedAt = time.Now()

	const query = `
		INSERT INTO tasks (user_id, deck_id, task_time, color, completed, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING task_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.DeckID,
		task.TaskTime,
		task.Color,
		task.CreatedAt,
	).Scan(&task.ID); err != nil {
		return types.Task{}, err
	}
	task.Completed = false
	return task, nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, userID, taskID int, completed bool) error {
	const query = `UPDATE tasks SET completed = $1 WHERE task_id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, completed, taskID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID int) error {
	const query = `DELETE FROM tasks WHERE task_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

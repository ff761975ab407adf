package types

import "time"

// Task is a scheduled reminder to study a specific deck.
type Task struct {
	// ID is the unique identifier of the task.
	ID int `json:"id" db:"task_id"`

	// UserID identifies the user that owns the task.
	UserID int `json:"user_id" db:"user_id"`

	// DeckID identifies the deck to study.
	DeckID int `json:"deck_id" db:"deck_id"`

	// DeckName is the name of the referenced deck. It is only populated
	// by listing queries.
	DeckName string `json:"deck_name,omitempty" db:"deck_name"`

	// TaskTime is the scheduled time of day, formatted as HH:MM:SS.
	TaskTime string `json:"task_time" db:"task_time"`

	// Color is the display color of the task.
	Color string `json:"color" db:"color"`

	// Completed reports whether the user checked the task off.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is the timestamp at which the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

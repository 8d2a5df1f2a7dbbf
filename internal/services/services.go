package services

import (
	"context"
	"errors"

	"github.com/adanyl0v/todo-crud/internal/models"
)

var ErrTodoNotFound = errors.New("todo not found")

type TodoService interface {
	// EnsureSchema creates the todos table if it doesn't exist yet.
	// It is safe to call on every startup.
	EnsureSchema(ctx context.Context) error

	// ListTodos returns every stored todo in the order the database
	// yields them. An empty table results in an empty, non-nil slice.
	ListTodos(ctx context.Context) ([]*models.Todo, error)

	// CreateTodo inserts a todo with the given description and a false
	// status and returns it together with the generated ID.
	CreateTodo(ctx context.Context, description string) (*models.Todo, error)

	// UpdateTodo overwrites both the description and the status of the
	// todo with the given ID.
	//
	// It returns ErrTodoNotFound if no todo has the given ID.
	UpdateTodo(ctx context.Context, params UpdateTodoParams) error

	// DeleteTodo removes the todo with the given ID.
	//
	// It returns ErrTodoNotFound if no todo has the given ID.
	DeleteTodo(ctx context.Context, id int64) error
}

type UpdateTodoParams struct {
	ID          int64
	Description string
	Status      bool
}

package services

import (
	"context"
	"errors"

	"github.com/dkotenko/go-todos/internal/models"
)

var (
	ErrTodoNotFound     = errors.New("todo not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

type TodoService interface {
	// ListTodos returns every todo ordered by id descending,
	// so the most recently created one comes first.
	//
	// An empty table yields an empty slice, not an error.
	ListTodos(ctx context.Context) ([]*models.Todo, error)

	// CreateTodo inserts a todo with the given title and Done set
	// to false. The returned record carries the id and created_at
	// assigned by the store.
	CreateTodo(ctx context.Context, title string) (*models.Todo, error)

	// UpdateTodoFields applies a partial update touching exactly
	// the fields present in params; absent fields keep their
	// stored values.
	//
	// It returns ErrNoFieldsToUpdate without issuing any SQL if
	// params is empty, or ErrTodoNotFound if no row has the
	// given id.
	UpdateTodoFields(ctx context.Context, id int64, params UpdateTodoParams) error

	// DeleteTodo removes the todo with the given id.
	//
	// It returns ErrTodoNotFound if no row has the given id.
	DeleteTodo(ctx context.Context, id int64) error
}

// UpdateTodoParams is a sparse field set: a nil field is left
// untouched in storage.
type UpdateTodoParams struct {
	Title *string
	Done  *bool
}

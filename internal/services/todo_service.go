package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/dkotenko/go-todos/internal/models"
)

// Querier is the subset of pgxpool.Pool the service issues
// statements through. Every operation is a single auto-committed
// statement, so the pool's per-call connection scoping is the
// whole unit of work.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type todoServiceImpl struct {
	logger zerolog.Logger
	db     Querier
}

func NewTodoService(
	logger zerolog.Logger,
	db Querier,
) TodoService {
	return &todoServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *todoServiceImpl) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	const selectTodosQuery = `
SELECT id,
       title,
       done,
       created_at
FROM todos
ORDER BY id DESC
`
	rows, err := s.db.Query(ctx, selectTodosQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select todos")
		return nil, err
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo := new(models.Todo)
		// done is stored as a smallint (0/1); the raw
		// representation must not leak past this scan.
		var done int16
		err = rows.Scan(
			&todo.ID,
			&todo.Title,
			&done,
			&todo.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan todo")
			return nil, err
		}
		todo.Done = done != 0
		todos = append(todos, todo)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(todos)).
		Msg("selected todos")

	return todos, nil
}

func (s *todoServiceImpl) CreateTodo(ctx context.Context, title string) (*models.Todo, error) {
	todo := &models.Todo{
		Title: title,
	}

	const insertTodoQuery = `
INSERT INTO todos (title, done)
VALUES ($1, 0)
RETURNING id, created_at
`
	err := s.db.QueryRow(
		ctx,
		insertTodoQuery,
		todo.Title,
	).Scan(
		&todo.ID,
		&todo.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.StringDataRightTruncationDataException {
			s.logger.Error().
				Str("code", pgErr.Code).
				Int("title_length", len(title)).
				Msg("title exceeds column limit")
			return nil, err
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return nil, err
	}
	s.logger.Debug().
		Int64("todo_id", todo.ID).
		Msg("inserted todo")

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	return todo, nil
}

func (s *todoServiceImpl) UpdateTodoFields(ctx context.Context, id int64, params UpdateTodoParams) error {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if params.Title != nil {
		args = append(args, *params.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if params.Done != nil {
		done := int16(0)
		if *params.Done {
			done = 1
		}
		args = append(args, done)
		sets = append(sets, fmt.Sprintf("done = $%d", len(args)))
	}

	if len(sets) == 0 {
		s.logger.Warn().
			Int64("todo_id", id).
			Msg("no fields to update")
		return ErrNoFieldsToUpdate
	}

	args = append(args, id)
	updateTodoQuery := fmt.Sprintf("UPDATE todos SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, updateTodoQuery, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to update todo")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("todo_id", id).
			Msg("todo not found")
		return ErrTodoNotFound
	}
	s.logger.Debug().
		Int64("todo_id", id).
		Int("fields", len(sets)).
		Msg("updated todo")

	s.logger.Info().
		Int64("todo_id", id).
		Msg("updated todo")
	return nil
}

func (s *todoServiceImpl) DeleteTodo(ctx context.Context, id int64) error {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1
`
	tag, err := s.db.Exec(
		ctx,
		deleteTodoQuery,
		id,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("todo_id", id).
			Msg("todo not found")
		return ErrTodoNotFound
	}
	s.logger.Debug().
		Int64("todo_id", id).
		Msg("deleted todo")

	s.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	return nil
}

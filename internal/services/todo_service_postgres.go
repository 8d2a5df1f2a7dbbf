package services

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-crud/internal/models"
)

type postgresTodoServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresTodoService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TodoService {
	return &postgresTodoServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *postgresTodoServiceImpl) EnsureSchema(ctx context.Context) error {
	const createTableQuery = `
CREATE TABLE IF NOT EXISTS todos (
    id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    description TEXT    NOT NULL,
    status      BOOLEAN NOT NULL DEFAULT FALSE
)
`
	_, err := s.pgPool.Exec(ctx, createTableQuery)
	if err != nil {
		s.logError(err).Msg("failed to create todos table")
		return err
	}

	s.logger.Debug().Msg("ensured todos table")
	return nil
}

func (s *postgresTodoServiceImpl) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	const selectTodosQuery = `
SELECT id, description, status
FROM todos
`
	rows, err := s.pgPool.Query(ctx, selectTodosQuery)
	if err != nil {
		s.logError(err).Msg("failed to select todos")
		return nil, err
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo := new(models.Todo)
		err = rows.Scan(
			&todo.ID,
			&todo.Description,
			&todo.Status,
		)
		if err != nil {
			s.logError(err).Msg("failed to scan todo")
			return nil, err
		}
		todos = append(todos, todo)
	}

	err = rows.Err()
	if err != nil {
		s.logError(err).Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(todos)).
		Msg("selected todos")
	return todos, nil
}

func (s *postgresTodoServiceImpl) CreateTodo(ctx context.Context, description string) (*models.Todo, error) {
	todo := &models.Todo{
		Description: description,
		Status:      false,
	}

	const insertTodoQuery = `
INSERT INTO todos (description, status)
VALUES ($1, $2)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTodoQuery,
		todo.Description,
		todo.Status,
	).Scan(&todo.ID)
	if err != nil {
		s.logError(err).Msg("failed to insert todo")
		return nil, err
	}

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	return todo, nil
}

func (s *postgresTodoServiceImpl) UpdateTodo(ctx context.Context, params UpdateTodoParams) error {
	const updateTodoQuery = `
UPDATE todos
SET description = $1,
    status = $2
WHERE id = $3
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateTodoQuery,
		params.Description,
		params.Status,
		params.ID,
	)
	if err != nil {
		s.logError(err).
			Int64("todo_id", params.ID).
			Msg("failed to update todo")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Int64("todo_id", params.ID).
			Msg("todo not found")
		return ErrTodoNotFound
	}

	s.logger.Info().
		Int64("todo_id", params.ID).
		Bool("status", params.Status).
		Msg("updated todo")
	return nil
}

func (s *postgresTodoServiceImpl) DeleteTodo(ctx context.Context, id int64) error {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteTodoQuery, id)
	if err != nil {
		s.logError(err).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Int64("todo_id", id).
			Msg("todo not found")
		return ErrTodoNotFound
	}

	s.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	return nil
}

// logError attaches the SQLSTATE of server-side errors so constraint
// violations can be told apart from connectivity problems in the logs.
func (s *postgresTodoServiceImpl) logError(err error) *zerolog.Event {
	event := s.logger.Error().Err(err)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		event = event.
			Str("sqlstate", pgErr.Code).
			Bool("constraint_violation", pgerrcode.IsIntegrityConstraintViolation(pgErr.Code))
	}
	return event
}

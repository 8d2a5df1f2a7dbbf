package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/todo-crud/internal/models"
)

type sqliteTodoServiceImpl struct {
	logger zerolog.Logger
	db     *sql.DB
}

func NewSQLiteTodoService(
	logger zerolog.Logger,
	db *sql.DB,
) TodoService {
	return &sqliteTodoServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *sqliteTodoServiceImpl) EnsureSchema(ctx context.Context) error {
	const createTableQuery = `
CREATE TABLE IF NOT EXISTS todos (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT    NOT NULL,
    status      BOOLEAN NOT NULL DEFAULT FALSE
)
`
	_, err := s.db.ExecContext(ctx, createTableQuery)
	if err != nil {
		s.logError(err).Msg("failed to create todos table")
		return err
	}

	s.logger.Debug().Msg("ensured todos table")
	return nil
}

func (s *sqliteTodoServiceImpl) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	const selectTodosQuery = `
SELECT id, description, status
FROM todos
`
	rows, err := s.db.QueryContext(ctx, selectTodosQuery)
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

func (s *sqliteTodoServiceImpl) CreateTodo(ctx context.Context, description string) (*models.Todo, error) {
	todo := &models.Todo{
		Description: description,
		Status:      false,
	}

	const insertTodoQuery = `
INSERT INTO todos (description, status)
VALUES (?, ?)
`
	result, err := s.db.ExecContext(
		ctx,
		insertTodoQuery,
		todo.Description,
		todo.Status,
	)
	if err != nil {
		s.logError(err).Msg("failed to insert todo")
		return nil, err
	}

	todo.ID, err = result.LastInsertId()
	if err != nil {
		s.logError(err).Msg("failed to get inserted todo id")
		return nil, err
	}

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	return todo, nil
}

func (s *sqliteTodoServiceImpl) UpdateTodo(ctx context.Context, params UpdateTodoParams) error {
	const updateTodoQuery = `
UPDATE todos
SET description = ?,
    status = ?
WHERE id = ?
`
	result, err := s.db.ExecContext(
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

	err = s.checkAffected(result, params.ID)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("todo_id", params.ID).
		Bool("status", params.Status).
		Msg("updated todo")
	return nil
}

func (s *sqliteTodoServiceImpl) DeleteTodo(ctx context.Context, id int64) error {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = ?
`
	result, err := s.db.ExecContext(ctx, deleteTodoQuery, id)
	if err != nil {
		s.logError(err).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return err
	}

	err = s.checkAffected(result, id)
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	return nil
}

func (s *sqliteTodoServiceImpl) checkAffected(result sql.Result, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		s.logError(err).
			Int64("todo_id", id).
			Msg("failed to get affected rows")
		return err
	}

	if affected == 0 {
		s.logger.Warn().
			Int64("todo_id", id).
			Msg("todo not found")
		return ErrTodoNotFound
	}
	return nil
}

// logError attaches the SQLite result codes when the driver reports them.
func (s *sqliteTodoServiceImpl) logError(err error) *zerolog.Event {
	event := s.logger.Error().Err(err)

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		event = event.
			Int("sqlite_code", int(sqliteErr.Code)).
			Int("sqlite_extended_code", int(sqliteErr.ExtendedCode))
	}
	return event
}

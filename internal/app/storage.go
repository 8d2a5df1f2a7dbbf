package app

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"github.com/adanyl0v/todo-crud/internal/config"
	"github.com/adanyl0v/todo-crud/internal/services"
)

var (
	globalTodoService  services.TodoService
	globalStorageClose func()
)

func MustConnectStorage() {
	cfg := config.Global().Database

	svc, closeFn, err := connectStorage(cfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Driver()).
			Msg("failed to connect to storage")
		panic(err)
	}

	globalTodoService = svc
	globalStorageClose = closeFn
	globalLogger.Info().
		Str("driver", cfg.Driver()).
		Msg("connected to storage")
}

func DisconnectStorage() {
	if globalStorageClose == nil {
		return
	}
	globalStorageClose()
	globalLogger.Info().Msg("disconnected from storage")
}

// connectStorage opens the backend selected by the database URL, pings it
// and makes sure the todos table exists.
func connectStorage(cfg config.DatabaseConfig) (services.TodoService, func(), error) {
	err := cfg.Validate()
	if err != nil {
		return nil, nil, err
	}

	var (
		svc     services.TodoService
		closeFn func()
	)
	switch cfg.Driver() {
	case config.DriverPostgres:
		svc, closeFn, err = connectPostgres(cfg)
	default:
		svc, closeFn, err = connectSQLite(cfg)
	}
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	err = svc.EnsureSchema(ctx)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

func connectSQLite(cfg config.DatabaseConfig) (services.TodoService, func(), error) {
	dsn := cfg.SQLiteDSN()
	db, err := sql.Open(config.DriverSQLite, dsn)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to open sqlite database")
		return nil, nil, err
	}
	switch {
	case dsnPath(dsn) == ":memory:":
		// Every connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		globalLogger.Error().
			Err(err).
			Msg("failed to ping sqlite database")
		return nil, nil, err
	}
	globalLogger.Info().
		Str("path", filepath.Clean(dsnPath(dsn))).
		Msg("opened sqlite database")

	closeFn := func() {
		err := db.Close()
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to close sqlite database")
		}
	}
	return services.NewSQLiteTodoService(globalLogger, db), closeFn, nil
}

func connectPostgres(cfg config.DatabaseConfig) (services.TodoService, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		return nil, nil, err
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		return nil, nil, err
	}
	globalLogger.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Uint16("port", poolCfg.ConnConfig.Port).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("connected to postgres")

	return services.NewPostgresTodoService(globalLogger, pool), pool.Close, nil
}

// dsnPath strips the query part of a go-sqlite3 DSN.
func dsnPath(dsn string) string {
	path, _, _ := strings.Cut(dsn, "?")
	return path
}

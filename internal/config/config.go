package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTP     HTTPConfig
	Database DatabaseConfig
}

type HTTPConfig struct {
	Host              string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `env:"HTTP_PORT" env-default:"3000"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type DatabaseConfig struct {
	URL            string        `env:"DATABASE_URL" env-required:"true"`
	ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"DATABASE_PING_TIMEOUT" env-default:"10s"`
	// BusyTimeout only applies to SQLite.
	BusyTimeout  time.Duration `env:"DATABASE_BUSY_TIMEOUT" env-default:"5s"`
	MaxOpenConns int           `env:"DATABASE_MAX_OPEN_CONNS" env-default:"0"`
}

// Validate rejects pool sizes that don't fit the drivers' limits; pgx
// keeps the maximum as an int32.
func (c DatabaseConfig) Validate() error {
	if c.MaxOpenConns < 0 || c.MaxOpenConns > math.MaxInt32 {
		return fmt.Errorf("DATABASE_MAX_OPEN_CONNS out of range [0, %d]: %d", math.MaxInt32, c.MaxOpenConns)
	}
	return nil
}

// Driver reports which storage backend the URL points at. Anything that
// is not a postgres URL is treated as an SQLite database file.
func (c DatabaseConfig) Driver() string {
	if strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// SQLiteDSN converts URLs like "sqlite://todos.db", "sqlite:todos.db" and
// "sqlite::memory:" into a go-sqlite3 data source name.
func (c DatabaseConfig) SQLiteDSN() string {
	path := c.URL
	for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
		if strings.HasPrefix(path, prefix) {
			path = strings.TrimPrefix(path, prefix)
			break
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", path, sep, c.BusyTimeout.Milliseconds())
}

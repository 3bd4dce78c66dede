package session

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/authdesk/authdesk/internal/config"
	"github.com/authdesk/authdesk/internal/db/dsn"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageMySQL    = "mysql"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"

	defaultTable = "sessions"
)

// NewStorage opens the configured storage backend. Memory returns a nil
// storage, which the fiber session store replaces with its in-memory default.
func NewStorage(cfg *config.Session, db *config.DB) (storage fiber.Storage, err error) {
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}

	// the sql storages panic when the first ping fails
	defer func() {
		if r := recover(); r != nil {
			storage = nil
			err = errors.Errorf("failed to open %s session storage: %v", cfg.Storage, r)
		}
	}()

	switch cfg.Storage {
	case StorageMemory, "":
		return nil, nil
	case StorageMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(db),
			Table:         table,
		}), nil
	case StoragePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.PostgresURL(db),
			Table:         table,
		}), nil
	case StorageRedis:
		return NewRedisStorage(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), ""), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownSessionStorage, fmt.Sprintf("storage %q", cfg.Storage))
	}
}

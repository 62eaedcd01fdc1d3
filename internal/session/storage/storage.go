// Package storage builds the durable session storage selected in the config.
package storage

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"

	"github.com/inheritx/hr-portal/internal/config"
	"github.com/inheritx/hr-portal/internal/db/dsn"
	"github.com/inheritx/hr-portal/internal/session/redisstore"
)

// New returns the fiber.Storage for cfg.Session.Storage.Driver.
// The sql drivers reuse the database settings of cfg.DB.
func New(ctx context.Context, cfg *config.Config) (fiber.Storage, error) {
	sc := cfg.Session.Storage

	switch sc.Driver {
	case "", "memory":
		return memory.New(), nil
	case "redis":
		return redisstore.Dial(ctx, sc.RedisAddr, "")
	case "mysql":
		return mysql.New(mysql.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         sc.Table,
		}), nil
	case "postgres":
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.Postgres(cfg.DB),
			Table:         sc.Table,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownSessionDriver, sc.Driver)
	}
}

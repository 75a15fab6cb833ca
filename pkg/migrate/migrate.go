package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where the goose SQL migrations live relative to the repo root.
const DefaultDir = "db/migrations"

// Run executes the given goose command against the migrations directory.
func Run(ctx context.Context, db *sql.DB, dir, command string) error {
	if dir == "" {
		dir = DefaultDir
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, dir)
	case "down":
		return goose.DownContext(ctx, db, dir)
	case "status":
		return goose.StatusContext(ctx, db, dir)
	case "version":
		_, err := goose.GetDBVersionContext(ctx, db)
		return err
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

package storage

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// RunMigrations applies any unapplied schema migrations. The SQL files are
// embedded per dialect under migrations/<dialect>/ and tracked by goose in
// its goose_db_version table, so running it twice is a no-op.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	gooseDialect, dir, err := migrationTarget(db.Dialect().Name())
	if err != nil {
		return err
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// migrationTarget maps a bun dialect to the goose dialect name and the
// embedded directory holding its migrations.
func migrationTarget(name dialect.Name) (gooseDialect, dir string, err error) {
	switch name {
	case dialect.SQLite:
		return "sqlite3", "migrations/sqlite", nil
	case dialect.PG:
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("no migrations for dialect %s", name)
	}
}

// gooseLogger routes goose output through slog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

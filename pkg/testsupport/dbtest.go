package testsupport

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-studio/internal/projects"
)

// NewSQLiteMemoryDB opens a shared in-memory sqlite database. The name keeps
// concurrent tests from bleeding into each other's schema.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	return sql.Open("sqlite3", dsn)
}

// NewProjectsBunDB opens an in-memory database, wraps it with bun, and
// creates the project tables.
func NewProjectsBunDB(ctx context.Context, name string) (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB(name)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	if err := CreateProjectTables(ctx, bunDB); err != nil {
		_ = bunDB.Close()
		return nil, err
	}
	return bunDB, nil
}

// CreateProjectTables creates the projects and status change tables.
func CreateProjectTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*projects.Project)(nil),
		(*projects.StatusChange)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}

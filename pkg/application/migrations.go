package application

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigrationManager collects per-module embedded schemas and applies them in
// registration order.
type MigrationManager interface {
	RegisterSchema(fsys *embed.FS, dir string)
	Run(ctx context.Context) error
}

type schemaSource struct {
	fsys fs.FS
	dir  string
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []schemaSource
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

func (m *migrationManager) RegisterSchema(fsys *embed.FS, dir string) {
	m.schemas = append(m.schemas, schemaSource{fsys: fsys, dir: dir})
}

func (m *migrationManager) Run(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() { _ = db.Close() }()

	for _, schema := range m.schemas {
		sub, err := fs.Sub(schema.fsys, schema.dir)
		if err != nil {
			return err
		}
		provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
		if err != nil {
			return err
		}
		if _, err := provider.Up(ctx); err != nil {
			return err
		}
	}
	return nil
}

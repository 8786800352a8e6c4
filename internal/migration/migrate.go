package migration

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

type Migrator struct {
	db *sql.DB
}

func NewMigrator(databaseURL string, log *zap.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&gooseLogger{log: log.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}

	return &Migrator{db: db}, nil
}

func (m *Migrator) Up() error {
	if err := goose.Up(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Down() error {
	if err := goose.Down(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Close() error {
	return m.db.Close()
}

// LatestVersion returns the highest embedded migration version.
func (m *Migrator) LatestVersion() (int64, error) {
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}
	return migrations[len(migrations)-1].Version, nil
}

func (m *Migrator) Status() error {
	if err := goose.Status(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}

func (m *Migrator) Version() (int64, error) {
	return goose.GetDBVersion(m.db)
}

// Reset rolls every applied migration back, leaving an empty schema.
func (m *Migrator) Reset() error {
	if err := goose.Reset(m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}
	return nil
}

type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatalf(format, v...)
}

package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/IvanChernomyrdin/go-recipe-api/internal/shared/logger"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// Направления миграций для Migrate.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// pingTimeout — сколько ждём базу при старте.
const pingTimeout = 5 * time.Second

// Init открывает базу и, если migrations.enabled, накатывает миграции.
// При ошибке миграций соединение закрывается.
func Init(db DBConfig, migrations MigrationsConfig, log *logger.HTTPLogger) (*sql.DB, error) {
	conn, err := Open(db)
	if err != nil {
		log.Sugar().Errorf("connect db: %v", err)
		return nil, err
	}
	if !migrations.Enabled {
		return conn, nil
	}

	if err := migrateWithLog(conn, migrations.Path, MigrateUp, &migrateLogger{log: log}); err != nil {
		conn.Close()
		log.Sugar().Errorf("apply migrations: %v", err)
		return nil, err
	}
	log.Info("migrations applied")
	return conn, nil
}

// Open открывает *sql.DB через pgx, настраивает пул и проверяет соединение.
func Open(cfg DBConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Migrate применяет (up) или откатывает (down) все миграции из sourceURL,
// например file://migrations/postgres. "Нечего применять" ошибкой не считается.
func Migrate(db *sql.DB, sourceURL, direction string) error {
	return migrateWithLog(db, sourceURL, direction, nil)
}

func migrateWithLog(db *sql.DB, sourceURL, direction string, log migrate.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration source %s: %w", sourceURL, err)
	}
	m.Log = log

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// migrateLogger пишет прогресс golang-migrate в общий лог.
type migrateLogger struct {
	log *logger.HTTPLogger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Sugar().Infof("migrate: "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

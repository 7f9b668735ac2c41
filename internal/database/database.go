// Package database implements sqlite storage of survey points.
//
// The measurement engine never touches this package: the CLI and the
// daemon build a [model.SurveyPoint] from each finished run and
// persist it through a [Store].
package database

import (
	"database/sql"
	"embed"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/sqlite"
	"github.com/wifimap/survey-cli/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens the sqlite database at the given path, creating it and
// applying the pending schema migrations as needed.
func Open(path string, logger model.Logger) (db.Session, error) {
	settings := sqlite.ConnectionURL{
		Database: path,
		Options: map[string]string{
			"_journal":      "WAL",
			"_busy_timeout": "5000",
		},
	}
	sess, err := sqlite.Open(settings)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := RunMigrations(sess, logger); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

// RunMigrations applies the pending schema migrations.
func RunMigrations(sess db.Session, logger model.Logger) error {
	logger = model.ValidLoggerOrDefault(logger)
	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}
	count, err := migrate.Exec(sess.Driver().(*sql.DB), "sqlite3", source, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}
	logger.Debugf("database: performed %d migrations", count)
	return nil
}

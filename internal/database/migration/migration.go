package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"docmanager/internal/logger"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelQuery reports whether the last table created by steps already exists.
const sentinelQuery = "SELECT to_regclass('public.documents') IS NOT NULL"

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL PRIMARY KEY,
  name          TEXT      NOT NULL CONSTRAINT users_name_key UNIQUE CHECK (name <> ''),
  mail          TEXT      NOT NULL CONSTRAINT users_mail_key UNIQUE CHECK (mail = lower(mail)),
  password_hash TEXT      NOT NULL
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id          BIGSERIAL PRIMARY KEY,
  parent_id   BIGINT    NULL REFERENCES documents (id),
  owner_id    BIGINT    NOT NULL REFERENCES users (id),
  name        TEXT      NOT NULL CHECK (name <> ''),
  type        TEXT      NOT NULL CHECK (type <> ''),
  description TEXT      NOT NULL DEFAULT '',
  created_at  DATE      NOT NULL DEFAULT CURRENT_DATE,
  CONSTRAINT documents_dir_without_description CHECK (type <> 'dir' OR description = '')
);`,
	},
	{
		Name: "create_index_documents_owner_parent",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_parent ON documents (owner_id, parent_id);`,
	},
	{
		Name: "create_index_documents_owner_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_type ON documents (owner_id, type);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logger.Logger, dbHost string) error {
	log = log.With("database")
	start := time.Now()

	log.Info("db_migration_check", map[string]any{
		"status":  "starting",
		"db_host": dbHost,
	})

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed", err, map[string]any{
			"status":      "error",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", map[string]any{
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Info("db_migration_start", map[string]any{
		"status":  "in_progress",
		"db_host": dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed", err, map[string]any{
				"status":           "error",
				"migration_step":   step.Name,
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step", map[string]any{
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info("db_migration_success", map[string]any{
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

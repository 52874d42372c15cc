package reportrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s.grade_reports (
    id UUID PRIMARY KEY,
    template_id VARCHAR(255) NOT NULL,
    user_id VARCHAR(255) NOT NULL,
    language VARCHAR(32) NOT NULL,
    results JSONB NOT NULL,
    pass_rate INT NOT NULL,
    total INT NOT NULL,
    passed INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS grade_reports_user_created_idx
    ON %[1]s.grade_reports (user_id, created_at DESC);
`

// Migrate creates the grade_reports table when it does not exist.
func Migrate(ctx context.Context, db *sqlx.DB, schema string) error {
	if schema == "" {
		schema = "public"
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(schemaTemplate, schema)); err != nil {
		return fmt.Errorf("failed to migrate grade_reports: %w", err)
	}
	return nil
}

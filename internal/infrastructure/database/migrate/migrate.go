package migrate

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
)

// Create creates or upgrades the words and reviews tables on db.
func Create(ctx context.Context, dialect string, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect, db))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

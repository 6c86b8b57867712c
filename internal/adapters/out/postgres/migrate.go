package postgres

import (
	"context"
	"fmt"

	"pickingpacking/internal/adapters/out/postgres/connectorrepo"
	"pickingpacking/internal/adapters/out/postgres/eventrepo"
	"pickingpacking/internal/adapters/out/postgres/historyrepo"
	"pickingpacking/internal/adapters/out/postgres/orderrepo"
	"pickingpacking/internal/adapters/out/postgres/resourcerepo"
	"pickingpacking/internal/adapters/out/postgres/sessionrepo"

	"gorm.io/gorm"
)

// ActiveSessionIndex is the partial unique index that allows at most one
// active session per resource.
const ActiveSessionIndex = "sessions_active_resource"

// foreignKeys are declared outside the DTO tags since the referencing rows do
// not embed their parent. Each statement pair is idempotent.
var foreignKeys = []struct {
	table, name, column, parent, onDelete string
}{
	{"orders", "fk_orders_connector", "connector_id", "connectors", "SET NULL"},
	{"events", "fk_events_order", "order_id", "orders", "CASCADE"},
	{"order_history", "fk_order_history_order", "order_id", "orders", "CASCADE"},
	{"sessions", "fk_sessions_order", "order_id", "orders", "CASCADE"},
	{"sessions", "fk_sessions_resource", "resource_id", "resources", "SET NULL"},
}

// Models returns every table model in dependency order.
func Models() []any {
	return []any{
		&connectorrepo.ConnectorDTO{},
		&resourcerepo.ResourceDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&eventrepo.EventDTO{},
		&historyrepo.EntryDTO{},
		&sessionrepo.SessionDTO{},
	}
}

// Migrate brings the schema up to date. It is safe to run on every start.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}

		for _, fk := range foreignKeys {
			statements := []string{
				fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", fk.table, fk.name),
				fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (id) ON DELETE %s",
					fk.table, fk.name, fk.column, fk.parent, fk.onDelete),
			}
			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("foreign key %s: %w", fk.name, err)
				}
			}
		}

		active := sessionrepo.ActiveStatuses()
		index := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON sessions (resource_id) WHERE status IN (%d, %d)",
			ActiveSessionIndex, active[0], active[1])
		if err := tx.Exec(index).Error; err != nil {
			return fmt.Errorf("index %s: %w", ActiveSessionIndex, err)
		}
		return nil
	})
}

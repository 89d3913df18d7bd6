package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the indexes the cascading deletes and listings rely on
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		// member_roles is created by the many2many association without a role-side index
		`CREATE INDEX IF NOT EXISTS idx_member_roles_role_id ON member_roles (role_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_member_order_date ON orders (member_id, order_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

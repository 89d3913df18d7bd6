package database

import (
	"gorm.io/gorm"

	"shopadmin/internal/members"
	"shopadmin/internal/orders"
	"shopadmin/internal/products"
	"shopadmin/internal/roles"
)

// Migrate creates the uuid extension, the tables and their supporting indexes
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&roles.Role{},
		&members.Member{},
		&products.Product{},
		&orders.Order{},
		&orders.OrderItem{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}

package migrations

import (
	"gorm.io/gorm"

	"rebate_audit/internal/models"
)

// auditTables lists parents before children; drops run in reverse.
func auditTables() []interface{} {
	return []interface{}{
		&models.Order{},
		&models.OrderDetail{},
		&models.OrderDetailUnit{},
	}
}

// RunMigrations destroys the audit tables and recreates them empty.
func RunMigrations(db *gorm.DB) error {
	tables := auditTables()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return err
		}
	}
	return db.AutoMigrate(tables...)
}

// HasSchema reports whether all audit tables exist.
func HasSchema(db *gorm.DB) bool {
	for _, t := range auditTables() {
		if !db.Migrator().HasTable(t) {
			return false
		}
	}
	return true
}

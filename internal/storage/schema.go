// ABOUTME: Local schema creation for development and test stores.
// ABOUTME: Production tables are owned upstream and never migrated from here.
package storage

import (
	"github.com/trans/sfm-mcp/internal/models"
)

// migrate creates the product and NAV tables when they do not exist.
func (d *DB) migrate() error {
	return d.gorm.AutoMigrate(&models.Product{}, &models.DailySnapshot{})
}

package tenant

import "gorm.io/gorm"

// Scope restricts a query to one organization. Every table in this system
// carries an organization_id column; queries that skip this scope must have a
// written reason.
func Scope(organizationID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization_id = ?", organizationID)
	}
}

package tenant

import "gorm.io/gorm"

// UnitScope restricts a query to one battalion/unit. An empty unit id means all units.
func UnitScope(unitID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if unitID == "" {
			return db
		}
		return db.Where("unit_id = ?", unitID)
	}
}

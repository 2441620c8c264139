package counter

import "time"

// UnitCounter backs human-readable sequence numbers, one row per (unit, counter type).
type UnitCounter struct {
	UnitID      string    `gorm:"column:unit_id;type:varchar(50);primaryKey"`
	CounterType string    `gorm:"column:counter_type;type:varchar(30);primaryKey"`
	LastValue   int64     `gorm:"column:last_value;not null;default:0"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (UnitCounter) TableName() string {
	return "unit_counters"
}

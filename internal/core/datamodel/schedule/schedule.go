package schedule

import "time"

// Schedule ids are 10-digit numeric strings, unique for the lifetime of the
// store. ShiftTypes persists the ordered vocabulary as a JSON array.
type Schedule struct {
	ID         string    `gorm:"primaryKey;size:10"`
	Name       string    `gorm:"column:name;size:100;not null"`
	OwnerID    string    `gorm:"column:owner_id;size:120;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	ShiftTypes string    `gorm:"column:shift_types;size:500;not null"`
}

func (Schedule) TableName() string {
	return "schedules"
}

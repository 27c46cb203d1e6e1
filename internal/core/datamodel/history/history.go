package history

import "time"

// Entry is an append-only audit record. Rows are never updated and only go
// away when their schedule is destroyed.
type Entry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ScheduleID string    `gorm:"column:schedule_id;size:10;not null;index"`
	UserID     string    `gorm:"column:user_id;size:120;not null"`
	Action     string    `gorm:"column:action;size:200;not null"`
	Timestamp  time.Time `gorm:"column:timestamp;autoCreateTime"`
}

func (Entry) TableName() string {
	return "history"
}

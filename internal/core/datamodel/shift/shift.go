package shift

// Shift is one dated assignment of a user to a shift-type label. Date is a
// calendar date stored as YYYY-MM-DD.
type Shift struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ScheduleID string `gorm:"column:schedule_id;size:10;not null;index"`
	UserID     string `gorm:"column:user_id;size:120;not null"`
	Date       string `gorm:"column:date;size:10;not null"`
	Shift      string `gorm:"column:shift;size:50;not null"`
	Reminder   bool   `gorm:"column:reminder;default:false"`
}

func (Shift) TableName() string {
	return "shifts"
}

package collaborator

// Collaborator links a non-owner user to a schedule. The composite unique
// index is what makes concurrent duplicate joins collapse to one row.
type Collaborator struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ScheduleID string `gorm:"column:schedule_id;size:10;not null;uniqueIndex:idx_collaborators_schedule_user"`
	UserID     string `gorm:"column:user_id;size:120;not null;uniqueIndex:idx_collaborators_schedule_user"`
}

func (Collaborator) TableName() string {
	return "collaborators"
}

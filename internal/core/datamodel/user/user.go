package user

import "time"

// User rows are keyed by the stable subject identifier the identity provider
// asserts; the row is created on first login and never deleted.
type User struct {
	ID                string    `gorm:"primaryKey;size:120"`
	Email             string    `gorm:"column:email;not null"`
	Name              string    `gorm:"column:name;not null"`
	PreferredLanguage string    `gorm:"column:preferred_language;size:10;default:zh-TW"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

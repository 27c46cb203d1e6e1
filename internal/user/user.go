package user

import (
	"time"

	internal "github.com/frahmantamala/shift-management/internal"
	userDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/user"
)

const DefaultLanguage = "zh-TW"

// User is the identity record for a principal. The id is the stable subject
// identifier asserted by the identity provider. Everything except
// PreferredLanguage is immutable after first login.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PreferredLanguage string    `json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
}

var ErrUserNotFound = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)

type Repository interface {
	GetByID(id string) (*User, error)
	// CreateIfAbsent inserts the user on first login; an existing row is left
	// untouched.
	CreateIfAbsent(u *User) error
	UpdateLanguage(id, language string) error
	// DisplayNames resolves user ids to display names in one lookup.
	DisplayNames(ids []string) (map[string]string, error)
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		PreferredLanguage: u.PreferredLanguage,
		CreatedAt:         u.CreatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		PreferredLanguage: u.PreferredLanguage,
		CreatedAt:         u.CreatedAt,
	}
}

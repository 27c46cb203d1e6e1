package postgres

import (
	"errors"

	"github.com/frahmantamala/shift-management/internal/user"

	userDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) CreateIfAbsent(u *user.User) error {
	row := user.ToDataModel(u)
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(row).Error
}

func (r *UserRepository) UpdateLanguage(id, language string) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("preferred_language", language)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DisplayNames(ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []userDatamodel.User
	if err := r.db.Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

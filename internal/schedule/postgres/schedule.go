package postgres

import (
	"errors"
	"strings"

	"github.com/frahmantamala/shift-management/internal/schedule"

	collaboratorDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/collaborator"
	historyDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/history"
	scheduleDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/schedule"
	shiftDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/shift"
	historyPostgres "github.com/frahmantamala/shift-management/internal/history/postgres"
	"gorm.io/gorm"
)

// ScheduleRepository implements the schedule.Repository interface using GORM
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) schedule.Repository {
	return &ScheduleRepository{db: db}
}

// Create inserts the schedule and its creation audit entry in one
// transaction. Uniqueness of the id is arbitrated by the primary-key
// constraint, not by a prior existence check, so concurrent creations with
// the same candidate id cannot both commit.
func (r *ScheduleRepository) Create(s *schedule.Schedule, actorID, action string) error {
	row, err := schedule.ToDataModel(s)
	if err != nil {
		return err
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return historyPostgres.Record(tx, s.ID, actorID, action)
	})
	if err != nil {
		if isDuplicateKey(err) {
			return schedule.ErrScheduleIDUsed
		}
		return err
	}
	return nil
}

func (r *ScheduleRepository) GetByID(id string) (*schedule.Schedule, error) {
	var row scheduleDatamodel.Schedule
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule.FromDataModel(&row)
}

func (r *ScheduleRepository) ListOwned(userID string) ([]*schedule.Schedule, error) {
	var rows []*scheduleDatamodel.Schedule
	err := r.db.Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return schedule.FromDataModelSlice(rows)
}

func (r *ScheduleRepository) ListCollaborated(userID string) ([]*schedule.Schedule, error) {
	var rows []*scheduleDatamodel.Schedule
	err := r.db.
		Joins("JOIN collaborators ON collaborators.schedule_id = schedules.id").
		Where("collaborators.user_id = ?", userID).
		Order("schedules.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return schedule.FromDataModelSlice(rows)
}

func (r *ScheduleRepository) UpdateShiftTypes(scheduleID string, shiftTypes []string, actorID, action string) error {
	encoded, err := schedule.ToDataModel(&schedule.Schedule{ShiftTypes: shiftTypes})
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&scheduleDatamodel.Schedule{}).
			Where("id = ?", scheduleID).
			Update("shift_types", encoded.ShiftTypes)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return schedule.ErrScheduleNotFound
		}
		return historyPostgres.Record(tx, scheduleID, actorID, action)
	})
}

// DeleteCascade removes the schedule and every row keyed by it. The trail
// goes with the schedule; nothing is recorded for the deletion.
func (r *ScheduleRepository) DeleteCascade(scheduleID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", scheduleID).Delete(&shiftDatamodel.Shift{}).Error; err != nil {
			return err
		}
		if err := tx.Where("schedule_id = ?", scheduleID).Delete(&collaboratorDatamodel.Collaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("schedule_id = ?", scheduleID).Delete(&historyDatamodel.Entry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", scheduleID).Delete(&scheduleDatamodel.Schedule{}).Error
	})
}

// isDuplicateKey recognizes unique-constraint violations across the drivers
// in use (pgx reports 23505, sqlite a UNIQUE message); gorm translates both
// when TranslateError is enabled.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

package postgres

import (
	"errors"

	"github.com/frahmantamala/shift-management/internal/shift"

	shiftDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/shift"
	historyPostgres "github.com/frahmantamala/shift-management/internal/history/postgres"
	"gorm.io/gorm"
)

// ShiftRepository implements the shift.Repository interface using GORM
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.Repository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) CreateWithHistory(s *shift.Shift, actorID, action string) error {
	row := shift.ToDataModel(s)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return historyPostgres.Record(tx, s.ScheduleID, actorID, action)
	})
	if err != nil {
		return err
	}
	s.ID = row.ID
	return nil
}

func (r *ShiftRepository) GetByID(id int64) (*shift.Shift, error) {
	var row shiftDatamodel.Shift
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shift.ErrShiftNotFound
		}
		return nil, err
	}
	return shift.FromDataModel(&row), nil
}

func (r *ShiftRepository) DeleteWithHistory(s *shift.Shift, actorID, action string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND schedule_id = ?", s.ID, s.ScheduleID).
			Delete(&shiftDatamodel.Shift{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shift.ErrShiftNotFound
		}
		return historyPostgres.Record(tx, s.ScheduleID, actorID, action)
	})
}

func (r *ShiftRepository) ListAssignments(scheduleID string) ([]*shift.Assignment, error) {
	type joinedRow struct {
		shiftDatamodel.Shift
		UserName string
	}

	var rows []joinedRow
	err := r.db.Model(&shiftDatamodel.Shift{}).
		Select("shifts.*, users.name AS user_name").
		Joins("JOIN users ON users.id = shifts.user_id").
		Where("shifts.schedule_id = ?", scheduleID).
		Order("shifts.date ASC, shifts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*shift.Assignment, len(rows))
	for i, row := range rows {
		assignments[i] = &shift.Assignment{
			Shift:    *shift.FromDataModel(&row.Shift),
			UserName: row.UserName,
		}
	}
	return assignments, nil
}

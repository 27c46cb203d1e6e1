package postgres

import (
	"time"

	"github.com/frahmantamala/shift-management/internal/history"

	historyDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/history"
	"gorm.io/gorm"
)

// Record appends one audit entry on the given transaction handle. Mutating
// repositories call this inside their own db.Transaction closure so that a
// failed append aborts the whole operation; no mutation commits without its
// trail entry and no entry exists for an uncommitted mutation.
func Record(tx *gorm.DB, scheduleID, userID, action string) error {
	entry := &historyDatamodel.Entry{
		ScheduleID: scheduleID,
		UserID:     userID,
		Action:     action,
		Timestamp:  time.Now(),
	}
	return tx.Create(entry).Error
}

// HistoryRepository implements the history.Repository interface using GORM
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) ListBySchedule(scheduleID string) ([]*history.Entry, error) {
	var rows []historyDatamodel.Entry
	err := r.db.Where("schedule_id = ?", scheduleID).
		Order("timestamp DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*history.Entry, len(rows))
	for i, row := range rows {
		entries[i] = &history.Entry{
			ID:         row.ID,
			ScheduleID: row.ScheduleID,
			UserID:     row.UserID,
			Action:     row.Action,
			Timestamp:  row.Timestamp,
		}
	}
	return entries, nil
}

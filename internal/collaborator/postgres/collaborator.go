package postgres

import (
	"errors"
	"strings"

	"github.com/frahmantamala/shift-management/internal/collaborator"

	collaboratorDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/collaborator"
	scheduleDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/schedule"
	historyPostgres "github.com/frahmantamala/shift-management/internal/history/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollaboratorRepository implements the collaborator.Repository interface
// using GORM
type CollaboratorRepository struct {
	db *gorm.DB
}

func NewCollaboratorRepository(db *gorm.DB) collaborator.Repository {
	return &CollaboratorRepository{db: db}
}

// JoinWithCap enforces the collaborator cap inside one transaction: lock the
// parent schedule row, insert, then recount and roll back when the schedule
// is over the limit. The row lock serializes racing joins by different users;
// without it, read committed lets each recount see only its own insert and
// two joins can both commit past the cap. A duplicate-key failure means the
// user is already a member, which is an idempotent no-op.
func (r *CollaboratorRepository) JoinWithCap(scheduleID, userID string, max int, action string) (bool, error) {
	joined := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := lockScheduleRow(tx, scheduleID).Error; err != nil {
				return err
			}
		}

		var existing int64
		if err := tx.Model(&collaboratorDatamodel.Collaborator{}).
			Where("schedule_id = ? AND user_id = ?", scheduleID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		row := &collaboratorDatamodel.Collaborator{
			ScheduleID: scheduleID,
			UserID:     userID,
		}
		if err := tx.Create(row).Error; err != nil {
			if isDuplicateKey(err) {
				return nil
			}
			return err
		}

		var count int64
		if err := tx.Model(&collaboratorDatamodel.Collaborator{}).
			Where("schedule_id = ?", scheduleID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > int64(max) {
			return collaborator.ErrCollaboratorCap
		}

		joined = true
		return historyPostgres.Record(tx, scheduleID, userID, action)
	})
	if err != nil {
		return false, err
	}
	return joined, nil
}

// lockScheduleRow takes a SELECT ... FOR UPDATE lock on the schedule so the
// membership recount runs serially across concurrent joins. sqlite rejects
// FOR UPDATE and needs no lock: its single writer already serializes the
// transaction.
func lockScheduleRow(tx *gorm.DB, scheduleID string) *gorm.DB {
	return tx.Model(&scheduleDatamodel.Schedule{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", scheduleID).
		Find(&scheduleDatamodel.Schedule{})
}

func (r *CollaboratorRepository) RemoveWithHistory(scheduleID, targetUserID, actorID, action string) (bool, error) {
	removed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("schedule_id = ? AND user_id = ?", scheduleID, targetUserID).
			Delete(&collaboratorDatamodel.Collaborator{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return historyPostgres.Record(tx, scheduleID, actorID, action)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *CollaboratorRepository) ListMembers(scheduleID string) ([]*collaborator.Member, error) {
	var members []*collaborator.Member
	err := r.db.Model(&collaboratorDatamodel.Collaborator{}).
		Select("collaborators.user_id, users.name, users.email").
		Joins("JOIN users ON users.id = collaborators.user_id").
		Where("collaborators.schedule_id = ?", scheduleID).
		Order("collaborators.id ASC").
		Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *CollaboratorRepository) IsCollaborator(scheduleID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&collaboratorDatamodel.Collaborator{}).
		Where("schedule_id = ? AND user_id = ?", scheduleID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

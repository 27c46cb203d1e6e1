package collaborator

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/shift-management/internal/schedule"
)

// Repository is the data access surface for memberships. JoinWithCap and
// RemoveWithHistory run their mutation and audit append in one transaction.
type Repository interface {
	// JoinWithCap inserts the membership row unless it already exists,
	// enforcing the cap transactionally: the insert is recounted before
	// commit and rolled back with ErrCollaboratorCap when it would push the
	// schedule past max. Returns false without error for an existing member.
	JoinWithCap(scheduleID, userID string, max int, action string) (joined bool, err error)
	// RemoveWithHistory deletes the row if present; a missing row is a no-op
	// and records nothing.
	RemoveWithHistory(scheduleID, targetUserID, actorID, action string) (removed bool, err error)
	ListMembers(scheduleID string) ([]*Member, error)
	IsCollaborator(scheduleID, userID string) (bool, error)
}

type ScheduleDirectory interface {
	GetByID(id string) (*schedule.Schedule, error)
}

type UserDirectory interface {
	DisplayNames(ids []string) (map[string]string, error)
}

// Service manages schedule collaboration: self-service joins and owner-only
// removals.
type Service struct {
	repo      Repository
	schedules ScheduleDirectory
	access    *schedule.Access
	users     UserDirectory
	logger    *slog.Logger
}

func NewService(repo Repository, schedules ScheduleDirectory, access *schedule.Access, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		schedules: schedules,
		access:    access,
		users:     users,
		logger:    logger,
	}
}

// Join adds the actor as a collaborator. Owners get a non-fatal
// self-ownership outcome, existing members an idempotent no-op (no duplicate
// row, no history entry).
func (s *Service) Join(actorID, scheduleID string) (JoinStatus, error) {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return JoinStatusOwner, err
	}
	if sched.OwnerID == actorID {
		s.logger.Info("owner attempted to join own schedule", "schedule_id", scheduleID, "user_id", actorID)
		return JoinStatusOwner, nil
	}

	joined, err := s.repo.JoinWithCap(scheduleID, actorID, MaxCollaborators, "joined schedule")
	if err != nil {
		s.logger.Warn("join failed", "error", err, "schedule_id", scheduleID, "user_id", actorID)
		return JoinStatusOwner, err
	}
	if !joined {
		return JoinStatusAlreadyMember, nil
	}

	s.logger.Info("collaborator joined", "schedule_id", scheduleID, "user_id", actorID)
	return JoinStatusJoined, nil
}

// Remove detaches a collaborator; owner only. Removing a user who is not a
// collaborator is a no-op.
func (s *Service) Remove(actorID, scheduleID, targetUserID string) error {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return err
	}
	role, err := s.access.RoleOf(actorID, sched)
	if err != nil {
		return err
	}
	if !role.IsOwner() {
		s.logger.Warn("remove collaborator denied", "schedule_id", scheduleID, "user_id", actorID)
		return schedule.ErrOwnerOnly
	}

	names, err := s.users.DisplayNames([]string{targetUserID})
	if err != nil {
		return err
	}
	action := fmt.Sprintf("removed collaborator: %s", names[targetUserID])

	removed, err := s.repo.RemoveWithHistory(scheduleID, targetUserID, actorID, action)
	if err != nil {
		s.logger.Error("failed to remove collaborator", "error", err, "schedule_id", scheduleID, "target_user_id", targetUserID)
		return err
	}
	if removed {
		s.logger.Info("collaborator removed", "schedule_id", scheduleID, "target_user_id", targetUserID, "user_id", actorID)
	}
	return nil
}

func (s *Service) List(scheduleID string) ([]*Member, error) {
	return s.repo.ListMembers(scheduleID)
}

// ViewsBySchedule implements schedule.MemberDirectory for the detail view.
func (s *Service) ViewsBySchedule(scheduleID string) ([]schedule.MemberView, error) {
	members, err := s.repo.ListMembers(scheduleID)
	if err != nil {
		return nil, err
	}

	views := make([]schedule.MemberView, len(members))
	for i, m := range members {
		views[i] = schedule.MemberView{
			UserID: m.UserID,
			Name:   m.Name,
			Email:  m.Email,
		}
	}
	return views, nil
}

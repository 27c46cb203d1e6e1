package shift

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/shift-management/internal/core/events"
	"github.com/frahmantamala/shift-management/internal/schedule"
)

// Repository is the data access surface for the shift ledger. Mutating
// methods append their audit entry within the same transaction.
type Repository interface {
	CreateWithHistory(s *Shift, actorID, action string) error
	GetByID(id int64) (*Shift, error)
	DeleteWithHistory(s *Shift, actorID, action string) error
	// ListAssignments returns a schedule's shifts joined with assignee
	// display names, ordered by date.
	ListAssignments(scheduleID string) ([]*Assignment, error)
}

type ScheduleDirectory interface {
	GetByID(id string) (*schedule.Schedule, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the shift ledger: validated create/delete of shift assignments
// plus search over them.
type Service struct {
	repo      Repository
	schedules ScheduleDirectory
	access    *schedule.Access
	bus       EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, schedules ScheduleDirectory, access *schedule.Access, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		schedules: schedules,
		access:    access,
		bus:       bus,
		logger:    logger,
	}
}

// Add records a shift for the actor. Labels must come from the schedule's
// vocabulary unless the actor owns the schedule; the owner bypass is the
// deliberate escape hatch for one-off labels.
func (s *Service) Add(ctx context.Context, actorID, scheduleID string, dto CreateShiftDTO) (*Shift, error) {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	role, err := s.access.RoleOf(actorID, sched)
	if err != nil {
		return nil, err
	}
	if !role.CanAddShift() {
		s.logger.Warn("add shift denied", "schedule_id", scheduleID, "user_id", actorID)
		return nil, schedule.ErrNotAuthorized
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("shift validation failed", "error", err, "schedule_id", scheduleID, "user_id", actorID)
		return nil, err
	}
	if !role.CanUseLabel(sched.HasShiftType(dto.Shift)) {
		s.logger.Warn("shift label rejected", "schedule_id", scheduleID, "user_id", actorID, "label", dto.Shift)
		return nil, ErrLabelNotAllowed
	}

	sh := &Shift{
		ScheduleID: scheduleID,
		UserID:     actorID,
		Date:       dto.Date,
		Shift:      dto.Shift,
		Reminder:   dto.Reminder,
	}
	action := fmt.Sprintf("added shift: %s %s", sh.Date, sh.Shift)
	if err := s.repo.CreateWithHistory(sh, actorID, action); err != nil {
		s.logger.Error("failed to create shift", "error", err, "schedule_id", scheduleID, "user_id", actorID)
		return nil, err
	}

	if sh.Reminder && s.bus != nil {
		event := events.NewShiftReminderRequested(scheduleID, sh.ID, actorID, sh.Date, sh.Shift)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish reminder event", "error", err, "shift_id", sh.ID)
		}
	}

	s.logger.Info("shift added", "shift_id", sh.ID, "schedule_id", scheduleID, "user_id", actorID, "date", sh.Date)
	return sh, nil
}

// Remove deletes a shift. The owner may delete any shift in the schedule; a
// collaborator only their own assignments.
func (s *Service) Remove(actorID, scheduleID string, shiftID int64) error {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return err
	}
	role, err := s.access.RoleOf(actorID, sched)
	if err != nil {
		return err
	}
	if !role.CanView() {
		return schedule.ErrNotAuthorized
	}

	sh, err := s.repo.GetByID(shiftID)
	if err != nil {
		return err
	}
	if sh.ScheduleID != scheduleID {
		return ErrShiftNotFound
	}
	if !role.CanDeleteShift(sh.UserID, actorID) {
		s.logger.Warn("delete shift denied", "shift_id", shiftID, "schedule_id", scheduleID, "user_id", actorID, "assignee_id", sh.UserID)
		return schedule.ErrNotAuthorized
	}

	action := fmt.Sprintf("removed shift: %s %s", sh.Date, sh.Shift)
	if err := s.repo.DeleteWithHistory(sh, actorID, action); err != nil {
		s.logger.Error("failed to delete shift", "error", err, "shift_id", shiftID)
		return err
	}

	s.logger.Info("shift removed", "shift_id", shiftID, "schedule_id", scheduleID, "user_id", actorID)
	return nil
}

// Search returns the schedule's shifts whose date, label or assignee display
// name contains the query. Matching is a case-sensitive substring match; an
// empty query returns everything.
func (s *Service) Search(actorID, scheduleID, query string) ([]*Assignment, error) {
	sched, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	role, err := s.access.RoleOf(actorID, sched)
	if err != nil {
		return nil, err
	}
	if !role.CanView() {
		return nil, schedule.ErrNotAuthorized
	}

	assignments, err := s.repo.ListAssignments(scheduleID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return assignments, nil
	}

	matched := make([]*Assignment, 0, len(assignments))
	for _, a := range assignments {
		if strings.Contains(a.Date, query) ||
			strings.Contains(a.Shift.Shift, query) ||
			strings.Contains(a.UserName, query) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// ViewsBySchedule implements schedule.ShiftDirectory for the detail view.
func (s *Service) ViewsBySchedule(scheduleID string) ([]schedule.ShiftView, error) {
	assignments, err := s.repo.ListAssignments(scheduleID)
	if err != nil {
		return nil, err
	}

	views := make([]schedule.ShiftView, len(assignments))
	for i, a := range assignments {
		views[i] = schedule.ShiftView{
			ID:       a.ID,
			UserID:   a.UserID,
			UserName: a.UserName,
			Date:     a.Date,
			Shift:    a.Shift.Shift,
			Reminder: a.Reminder,
		}
	}
	return views, nil
}

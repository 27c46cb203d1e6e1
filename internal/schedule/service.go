package schedule

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"
)

// maxIDAttempts bounds the random-id retry loop. With 10^10 candidates the
// loop practically never runs twice; hitting the bound means the store is
// misbehaving, not that ids ran out.
const maxIDAttempts = 10

// Repository is the data access surface for schedules. Every mutating method
// appends its audit entry within the same transaction.
type Repository interface {
	// Create inserts the schedule relying on the primary-key constraint and
	// returns ErrScheduleIDUsed when the id is already taken.
	Create(s *Schedule, actorID, action string) error
	GetByID(id string) (*Schedule, error)
	ListOwned(userID string) ([]*Schedule, error)
	ListCollaborated(userID string) ([]*Schedule, error)
	UpdateShiftTypes(scheduleID string, shiftTypes []string, actorID, action string) error
	// DeleteCascade removes the schedule and all shift, collaborator and
	// history rows keyed by it in one transaction.
	DeleteCascade(scheduleID string) error
}

// ShiftDirectory, MemberDirectory and HistoryDirectory let the schedule view
// pull in its related rows without this package owning those ledgers.
type ShiftDirectory interface {
	ViewsBySchedule(scheduleID string) ([]ShiftView, error)
}

type MemberDirectory interface {
	ViewsBySchedule(scheduleID string) ([]MemberView, error)
}

type HistoryDirectory interface {
	ViewsBySchedule(scheduleID string) ([]HistoryView, error)
}

type UserDirectory interface {
	DisplayNames(ids []string) (map[string]string, error)
}

// Service is the schedule lifecycle manager.
type Service struct {
	repo    Repository
	access  *Access
	shifts  ShiftDirectory
	members MemberDirectory
	history HistoryDirectory
	users   UserDirectory
	logger  *slog.Logger
}

func NewService(repo Repository, access *Access, shifts ShiftDirectory, members MemberDirectory, history HistoryDirectory, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		access:  access,
		shifts:  shifts,
		members: members,
		history: history,
		users:   users,
		logger:  logger,
	}
}

// Create makes a new schedule owned by the actor. A caller-proposed id fails
// fast with ErrScheduleIDUsed; otherwise random candidates are drawn and the
// insert itself arbitrates uniqueness, so two concurrent creations can never
// both win the same id.
func (s *Service) Create(actorID string, dto CreateScheduleDTO) (*Schedule, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("schedule validation failed", "error", err, "user_id", actorID)
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	action := fmt.Sprintf("created schedule: %s", name)

	if dto.ScheduleID != "" {
		sched := s.newSchedule(dto.ScheduleID, name, actorID)
		if err := s.repo.Create(sched, actorID, action); err != nil {
			s.logger.Warn("schedule creation failed", "error", err, "schedule_id", dto.ScheduleID, "user_id", actorID)
			return nil, err
		}
		s.logger.Info("schedule created", "schedule_id", sched.ID, "owner_id", actorID)
		return sched, nil
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		sched := s.newSchedule(randomScheduleID(), name, actorID)
		err := s.repo.Create(sched, actorID, action)
		if err == nil {
			s.logger.Info("schedule created", "schedule_id", sched.ID, "owner_id", actorID, "attempts", attempt+1)
			return sched, nil
		}
		if err == ErrScheduleIDUsed {
			continue
		}
		s.logger.Error("failed to create schedule", "error", err, "user_id", actorID)
		return nil, err
	}

	s.logger.Error("exhausted schedule id candidates", "user_id", actorID, "attempts", maxIDAttempts)
	return nil, ErrScheduleIDUsed
}

func (s *Service) newSchedule(id, name, ownerID string) *Schedule {
	return &Schedule{
		ID:         id,
		Name:       name,
		OwnerID:    ownerID,
		CreatedAt:  time.Now(),
		ShiftTypes: append([]string(nil), DefaultShiftTypes...),
	}
}

// Dashboard lists the actor's owned and collaborated schedules.
func (s *Service) Dashboard(actorID string) (*DashboardDTO, error) {
	owned, err := s.repo.ListOwned(actorID)
	if err != nil {
		return nil, err
	}
	collaborated, err := s.repo.ListCollaborated(actorID)
	if err != nil {
		return nil, err
	}
	return &DashboardDTO{Owned: owned, Collaborated: collaborated}, nil
}

// GetForActor loads a schedule and resolves the actor's role, rejecting
// principals with no relationship to it.
func (s *Service) GetForActor(actorID, scheduleID string) (*Schedule, Role, error) {
	sched, err := s.repo.GetByID(scheduleID)
	if err != nil {
		return nil, RoleNone, err
	}
	role, err := s.access.RoleOf(actorID, sched)
	if err != nil {
		return nil, RoleNone, err
	}
	if !role.CanView() {
		s.logger.Warn("schedule access denied", "schedule_id", scheduleID, "user_id", actorID)
		return nil, RoleNone, ErrNotAuthorized
	}
	return sched, role, nil
}

// View assembles the schedule detail: vocabulary, shifts, collaborators and
// the audit trail, newest first.
func (s *Service) View(actorID, scheduleID string) (*ViewDTO, error) {
	sched, role, err := s.GetForActor(actorID, scheduleID)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shifts.ViewsBySchedule(scheduleID)
	if err != nil {
		return nil, err
	}
	members, err := s.members.ViewsBySchedule(scheduleID)
	if err != nil {
		return nil, err
	}
	trail, err := s.history.ViewsBySchedule(scheduleID)
	if err != nil {
		return nil, err
	}

	return &ViewDTO{
		Schedule:      sched,
		Role:          role.String(),
		Shifts:        shifts,
		Collaborators: members,
		History:       trail,
	}, nil
}

// UpdateShiftTypes replaces the vocabulary wholesale. Shifts recorded under
// labels that are no longer present stay valid as historical records.
func (s *Service) UpdateShiftTypes(actorID, scheduleID string, dto UpdateShiftTypesDTO) (*Schedule, error) {
	sched, role, err := s.GetForActor(actorID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !role.IsOwner() {
		return nil, ErrOwnerOnly
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateShiftTypes(scheduleID, dto.ShiftTypes, actorID, "updated shift types"); err != nil {
		s.logger.Error("failed to update shift types", "error", err, "schedule_id", scheduleID)
		return nil, err
	}

	sched.ShiftTypes = dto.ShiftTypes
	s.logger.Info("shift types updated", "schedule_id", scheduleID, "user_id", actorID, "count", len(dto.ShiftTypes))
	return sched, nil
}

// Delete destroys the schedule together with its shifts, collaborators and
// history. The audit trail dies with the schedule, so no entry is recorded
// for the deletion itself.
func (s *Service) Delete(actorID, scheduleID string) error {
	_, role, err := s.GetForActor(actorID, scheduleID)
	if err != nil {
		return err
	}
	if !role.IsOwner() {
		return ErrOwnerOnly
	}

	if err := s.repo.DeleteCascade(scheduleID); err != nil {
		s.logger.Error("failed to delete schedule", "error", err, "schedule_id", scheduleID)
		return err
	}

	s.logger.Info("schedule deleted", "schedule_id", scheduleID, "user_id", actorID)
	return nil
}

// Export produces the owner-only snapshot. Read-only, so nothing is recorded
// in the trail.
func (s *Service) Export(actorID, scheduleID string) (*ExportDTO, error) {
	sched, role, err := s.GetForActor(actorID, scheduleID)
	if err != nil {
		return nil, err
	}
	if !role.IsOwner() {
		return nil, ErrOwnerOnly
	}

	shifts, err := s.shifts.ViewsBySchedule(scheduleID)
	if err != nil {
		return nil, err
	}
	names, err := s.users.DisplayNames([]string{sched.OwnerID})
	if err != nil {
		return nil, err
	}

	export := &ExportDTO{
		ScheduleID: sched.ID,
		Name:       sched.Name,
		Owner:      names[sched.OwnerID],
		Shifts:     make([]ExportShiftDTO, len(shifts)),
	}
	for i, sh := range shifts {
		export.Shifts[i] = ExportShiftDTO{
			User:     sh.UserName,
			Date:     sh.Date,
			Shift:    sh.Shift,
			Reminder: sh.Reminder,
		}
	}
	return export, nil
}

func randomScheduleID() string {
	digits := make([]byte, scheduleIDLength)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}

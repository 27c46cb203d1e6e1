package history

import (
	"log/slog"

	"github.com/frahmantamala/shift-management/internal/schedule"
)

type UserDirectory interface {
	DisplayNames(ids []string) (map[string]string, error)
}

// Service is the read side of the audit trail; appends happen inside the
// mutating repositories' transactions.
type Service struct {
	repo   Repository
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

func (s *Service) ListBySchedule(scheduleID string) ([]*Entry, error) {
	return s.repo.ListBySchedule(scheduleID)
}

// ViewsBySchedule implements schedule.HistoryDirectory: entries newest first
// with actor display names resolved.
func (s *Service) ViewsBySchedule(scheduleID string) ([]schedule.HistoryView, error) {
	entries, err := s.repo.ListBySchedule(scheduleID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			ids = append(ids, e.UserID)
		}
	}
	names, err := s.users.DisplayNames(ids)
	if err != nil {
		return nil, err
	}

	views := make([]schedule.HistoryView, len(entries))
	for i, e := range entries {
		views[i] = schedule.HistoryView{
			UserID:    e.UserID,
			UserName:  names[e.UserID],
			Action:    e.Action,
			Timestamp: e.Timestamp,
		}
	}
	return views, nil
}

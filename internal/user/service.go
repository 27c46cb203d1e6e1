package user

import (
	"log/slog"
	"time"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(id string) (*User, error) {
	return s.repo.GetByID(id)
}

// EnsureExists creates the user record on first authentication. Identity
// attributes come from the provider's assertion; an existing record keeps its
// attributes (including a changed provider display name) untouched.
func (s *Service) EnsureExists(id, email, name string) (*User, error) {
	u := &User{
		ID:                id,
		Email:             email,
		Name:              name,
		PreferredLanguage: DefaultLanguage,
		CreatedAt:         time.Now(),
	}
	if err := s.repo.CreateIfAbsent(u); err != nil {
		s.logger.Error("failed to ensure user exists", "error", err, "user_id", id)
		return nil, err
	}
	return s.repo.GetByID(id)
}

// UpdateLanguage changes the only mutable attribute of a user record.
func (s *Service) UpdateLanguage(actorID string, dto UpdateLanguageDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLanguage(actorID, dto.Language); err != nil {
		s.logger.Error("failed to update language", "error", err, "user_id", actorID)
		return nil, err
	}
	return s.repo.GetByID(actorID)
}

func (s *Service) DisplayNames(ids []string) (map[string]string, error) {
	return s.repo.DisplayNames(ids)
}

package auth

import (
	"github.com/frahmantamala/shift-management/internal/user"
)

// UserDirectory provisions and loads accounts from the verified assertion.
type UserDirectory interface {
	EnsureExists(id, email, name string) (*user.User, error)
	GetByID(id string) (*user.User, error)
}

type ServiceAPI interface {
	Login(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(userID string) (*user.User, error)
}

// Service exchanges provider identity assertions for session tokens. There
// are no local credentials: the external provider authenticates, we verify
// its signature and provision the account on first sight.
type Service struct {
	users           UserDirectory
	tokenGenerator  TokenGeneratorAPI
	assertionSecret []byte
}

func NewService(users UserDirectory, tokenGen TokenGeneratorAPI, assertionSecret string) *Service {
	return &Service{
		users:           users,
		tokenGenerator:  tokenGen,
		assertionSecret: []byte(assertionSecret),
	}
}

// Login verifies the identity assertion, creates the account if this is the
// user's first visit, and issues an access/refresh token pair.
func (s *Service) Login(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	claims, err := s.verifyAssertion(dto.Assertion)
	if err != nil {
		return AuthTokens{}, err
	}
	if claims.Subject == "" || claims.Email == "" {
		return AuthTokens{}, ErrInvalidAssertion
	}

	u, err := s.users.EnsureExists(claims.Subject, claims.Email, claims.Name)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(u.ID, u.Email)
}

// RefreshTokens validates the refresh token and rotates the pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issueTokens(claims.UserID, claims.Email)
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetUser loads the account behind a validated token.
func (s *Service) GetUser(userID string) (*user.User, error) {
	return s.users.GetByID(userID)
}

func (s *Service) issueTokens(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) verifyAssertion(assertion string) (*AssertionClaims, error) {
	claims, err := parseHS256(assertion, s.assertionSecret, &AssertionClaims{})
	if err != nil {
		return nil, ErrInvalidAssertion
	}
	ac, ok := claims.(*AssertionClaims)
	if !ok {
		return nil, ErrInvalidAssertion
	}
	return ac, nil
}

package domain

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// User is the credential record behind a profile.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Contact is the addressable identity of a user, used for notifications.
type Contact struct {
	UserID   string
	Email    string
	Username string
}

// AccountRepository persists users together with their profile.
type AccountRepository interface {
	CreateAccount(ctx context.Context, user User, profile Profile) error
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	// GetContact returns nil when the user does not exist.
	GetContact(ctx context.Context, userID string) (*Contact, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(userID, email string) (string, time.Time, error)
}

// Session is returned by sign up and sign in.
type Session struct {
	User        User
	Profile     Profile
	AccessToken string
	ExpiresAt   time.Time
}

// AccountService implements sign up and sign in.
type AccountService struct {
	repo     AccountRepository
	profiles ProfileRepository
	issuer   TokenIssuer
	cost     int
	now      func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(repo AccountRepository, profiles ProfileRepository, issuer TokenIssuer) *AccountService {
	return &AccountService{repo: repo, profiles: profiles, issuer: issuer, cost: bcrypt.DefaultCost, now: time.Now}
}

// SignUpInput captures the registration form.
type SignUpInput struct {
	Email    string
	Password string
	Username string
	FullName string
}

// SignUp registers a user, creates the profile and returns a session.
func (s *AccountService) SignUp(ctx context.Context, input SignUpInput) (*Session, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, validationError("username is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := Profile{
		UserID:    user.ID,
		Username:  username,
		FullName:  strings.TrimSpace(input.FullName),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateAccount(ctx, user, profile); err != nil {
		return nil, err
	}
	return s.session(user, profile)
}

// SignIn verifies credentials. Unknown email and wrong password produce the same error.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.repo.FindUserByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	profile, err := s.profiles.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return s.session(*user, *profile)
}

func (s *AccountService) session(user User, profile Profile) (*Session, error) {
	token, expiresAt, err := s.issuer.IssueToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Profile: profile, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", validationError("email is invalid")
	}
	return trimmed, nil
}

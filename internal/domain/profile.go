package domain

import (
	"context"
	"strings"
	"time"
)

// Profile is the public face of a user.
type Profile struct {
	UserID           string
	Username         string
	FullName         string
	AvatarURL        string
	HeightCm         *float64
	StartingWeightKg *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ProfilePatch carries the optional fields of an update.
type ProfilePatch struct {
	Username         *string
	FullName         *string
	AvatarURL        *string
	HeightCm         *float64
	StartingWeightKg *float64
}

// ProfileRepository captures profile persistence.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile Profile) error
	SearchProfiles(ctx context.Context, prefix string, limit int) ([]Profile, error)
}

// ProfileService orchestrates profile reads and updates.
type ProfileService struct {
	repo ProfileRepository
	now  func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo, now: time.Now}
}

// GetProfile fetches the profile for the user.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// UpdateProfile applies a patch. Usernames stay unique across profiles.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username == "" {
			return nil, validationError("username cannot be empty")
		}
		if !strings.EqualFold(username, profile.Username) {
			existing, err := s.repo.GetProfileByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.UserID != userID {
				return nil, ErrUsernameTaken
			}
		}
		profile.Username = username
	}
	if patch.FullName != nil {
		profile.FullName = strings.TrimSpace(*patch.FullName)
	}
	if patch.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if patch.HeightCm != nil {
		if *patch.HeightCm <= 0 {
			return nil, validationError("height_cm must be > 0")
		}
		profile.HeightCm = patch.HeightCm
	}
	if patch.StartingWeightKg != nil {
		if *patch.StartingWeightKg <= 0 {
			return nil, validationError("starting_weight_kg must be > 0")
		}
		profile.StartingWeightKg = patch.StartingWeightKg
	}
	profile.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateProfile(ctx, *profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SearchProfiles finds profiles whose username starts with the query.
func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit int) ([]Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("query is required")
	}
	return s.repo.SearchProfiles(ctx, query, clampLimit(limit, 20, 50))
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

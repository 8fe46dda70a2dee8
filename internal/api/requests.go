package api

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"example.com/habitkick/internal/domain"
)

// SignUpRequest is the payload for POST /v1/auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Validate ensures request correctness.
func (r SignUpRequest) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return errors.New("email is invalid")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username is required")
	}
	return nil
}

// SignInRequest is the payload for POST /v1/auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate ensures request correctness.
func (r SignInRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// UpdateProfileRequest patches the caller's profile. Absent fields are unchanged.
type UpdateProfileRequest struct {
	Username         *string  `json:"username"`
	FullName         *string  `json:"full_name"`
	AvatarURL        *string  `json:"avatar_url"`
	HeightCm         *float64 `json:"height_cm"`
	StartingWeightKg *float64 `json:"starting_weight_kg"`
}

// Validate ensures request correctness.
func (r UpdateProfileRequest) Validate() error {
	if r.Username == nil && r.FullName == nil && r.AvatarURL == nil && r.HeightCm == nil && r.StartingWeightKg == nil {
		return errors.New("no fields to update")
	}
	return nil
}

func (r UpdateProfileRequest) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Username:         r.Username,
		FullName:         r.FullName,
		AvatarURL:        r.AvatarURL,
		HeightCm:         r.HeightCm,
		StartingWeightKg: r.StartingWeightKg,
	}
}

// LogWeightRequest is the payload for POST /v1/weights.
type LogWeightRequest struct {
	WeightKg   float64    `json:"weight_kg"`
	Note       string     `json:"note"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// Validate ensures request correctness.
func (r LogWeightRequest) Validate() error {
	if r.WeightKg <= 0 {
		return errors.New("weight_kg must be > 0")
	}
	return nil
}

// AddWaterRequest is the payload for POST /v1/water.
type AddWaterRequest struct {
	AmountMl   int        `json:"amount_ml"`
	ConsumedAt *time.Time `json:"consumed_at"`
}

// Validate ensures request correctness.
func (r AddWaterRequest) Validate() error {
	if r.AmountMl <= 0 {
		return errors.New("amount_ml must be > 0")
	}
	return nil
}

// CreateGoalRequest is the payload for POST /v1/goals.
type CreateGoalRequest struct {
	GoalType    string     `json:"goal_type"`
	TargetValue float64    `json:"target_value"`
	Deadline    *time.Time `json:"deadline"`
}

// Validate ensures request correctness.
func (r CreateGoalRequest) Validate() error {
	if strings.TrimSpace(r.GoalType) == "" {
		return errors.New("goal_type is required")
	}
	if r.TargetValue <= 0 {
		return errors.New("target_value must be > 0")
	}
	return nil
}

// UpdateGoalRequest is the payload for PATCH /v1/goals/{id}.
type UpdateGoalRequest struct {
	TargetValue *float64   `json:"target_value"`
	Deadline    *time.Time `json:"deadline"`
	Status      *string    `json:"status"`
}

func (r UpdateGoalRequest) input() domain.UpdateGoalInput {
	in := domain.UpdateGoalInput{TargetValue: r.TargetValue, Deadline: r.Deadline}
	if r.Status != nil {
		status := domain.GoalStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// CreateCompetitionRequest is the payload for POST /v1/competitions.
type CreateCompetitionRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// Validate ensures request correctness.
func (r CreateCompetitionRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return errors.New("start_date and end_date are required")
	}
	return nil
}

// InviteRequest is the payload for POST /v1/competitions/{id}/invite.
type InviteRequest struct {
	Username string `json:"username"`
}

// CreateChallengeRequest is the payload for POST /v1/challenges.
type CreateChallengeRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Metric       string  `json:"metric"`
	DailyTarget  float64 `json:"daily_target"`
	DurationDays int     `json:"duration_days"`
}

// Validate ensures request correctness.
func (r CreateChallengeRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.DailyTarget <= 0 {
		return errors.New("daily_target must be > 0")
	}
	if r.DurationDays <= 0 {
		return errors.New("duration_days must be > 0")
	}
	return nil
}

// JoinChallengeRequest optionally backdates the start of a challenge.
type JoinChallengeRequest struct {
	StartedOn string `json:"started_on"`
}

// ProgressRequest is the payload for PUT /v1/challenges/{id}/progress.
type ProgressRequest struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// SaveRecipeRequest stores a search hit.
type SaveRecipeRequest struct {
	ExternalID string  `json:"external_id"`
	Title      string  `json:"title"`
	ImageURL   string  `json:"image_url"`
	SourceURL  string  `json:"source_url"`
	Calories   float64 `json:"calories"`
}

// Validate ensures request correctness.
func (r SaveRecipeRequest) Validate() error {
	if strings.TrimSpace(r.ExternalID) == "" {
		return errors.New("external_id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

// ListRequest names a workout list.
type ListRequest struct {
	Name string `json:"name"`
}

// Validate ensures request correctness.
func (r ListRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// AddWorkoutRequest is the payload for POST /v1/lists/{id}/workouts.
type AddWorkoutRequest struct {
	Exercise string   `json:"exercise"`
	Sets     int      `json:"sets"`
	Reps     int      `json:"reps"`
	WeightKg *float64 `json:"weight_kg"`
}

// Validate ensures request correctness.
func (r AddWorkoutRequest) Validate() error {
	if strings.TrimSpace(r.Exercise) == "" {
		return errors.New("exercise is required")
	}
	if r.Sets <= 0 || r.Reps <= 0 {
		return errors.New("sets and reps must be > 0")
	}
	return nil
}

// CoachChatRequest carries the conversation so far.
type CoachChatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// Validate ensures request correctness.
func (r CoachChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return errors.New("messages are required")
	}
	return nil
}

package domain

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/habitkick/pkg/events"
)

// GoalType enumerates what a goal measures.
type GoalType string

const (
	GoalTypeWeight   GoalType = "weight"
	GoalTypeWater    GoalType = "water"
	GoalTypeWorkouts GoalType = "workouts"
)

// GoalStatus represents the lifecycle of a goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// Goal is a row of profile_goals.
type Goal struct {
	ID          string
	UserID      string
	Type        GoalType
	TargetValue float64
	StartValue  *float64
	Deadline    *time.Time
	Status      GoalStatus
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReachedBy reports whether a weight reading satisfies a weight goal.
// The direction comes from the start value; a goal without one is never reached.
func (g Goal) ReachedBy(weightKg float64) bool {
	if g.StartValue == nil {
		return false
	}
	if *g.StartValue < g.TargetValue {
		return weightKg >= g.TargetValue
	}
	return weightKg <= g.TargetValue
}

// GoalRepository captures goal persistence.
type GoalRepository interface {
	CreateGoal(ctx context.Context, goal Goal) error
	GetGoal(ctx context.Context, userID, goalID string) (*Goal, error)
	// ListGoals filters by status; an empty status returns every goal.
	ListGoals(ctx context.Context, userID string, status GoalStatus) ([]Goal, error)
	UpdateGoal(ctx context.Context, goal Goal, events []Event) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
}

// GoalProgress reports how far a goal has come.
type GoalProgress struct {
	Goal         Goal
	CurrentValue float64
	Percent      float64
	Remaining    float64
}

// GoalService orchestrates goal workflows.
type GoalService struct {
	repo     GoalRepository
	weights  WeightRepository
	water    WaterRepository
	workouts WorkoutRepository
	profiles ProfileRepository
	now      func() time.Time
}

// NewGoalService constructs a GoalService.
func NewGoalService(repo GoalRepository, weights WeightRepository, water WaterRepository, workouts WorkoutRepository, profiles ProfileRepository) *GoalService {
	return &GoalService{repo: repo, weights: weights, water: water, workouts: workouts, profiles: profiles, now: time.Now}
}

// CreateGoalInput captures the payload from the API layer.
type CreateGoalInput struct {
	UserID      string
	Type        GoalType
	TargetValue float64
	Deadline    *time.Time
}

// CreateGoal stores a new active goal. Weight goals snapshot the latest weight as their start,
// falling back to the profile's starting weight.
func (s *GoalService) CreateGoal(ctx context.Context, input CreateGoalInput) (*Goal, error) {
	if !validGoalType(input.Type) {
		return nil, validationError("goal_type must be one of weight, water, workouts")
	}
	if input.TargetValue <= 0 || math.IsNaN(input.TargetValue) {
		return nil, validationError("target_value must be > 0")
	}
	now := s.now().UTC()
	if input.Deadline != nil && input.Deadline.Before(now) {
		return nil, validationError("deadline must be in the future")
	}

	goal := Goal{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Type:        input.Type,
		TargetValue: input.TargetValue,
		Deadline:    input.Deadline,
		Status:      GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Type == GoalTypeWeight {
		start, err := s.startingWeight(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		goal.StartValue = start
	}

	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoals returns the user's goals, optionally filtered by status.
func (s *GoalService) ListGoals(ctx context.Context, userID string, status GoalStatus) ([]Goal, error) {
	if status != "" && !validGoalStatus(status) {
		return nil, validationError("unknown status %q", status)
	}
	return s.repo.ListGoals(ctx, userID, status)
}

// UpdateGoalInput carries optional changes.
type UpdateGoalInput struct {
	TargetValue *float64
	Deadline    *time.Time
	Status      *GoalStatus
}

// UpdateGoal applies changes. Only active goals may change, and only to completed or abandoned.
func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, input UpdateGoalInput) (*Goal, error) {
	goal, err := s.getGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != GoalStatusActive {
		return nil, validationError("goal is %s and can no longer change", goal.Status)
	}

	now := s.now().UTC()
	if input.TargetValue != nil {
		if *input.TargetValue <= 0 {
			return nil, validationError("target_value must be > 0")
		}
		goal.TargetValue = *input.TargetValue
	}
	if input.Deadline != nil {
		goal.Deadline = input.Deadline
	}

	var pending []Event
	if input.Status != nil && *input.Status != GoalStatusActive {
		switch *input.Status {
		case GoalStatusCompleted:
			goal.Status = GoalStatusCompleted
			goal.CompletedAt = &now
			pending = append(pending, goalCompletedEvent(*goal))
		case GoalStatusAbandoned:
			goal.Status = GoalStatusAbandoned
		default:
			return nil, validationError("unknown status %q", *input.Status)
		}
	}
	goal.UpdatedAt = now

	if err := s.repo.UpdateGoal(ctx, *goal, pending); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal owned by the user.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	return s.repo.DeleteGoal(ctx, userID, goalID)
}

// GoalProgress computes progress against the goal's metric.
func (s *GoalService) GoalProgress(ctx context.Context, userID, goalID string) (*GoalProgress, error) {
	goal, err := s.getGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	progress := &GoalProgress{Goal: *goal}
	switch goal.Type {
	case GoalTypeWeight:
		latest, err := s.weights.LatestWeight(ctx, userID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			progress.Remaining = goal.TargetValue
			return progress, nil
		}
		progress.CurrentValue = latest.WeightKg
		progress.Percent, progress.Remaining = weightGoalProgress(*goal, latest.WeightKg)
	case GoalTypeWater:
		now := s.now().UTC()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		total, err := s.water.SumWater(ctx, userID, dayStart, dayStart.Add(24*time.Hour))
		if err != nil {
			return nil, err
		}
		progress.CurrentValue = float64(total)
		progress.Percent, progress.Remaining = countGoalProgress(goal.TargetValue, float64(total))
	case GoalTypeWorkouts:
		count, err := s.workouts.CountWorkoutsSince(ctx, userID, goal.CreatedAt)
		if err != nil {
			return nil, err
		}
		progress.CurrentValue = float64(count)
		progress.Percent, progress.Remaining = countGoalProgress(goal.TargetValue, float64(count))
	}
	if goal.Status == GoalStatusCompleted {
		progress.Percent = 100
		progress.Remaining = 0
	}
	return progress, nil
}

func (s *GoalService) startingWeight(ctx context.Context, userID string) (*float64, error) {
	latest, err := s.weights.LatestWeight(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		start := latest.WeightKg
		return &start, nil
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.StartingWeightKg == nil {
		return nil, nil
	}
	start := *profile.StartingWeightKg
	return &start, nil
}

func (s *GoalService) getGoal(ctx context.Context, userID, goalID string) (*Goal, error) {
	if strings.TrimSpace(goalID) == "" {
		return nil, validationError("goal id is required")
	}
	goal, err := s.repo.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, ErrNotFound
	}
	return goal, nil
}

// weightGoalProgress returns the share of the start-to-target distance covered, clamped to [0, 100].
func weightGoalProgress(goal Goal, current float64) (percent, remaining float64) {
	remaining = roundTo(math.Abs(goal.TargetValue-current), 2)
	if goal.ReachedBy(current) {
		return 100, 0
	}
	if goal.StartValue == nil {
		return 0, remaining
	}
	distance := math.Abs(goal.TargetValue - *goal.StartValue)
	if distance == 0 {
		return 100, 0
	}
	covered := (distance - math.Abs(goal.TargetValue-current)) / distance * 100
	return roundTo(math.Max(0, math.Min(100, covered)), 2), remaining
}

func countGoalProgress(target, current float64) (percent, remaining float64) {
	percent = roundTo(math.Min(100, current/target*100), 2)
	remaining = math.Max(0, target-current)
	return percent, remaining
}

func goalCompletedEvent(goal Goal) Event {
	completedAt := goal.UpdatedAt
	if goal.CompletedAt != nil {
		completedAt = *goal.CompletedAt
	}
	return Event{
		Type:          EventGoalCompleted,
		AggregateType: "goal",
		AggregateID:   goal.ID,
		UserID:        goal.UserID,
		Payload: events.GoalCompleted{
			GoalID:      goal.ID,
			UserID:      goal.UserID,
			GoalType:    string(goal.Type),
			TargetValue: goal.TargetValue,
			CompletedAt: completedAt,
		},
	}
}

func validGoalType(t GoalType) bool {
	switch t {
	case GoalTypeWeight, GoalTypeWater, GoalTypeWorkouts:
		return true
	}
	return false
}

func validGoalStatus(s GoalStatus) bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusAbandoned:
		return true
	}
	return false
}

package domain

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/habitkick/pkg/events"
)

const (
	maxWeightKg      = 700
	futureClockSkew  = 5 * time.Minute
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// WeightEntry is a single row of the weight tracker.
type WeightEntry struct {
	ID         string
	UserID     string
	WeightKg   float64
	Note       string
	RecordedAt time.Time
	CreatedAt  time.Time
}

// WeightFilter narrows a weight listing.
type WeightFilter struct {
	From   time.Time
	To     time.Time
	Cursor *Cursor
	Limit  int
}

// WeightRepository captures weight persistence.
type WeightRepository interface {
	// CreateWeight stores the entry together with the weight goals it changed.
	CreateWeight(ctx context.Context, entry WeightEntry, goals []Goal, events []Event) error
	ListWeights(ctx context.Context, userID string, filter WeightFilter) ([]WeightEntry, *Cursor, error)
	DeleteWeight(ctx context.Context, userID, entryID string) error
	LatestWeight(ctx context.Context, userID string) (*WeightEntry, error)
	// WeightHistory returns entries recorded in [from, to] oldest first. Zero bounds are open.
	// actorID is the caller; rows of other users are visible only to fellow competitors.
	WeightHistory(ctx context.Context, actorID, userID string, from, to time.Time) ([]WeightEntry, error)
}

// WeightProgress summarises change over a range.
type WeightProgress struct {
	Entries        int
	StartWeightKg  float64
	LatestWeightKg float64
	ChangeKg       float64
	PercentChange  float64
	StartAt        *time.Time
	LatestAt       *time.Time
}

// WeightService orchestrates weight logging.
type WeightService struct {
	repo  WeightRepository
	goals GoalRepository
	now   func() time.Time
}

// NewWeightService constructs a WeightService.
func NewWeightService(repo WeightRepository, goals GoalRepository) *WeightService {
	return &WeightService{repo: repo, goals: goals, now: time.Now}
}

// LogWeightInput captures the payload from the API layer.
type LogWeightInput struct {
	UserID     string
	WeightKg   float64
	Note       string
	RecordedAt time.Time
}

// LogWeight records an entry and completes any weight goal the entry reaches.
func (s *WeightService) LogWeight(ctx context.Context, input LogWeightInput) (*WeightEntry, []Goal, error) {
	if input.WeightKg <= 0 || input.WeightKg > maxWeightKg || math.IsNaN(input.WeightKg) {
		return nil, nil, validationError("weight_kg must be between 0 and %d", maxWeightKg)
	}
	now := s.now().UTC()
	recordedAt := input.RecordedAt.UTC()
	if input.RecordedAt.IsZero() {
		recordedAt = now
	}
	if recordedAt.After(now.Add(futureClockSkew)) {
		return nil, nil, validationError("recorded_at cannot be in the future")
	}

	entry := WeightEntry{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		WeightKg:   input.WeightKg,
		Note:       strings.TrimSpace(input.Note),
		RecordedAt: recordedAt,
		CreatedAt:  now,
	}

	active, err := s.goals.ListGoals(ctx, input.UserID, GoalStatusActive)
	if err != nil {
		return nil, nil, err
	}

	pending := []Event{{
		Type:          EventWeightLogged,
		AggregateType: "weight_entry",
		AggregateID:   entry.ID,
		UserID:        entry.UserID,
		Payload: events.WeightLogged{
			EntryID:    entry.ID,
			UserID:     entry.UserID,
			WeightKg:   entry.WeightKg,
			RecordedAt: entry.RecordedAt,
		},
	}}

	completed := make([]Goal, 0)
	var changed []Goal
	for _, goal := range active {
		if goal.Type != GoalTypeWeight {
			continue
		}
		if goal.StartValue == nil {
			// First reading fixes the direction; nothing to evaluate yet.
			start := entry.WeightKg
			goal.StartValue = &start
			goal.UpdatedAt = now
			changed = append(changed, goal)
			continue
		}
		if !goal.ReachedBy(entry.WeightKg) {
			continue
		}
		goal.Status = GoalStatusCompleted
		completedAt := now
		goal.CompletedAt = &completedAt
		goal.UpdatedAt = now
		completed = append(completed, goal)
		changed = append(changed, goal)
		pending = append(pending, goalCompletedEvent(goal))
	}

	if err := s.repo.CreateWeight(ctx, entry, changed, pending); err != nil {
		return nil, nil, err
	}
	return &entry, completed, nil
}

// GetWeightEntries lists entries most recently logged first, so a backfilled reading shows at the top.
func (s *WeightService) GetWeightEntries(ctx context.Context, userID string, filter WeightFilter) ([]WeightEntry, *Cursor, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, nil, validationError("to must not be before from")
	}
	filter.Limit = clampLimit(filter.Limit, defaultPageLimit, maxPageLimit)
	return s.repo.ListWeights(ctx, userID, filter)
}

// DeleteWeightEntry removes an entry owned by the user.
func (s *WeightService) DeleteWeightEntry(ctx context.Context, userID, entryID string) error {
	if strings.TrimSpace(entryID) == "" {
		return validationError("entry id is required")
	}
	return s.repo.DeleteWeight(ctx, userID, entryID)
}

// WeightProgress compares the first and latest entry in the range.
func (s *WeightService) WeightProgress(ctx context.Context, userID string, from, to time.Time) (WeightProgress, error) {
	history, err := s.repo.WeightHistory(ctx, userID, userID, from, to)
	if err != nil {
		return WeightProgress{}, err
	}
	return summarizeWeights(history), nil
}

func summarizeWeights(history []WeightEntry) WeightProgress {
	if len(history) == 0 {
		return WeightProgress{}
	}
	first := history[0]
	last := history[len(history)-1]
	progress := WeightProgress{
		Entries:        len(history),
		StartWeightKg:  first.WeightKg,
		LatestWeightKg: last.WeightKg,
		ChangeKg:       roundTo(last.WeightKg-first.WeightKg, 2),
		StartAt:        timePtr(first.RecordedAt),
		LatestAt:       timePtr(last.RecordedAt),
	}
	progress.PercentChange = roundTo(percentChange(first.WeightKg, last.WeightKg), 2)
	return progress
}

func percentChange(start, current float64) float64 {
	if start == 0 {
		return 0
	}
	return (current - start) / start * 100
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func timePtr(t time.Time) *time.Time {
	return &t
}

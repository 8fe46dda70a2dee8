package domain

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dayLayout = "2006-01-02"

// ChallengeMetric is what a challenge counts each day.
type ChallengeMetric string

const (
	MetricWaterMl  ChallengeMetric = "water_ml"
	MetricWorkouts ChallengeMetric = "workouts"
	MetricSteps    ChallengeMetric = "steps"
)

// Challenge is a daily habit template users can join.
type Challenge struct {
	ID           string
	Title        string
	Description  string
	Metric       ChallengeMetric
	DailyTarget  float64
	DurationDays int
	CreatedBy    string
	CreatedAt    time.Time
}

// Participant records when a user started a challenge.
type Participant struct {
	ChallengeID string
	UserID      string
	StartedOn   time.Time
}

// DailyProgress is one day of a participant's progress.
type DailyProgress struct {
	ID          string
	UserID      string
	ChallengeID string
	Day         time.Time
	Value       float64
	Completed   bool
	UpdatedAt   time.Time
}

// ChallengeSummary aggregates a participant's progress.
type ChallengeSummary struct {
	Challenge       Challenge
	StartedOn       time.Time
	DaysCompleted   int
	CurrentStreak   int
	LongestStreak   int
	PercentComplete float64
	Days            []DailyProgress
}

// ChallengeRepository captures challenge persistence.
type ChallengeRepository interface {
	CreateChallenge(ctx context.Context, challenge Challenge) error
	GetChallenge(ctx context.Context, challengeID string) (*Challenge, error)
	ListChallenges(ctx context.Context, limit int) ([]Challenge, error)
	JoinChallenge(ctx context.Context, participant Participant) error
	GetParticipant(ctx context.Context, userID, challengeID string) (*Participant, error)
	UpsertProgress(ctx context.Context, progress DailyProgress) (*DailyProgress, error)
	// ListProgress returns progress rows oldest day first.
	ListProgress(ctx context.Context, userID, challengeID string) ([]DailyProgress, error)
}

// ChallengeService orchestrates daily challenges.
type ChallengeService struct {
	repo ChallengeRepository
	now  func() time.Time
}

// NewChallengeService constructs a ChallengeService.
func NewChallengeService(repo ChallengeRepository) *ChallengeService {
	return &ChallengeService{repo: repo, now: time.Now}
}

// CreateChallengeInput captures the payload from the API layer.
type CreateChallengeInput struct {
	CreatorID    string
	Title        string
	Description  string
	Metric       ChallengeMetric
	DailyTarget  float64
	DurationDays int
}

// CreateChallenge stores a challenge template.
func (s *ChallengeService) CreateChallenge(ctx context.Context, input CreateChallengeInput) (*Challenge, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	switch input.Metric {
	case MetricWaterMl, MetricWorkouts, MetricSteps:
	default:
		return nil, validationError("metric must be one of water_ml, workouts, steps")
	}
	if input.DailyTarget <= 0 || math.IsNaN(input.DailyTarget) {
		return nil, validationError("daily_target must be > 0")
	}
	if input.DurationDays <= 0 || input.DurationDays > 366 {
		return nil, validationError("duration_days must be between 1 and 366")
	}

	challenge := Challenge{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Metric:       input.Metric,
		DailyTarget:  input.DailyTarget,
		DurationDays: input.DurationDays,
		CreatedBy:    input.CreatorID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateChallenge(ctx, challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ListChallenges returns the newest challenges.
func (s *ChallengeService) ListChallenges(ctx context.Context, limit int) ([]Challenge, error) {
	return s.repo.ListChallenges(ctx, clampLimit(limit, 50, 200))
}

// JoinChallenge starts the challenge for the user on the given day (today when zero).
func (s *ChallengeService) JoinChallenge(ctx context.Context, userID, challengeID string, startedOn time.Time) (*Participant, error) {
	if _, err := s.getChallenge(ctx, challengeID); err != nil {
		return nil, err
	}
	if startedOn.IsZero() {
		startedOn = s.now()
	}
	participant := Participant{ChallengeID: challengeID, UserID: userID, StartedOn: truncateDay(startedOn)}
	if err := s.repo.JoinChallenge(ctx, participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

// RecordProgress sets the value for a day inside the participant's window.
func (s *ChallengeService) RecordProgress(ctx context.Context, userID, challengeID string, day time.Time, value float64) (*DailyProgress, error) {
	if value < 0 || math.IsNaN(value) {
		return nil, validationError("value must be >= 0")
	}
	challenge, err := s.getChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	participant, err := s.repo.GetParticipant(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrNotParticipant
	}

	if day.IsZero() {
		day = s.now()
	}
	day = truncateDay(day)
	windowEnd := participant.StartedOn.AddDate(0, 0, challenge.DurationDays)
	if day.Before(participant.StartedOn) || !day.Before(windowEnd) {
		return nil, ErrOutsideChallengeWindow
	}

	return s.repo.UpsertProgress(ctx, DailyProgress{
		ID:          uuid.NewString(),
		UserID:      userID,
		ChallengeID: challengeID,
		Day:         day,
		Value:       value,
		Completed:   value >= challenge.DailyTarget,
		UpdatedAt:   s.now().UTC(),
	})
}

// ChallengeSummary reports completion and streaks as of today.
func (s *ChallengeService) ChallengeSummary(ctx context.Context, userID, challengeID string) (*ChallengeSummary, error) {
	challenge, err := s.getChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	participant, err := s.repo.GetParticipant(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrNotParticipant
	}
	days, err := s.repo.ListProgress(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}

	summary := summarizeChallenge(*challenge, participant.StartedOn, days, truncateDay(s.now()))
	return &summary, nil
}

func summarizeChallenge(challenge Challenge, startedOn time.Time, days []DailyProgress, today time.Time) ChallengeSummary {
	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })

	completed := make(map[string]bool, len(days))
	summary := ChallengeSummary{Challenge: challenge, StartedOn: startedOn, Days: days}
	for _, d := range days {
		if d.Completed {
			completed[d.Day.Format(dayLayout)] = true
			summary.DaysCompleted++
		}
	}

	run := 0
	for _, d := range days {
		if !d.Completed {
			run = 0
			continue
		}
		if run > 0 && completed[d.Day.AddDate(0, 0, -1).Format(dayLayout)] {
			run++
		} else {
			run = 1
		}
		if run > summary.LongestStreak {
			summary.LongestStreak = run
		}
	}

	// The current streak may end today or yesterday; an unfinished today does not break it.
	cursor := today
	if !completed[cursor.Format(dayLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for completed[cursor.Format(dayLayout)] {
		summary.CurrentStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	summary.PercentComplete = roundTo(math.Min(100, float64(summary.DaysCompleted)/float64(challenge.DurationDays)*100), 2)
	return summary
}

func (s *ChallengeService) getChallenge(ctx context.Context, challengeID string) (*Challenge, error) {
	if strings.TrimSpace(challengeID) == "" {
		return nil, validationError("challenge id is required")
	}
	challenge, err := s.repo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrNotFound
	}
	return challenge, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

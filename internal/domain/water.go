package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxWaterPerEntryMl = 5000

// WaterEntry is a single drink.
type WaterEntry struct {
	ID         string
	UserID     string
	AmountMl   int
	ConsumedAt time.Time
	CreatedAt  time.Time
}

// DailyWater totals a calendar day in a given location.
type DailyWater struct {
	Day      string
	Location string
	TotalMl  int
}

// WaterRepository captures water intake persistence.
type WaterRepository interface {
	CreateWater(ctx context.Context, entry WaterEntry) error
	// ListWater returns entries consumed in [from, to) newest first. Zero bounds are open.
	ListWater(ctx context.Context, userID string, from, to time.Time) ([]WaterEntry, error)
	// SumWater totals entries consumed in [from, to).
	SumWater(ctx context.Context, userID string, from, to time.Time) (int, error)
	DeleteWater(ctx context.Context, userID, entryID string) error
}

// WaterService orchestrates water intake tracking.
type WaterService struct {
	repo WaterRepository
	now  func() time.Time
}

// NewWaterService constructs a WaterService.
func NewWaterService(repo WaterRepository) *WaterService {
	return &WaterService{repo: repo, now: time.Now}
}

// AddWater records a drink.
func (s *WaterService) AddWater(ctx context.Context, userID string, amountMl int, consumedAt time.Time) (*WaterEntry, error) {
	if amountMl <= 0 || amountMl > maxWaterPerEntryMl {
		return nil, validationError("amount_ml must be between 1 and %d", maxWaterPerEntryMl)
	}
	now := s.now().UTC()
	if consumedAt.IsZero() {
		consumedAt = now
	}
	if consumedAt.After(now.Add(futureClockSkew)) {
		return nil, validationError("consumed_at cannot be in the future")
	}
	entry := WaterEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		AmountMl:   amountMl,
		ConsumedAt: consumedAt.UTC(),
		CreatedAt:  now,
	}
	if err := s.repo.CreateWater(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListWater returns entries in the range newest first.
func (s *WaterService) ListWater(ctx context.Context, userID string, from, to time.Time) ([]WaterEntry, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, validationError("to must not be before from")
	}
	return s.repo.ListWater(ctx, userID, from, to)
}

// DailyTotal sums the calendar day (YYYY-MM-DD) in the IANA zone tz. An empty day means today.
func (s *WaterService) DailyTotal(ctx context.Context, userID, day, tz string) (DailyWater, error) {
	loc := time.UTC
	if tz = strings.TrimSpace(tz); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return DailyWater{}, validationError("unknown time zone %q", tz)
		}
		loc = parsed
	}

	var start time.Time
	if strings.TrimSpace(day) == "" {
		now := s.now().In(loc)
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	} else {
		parsed, err := time.ParseInLocation("2006-01-02", day, loc)
		if err != nil {
			return DailyWater{}, validationError("day must be formatted YYYY-MM-DD")
		}
		start = parsed
	}
	end := start.AddDate(0, 0, 1)

	total, err := s.repo.SumWater(ctx, userID, start.UTC(), end.UTC())
	if err != nil {
		return DailyWater{}, err
	}
	return DailyWater{Day: start.Format("2006-01-02"), Location: loc.String(), TotalMl: total}, nil
}

// DeleteWater removes an entry owned by the user.
func (s *WaterService) DeleteWater(ctx context.Context, userID, entryID string) error {
	if strings.TrimSpace(entryID) == "" {
		return validationError("entry id is required")
	}
	return s.repo.DeleteWater(ctx, userID, entryID)
}

package domain

import (
	"math"
	"sort"
	"time"
)

// Standing is one player's row on a competition leaderboard.
type Standing struct {
	Rank              int
	UserID            string
	Username          string
	JoinedAt          time.Time
	HasData           bool
	StartWeightKg     float64
	CurrentWeightKg   float64
	StartRecordedAt   *time.Time
	CurrentRecordedAt *time.Time
	ChangeKg          float64
	PercentChange     float64

	// Weights are stored to the hundredth of a kg, so ranking compares integer hundredths exactly.
	baseHundredths  int64
	deltaHundredths int64
}

// EffectiveEnd is the instant weights are compared against: the end date, or now while running.
func (c Competition) EffectiveEnd(now time.Time) time.Time {
	if now.Before(c.EndDate) {
		return now
	}
	return c.EndDate
}

// RankPlayers computes the leaderboard from each player's weight history.
//
// The baseline is the entry recorded closest to the start date and the current reading is the
// latest entry at or before the effective end. Players are ordered by percentage change
// ascending, so the largest relative loss ranks first. Equal percentages share a rank.
func RankPlayers(c Competition, histories map[string][]WeightEntry, now time.Time) []Standing {
	until := c.EffectiveEnd(now)
	standings := make([]Standing, 0, len(c.Players))

	for _, player := range c.Players {
		standing := Standing{
			UserID:   player.UserID,
			Username: player.Username,
			JoinedAt: player.JoinedAt,
		}

		baseline, current, ok := comparisonEntries(histories[player.UserID], c.StartDate, until)
		if ok && hundredths(baseline.WeightKg) > 0 {
			standing.HasData = true
			standing.StartWeightKg = baseline.WeightKg
			standing.CurrentWeightKg = current.WeightKg
			standing.StartRecordedAt = timePtr(baseline.RecordedAt)
			standing.CurrentRecordedAt = timePtr(current.RecordedAt)
			standing.baseHundredths = hundredths(baseline.WeightKg)
			standing.deltaHundredths = hundredths(current.WeightKg) - standing.baseHundredths
			standing.ChangeKg = float64(standing.deltaHundredths) / 100
			standing.PercentChange = roundTo(float64(standing.deltaHundredths)*100/float64(standing.baseHundredths), 2)
		}
		standings = append(standings, standing)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.HasData != b.HasData {
			return a.HasData
		}
		if a.HasData {
			if c := comparePercent(a, b); c != 0 {
				return c < 0
			}
			if a.deltaHundredths != b.deltaHundredths {
				return a.deltaHundredths < b.deltaHundredths
			}
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.UserID < b.UserID
	})

	for i := range standings {
		if i > 0 && sameRank(standings[i-1], standings[i]) {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}

func sameRank(a, b Standing) bool {
	if a.HasData != b.HasData {
		return false
	}
	if !a.HasData {
		return true
	}
	return comparePercent(a, b) == 0
}

// comparePercent orders a and b by relative change without division:
// deltaA/baseA < deltaB/baseB  <=>  deltaA*baseB < deltaB*baseA for positive bases.
func comparePercent(a, b Standing) int {
	l := a.deltaHundredths * b.baseHundredths
	r := b.deltaHundredths * a.baseHundredths
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func hundredths(kg float64) int64 {
	return int64(math.Round(kg * 100))
}

// comparisonEntries picks the baseline and current entries from a history.
func comparisonEntries(history []WeightEntry, start, until time.Time) (WeightEntry, WeightEntry, bool) {
	eligible := make([]WeightEntry, 0, len(history))
	for _, entry := range history {
		if !entry.RecordedAt.After(until) {
			eligible = append(eligible, entry)
		}
	}
	if len(eligible) == 0 {
		return WeightEntry{}, WeightEntry{}, false
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].RecordedAt.Before(eligible[j].RecordedAt)
	})

	baseline := eligible[0]
	bestDistance := absDuration(baseline.RecordedAt.Sub(start))
	for _, entry := range eligible[1:] {
		if d := absDuration(entry.RecordedAt.Sub(start)); d < bestDistance {
			baseline = entry
			bestDistance = d
		}
	}
	return baseline, eligible[len(eligible)-1], true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var rankStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func weighIn(userID string, offset time.Duration, kg float64) WeightEntry {
	return WeightEntry{ID: userID + offset.String(), UserID: userID, WeightKg: kg, RecordedAt: rankStart.Add(offset)}
}

func rankingCompetition(players ...string) Competition {
	c := Competition{ID: "c1", StartDate: rankStart, EndDate: rankStart.AddDate(0, 0, 30)}
	for i, p := range players {
		c.Players = append(c.Players, Player{UserID: p, Username: p, JoinedAt: rankStart.Add(time.Duration(i) * time.Minute)})
	}
	return c
}

type rankRow struct {
	Rank    int
	UserID  string
	HasData bool
	Percent float64
}

func rows(standings []Standing) []rankRow {
	out := make([]rankRow, 0, len(standings))
	for _, s := range standings {
		out = append(out, rankRow{Rank: s.Rank, UserID: s.UserID, HasData: s.HasData, Percent: s.PercentChange})
	}
	return out
}

func TestRankPlayersOrdersByPercentChange(t *testing.T) {
	c := rankingCompetition("alice", "bob", "carol")
	histories := map[string][]WeightEntry{
		"alice": {weighIn("alice", 0, 100), weighIn("alice", 10*24*time.Hour, 95)},
		"bob":   {weighIn("bob", 0, 80), weighIn("bob", 10*24*time.Hour, 72)},
		"carol": {weighIn("carol", 0, 60), weighIn("carol", 10*24*time.Hour, 61)},
	}

	got := RankPlayers(c, histories, rankStart.AddDate(0, 0, 40))
	want := []rankRow{
		{Rank: 1, UserID: "bob", HasData: true, Percent: -10},
		{Rank: 2, UserID: "alice", HasData: true, Percent: -5},
		{Rank: 3, UserID: "carol", HasData: true, Percent: 1.67},
	}
	if diff := cmp.Diff(want, rows(got)); diff != "" {
		t.Fatalf("unexpected ranking (-want +got):\n%s", diff)
	}
}

func TestRankPlayersSharesRankOnEqualPercent(t *testing.T) {
	c := rankingCompetition("alice", "bob", "carol")
	histories := map[string][]WeightEntry{
		"alice": {weighIn("alice", 0, 100), weighIn("alice", 48*time.Hour, 90)},
		"bob":   {weighIn("bob", 0, 50), weighIn("bob", 48*time.Hour, 45)},
		"carol": {weighIn("carol", 0, 70), weighIn("carol", 48*time.Hour, 69)},
	}

	got := RankPlayers(c, histories, rankStart.AddDate(0, 0, 40))
	// alice lost more kilograms so she sorts first, but the rank is shared.
	want := []rankRow{
		{Rank: 1, UserID: "alice", HasData: true, Percent: -10},
		{Rank: 1, UserID: "bob", HasData: true, Percent: -10},
		{Rank: 3, UserID: "carol", HasData: true, Percent: -1.43},
	}
	if diff := cmp.Diff(want, rows(got)); diff != "" {
		t.Fatalf("unexpected ranking (-want +got):\n%s", diff)
	}
}

func TestRankPlayersNoDataSinksToBottom(t *testing.T) {
	c := rankingCompetition("dave", "erin", "frank")
	histories := map[string][]WeightEntry{
		"erin": {weighIn("erin", 0, 90), weighIn("erin", 24*time.Hour, 91)},
	}

	got := RankPlayers(c, histories, rankStart.AddDate(0, 0, 40))
	want := []rankRow{
		{Rank: 1, UserID: "erin", HasData: true, Percent: 1.11},
		{Rank: 2, UserID: "dave"},
		{Rank: 2, UserID: "frank"},
	}
	if diff := cmp.Diff(want, rows(got)); diff != "" {
		t.Fatalf("unexpected ranking (-want +got):\n%s", diff)
	}
}

func TestRankPlayersBaselineClosestToStart(t *testing.T) {
	c := rankingCompetition("alice")
	histories := map[string][]WeightEntry{
		"alice": {
			weighIn("alice", -20*24*time.Hour, 110),
			weighIn("alice", -2*time.Hour, 100),
			weighIn("alice", 5*time.Hour, 99),
			weighIn("alice", 20*24*time.Hour, 90),
			// Logged after the end date, ignored.
			weighIn("alice", 45*24*time.Hour, 80),
		},
	}

	got := RankPlayers(c, histories, rankStart.AddDate(0, 0, 60))
	if len(got) != 1 {
		t.Fatalf("expected one standing, got %d", len(got))
	}
	st := got[0]
	if st.StartWeightKg != 100 || st.CurrentWeightKg != 90 {
		t.Fatalf("expected 100 -> 90, got %v -> %v", st.StartWeightKg, st.CurrentWeightKg)
	}
	if st.ChangeKg != -10 || st.PercentChange != -10 {
		t.Fatalf("unexpected change %v / %v%%", st.ChangeKg, st.PercentChange)
	}
}

func TestRankPlayersUsesNowWhileRunning(t *testing.T) {
	c := rankingCompetition("alice")
	histories := map[string][]WeightEntry{
		"alice": {weighIn("alice", 0, 100), weighIn("alice", 3*24*time.Hour, 98), weighIn("alice", 6*24*time.Hour, 96)},
	}

	got := RankPlayers(c, histories, rankStart.AddDate(0, 0, 4))
	if got[0].CurrentWeightKg != 98 {
		t.Fatalf("expected reading at or before now, got %v", got[0].CurrentWeightKg)
	}
}

func TestRankPlayersSingleEntryHasZeroChange(t *testing.T) {
	c := rankingCompetition("alice")
	histories := map[string][]WeightEntry{"alice": {weighIn("alice", time.Hour, 70)}}

	got := RankPlayers(c, histories, rankStart.AddDate(0, 0, 40))
	want := []Standing{{
		Rank:              1,
		UserID:            "alice",
		Username:          "alice",
		JoinedAt:          rankStart,
		HasData:           true,
		StartWeightKg:     70,
		CurrentWeightKg:   70,
		StartRecordedAt:   timePtr(rankStart.Add(time.Hour)),
		CurrentRecordedAt: timePtr(rankStart.Add(time.Hour)),
	}}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Standing{})); diff != "" {
		t.Fatalf("unexpected standing (-want +got):\n%s", diff)
	}
}

func TestCompetitionStatus(t *testing.T) {
	c := rankingCompetition()
	cases := map[string]struct {
		now  time.Time
		want CompetitionStatus
	}{
		"before start": {now: rankStart.Add(-time.Hour), want: CompetitionUpcoming},
		"running":      {now: rankStart.Add(time.Hour), want: CompetitionActive},
		"at end":       {now: c.EndDate, want: CompetitionEnded},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := c.Status(tc.now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}

	finalized := rankStart
	c.FinalizedAt = &finalized
	if got := c.Status(rankStart.Add(-time.Hour)); got != CompetitionFinalized {
		t.Fatalf("expected finalized, got %s", got)
	}
}

func TestRankPlayersTiebreaksWithDecimalWeights(t *testing.T) {
	type row struct {
		Rank   int
		UserID string
		Kg     float64
	}
	sameJoin := func(players ...string) Competition {
		c := rankingCompetition()
		for _, p := range players {
			c.Players = append(c.Players, Player{UserID: p, Username: p, JoinedAt: rankStart})
		}
		return c
	}

	cases := map[string]struct {
		competition Competition
		histories   map[string][]WeightEntry
		want        []row
	}{
		"equal percent shares rank, larger loss first": {
			competition: rankingCompetition("bob", "alice"),
			histories: map[string][]WeightEntry{
				"alice": {weighIn("alice", 0, 100), weighIn("alice", 72*time.Hour, 90)},
				"bob":   {weighIn("bob", 0, 97.30), weighIn("bob", 72*time.Hour, 87.57)},
			},
			want: []row{{1, "alice", -10}, {1, "bob", -9.73}},
		},
		"equal percent and kg, earlier join first": {
			competition: rankingCompetition("dan", "carol"),
			histories: map[string][]WeightEntry{
				"carol": {weighIn("carol", 0, 82.40), weighIn("carol", 72*time.Hour, 80.34)},
				"dan":   {weighIn("dan", 0, 82.40), weighIn("dan", 72*time.Hour, 80.34)},
			},
			want: []row{{1, "dan", -2.06}, {1, "carol", -2.06}},
		},
		"equal everything, user id decides": {
			competition: sameJoin("zed", "amy"),
			histories: map[string][]WeightEntry{
				"zed": {weighIn("zed", 0, 75.25), weighIn("zed", 72*time.Hour, 74.50)},
				"amy": {weighIn("amy", 0, 75.25), weighIn("amy", 72*time.Hour, 74.50)},
			},
			want: []row{{1, "amy", -0.75}, {1, "zed", -0.75}},
		},
		"tiny percent difference still ranks apart": {
			competition: rankingCompetition("kim", "lee"),
			histories: map[string][]WeightEntry{
				"kim": {weighIn("kim", 0, 100.00), weighIn("kim", 72*time.Hour, 99.99)},
				"lee": {weighIn("lee", 0, 99.99), weighIn("lee", 72*time.Hour, 99.98)},
			},
			want: []row{{1, "lee", -0.01}, {2, "kim", -0.01}},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			standings := RankPlayers(tc.competition, tc.histories, rankStart.AddDate(0, 0, 40))
			got := make([]row, 0, len(standings))
			for _, s := range standings {
				got = append(got, row{s.Rank, s.UserID, s.ChangeKg})
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected ranking (-want +got):\n%s", diff)
			}
		})
	}
}

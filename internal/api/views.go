package api

import (
	"time"

	"example.com/habitkick/internal/domain"
)

// SessionResponse is returned by sign up and sign in.
type SessionResponse struct {
	UserID      string      `json:"user_id"`
	Email       string      `json:"email"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	Profile     ProfileView `json:"profile"`
}

// ProfileView exposes a profile.
type ProfileView struct {
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	HeightCm         *float64  `json:"height_cm,omitempty"`
	StartingWeightKg *float64  `json:"starting_weight_kg,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toProfileView(p domain.Profile) ProfileView {
	return ProfileView{
		UserID:           p.UserID,
		Username:         p.Username,
		FullName:         p.FullName,
		AvatarURL:        p.AvatarURL,
		HeightCm:         p.HeightCm,
		StartingWeightKg: p.StartingWeightKg,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toSessionResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		UserID:      s.User.ID,
		Email:       s.User.Email,
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   s.ExpiresAt,
		Profile:     toProfileView(s.Profile),
	}
}

// WeightView exposes a weight entry.
type WeightView struct {
	ID         string    `json:"id"`
	WeightKg   float64   `json:"weight_kg"`
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func toWeightView(e domain.WeightEntry) WeightView {
	return WeightView{ID: e.ID, WeightKg: e.WeightKg, Note: e.Note, RecordedAt: e.RecordedAt, CreatedAt: e.CreatedAt}
}

// LogWeightResponse reports the entry and any goals it completed.
type LogWeightResponse struct {
	Entry          WeightView `json:"entry"`
	CompletedGoals []GoalView `json:"completed_goals"`
}

// ListWeightsResponse packages a page of weight entries.
type ListWeightsResponse struct {
	Items      []WeightView `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// WeightProgressView summarises change over a range.
type WeightProgressView struct {
	Entries        int        `json:"entries"`
	StartWeightKg  float64    `json:"start_weight_kg"`
	LatestWeightKg float64    `json:"latest_weight_kg"`
	ChangeKg       float64    `json:"change_kg"`
	PercentChange  float64    `json:"percent_change"`
	StartAt        *time.Time `json:"start_at,omitempty"`
	LatestAt       *time.Time `json:"latest_at,omitempty"`
}

// WaterView exposes a water intake entry.
type WaterView struct {
	ID         string    `json:"id"`
	AmountMl   int       `json:"amount_ml"`
	ConsumedAt time.Time `json:"consumed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func toWaterView(e domain.WaterEntry) WaterView {
	return WaterView{ID: e.ID, AmountMl: e.AmountMl, ConsumedAt: e.ConsumedAt, CreatedAt: e.CreatedAt}
}

// DailyWaterView is the total for one calendar day.
type DailyWaterView struct {
	Day      string `json:"day"`
	TimeZone string `json:"tz"`
	TotalMl  int    `json:"total_ml"`
}

// GoalView exposes a goal.
type GoalView struct {
	ID          string     `json:"id"`
	GoalType    string     `json:"goal_type"`
	TargetValue float64    `json:"target_value"`
	StartValue  *float64   `json:"start_value,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toGoalView(g domain.Goal) GoalView {
	return GoalView{
		ID:          g.ID,
		GoalType:    string(g.Type),
		TargetValue: g.TargetValue,
		StartValue:  g.StartValue,
		Deadline:    g.Deadline,
		Status:      string(g.Status),
		CompletedAt: g.CompletedAt,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toGoalViews(goals []domain.Goal) []GoalView {
	out := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalView(g))
	}
	return out
}

// GoalProgressView reports how far a goal has come.
type GoalProgressView struct {
	Goal         GoalView `json:"goal"`
	CurrentValue float64  `json:"current_value"`
	Percent      float64  `json:"percent"`
	Remaining    float64  `json:"remaining"`
}

// PlayerView is a competition member.
type PlayerView struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// CompetitionView exposes a competition with its derived status.
type CompetitionView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedBy   string       `json:"created_by"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	Status      string       `json:"status"`
	FinalizedAt *time.Time   `json:"finalized_at,omitempty"`
	WinnerID    string       `json:"winner_id,omitempty"`
	Players     []PlayerView `json:"players"`
}

func toCompetitionView(c domain.Competition, now time.Time) CompetitionView {
	view := CompetitionView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedBy:   c.CreatedBy,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Status:      string(c.Status(now)),
		FinalizedAt: c.FinalizedAt,
		WinnerID:    c.WinnerID,
		Players:     make([]PlayerView, 0, len(c.Players)),
	}
	for _, p := range c.Players {
		view.Players = append(view.Players, PlayerView{UserID: p.UserID, Username: p.Username, JoinedAt: p.JoinedAt})
	}
	return view
}

// StandingView is one leaderboard row.
type StandingView struct {
	Rank            int      `json:"rank"`
	UserID          string   `json:"user_id"`
	Username        string   `json:"username"`
	HasData         bool     `json:"has_data"`
	StartWeightKg   *float64 `json:"start_weight_kg,omitempty"`
	CurrentWeightKg *float64 `json:"current_weight_kg,omitempty"`
	ChangeKg        *float64 `json:"change_kg,omitempty"`
	PercentChange   *float64 `json:"percent_change,omitempty"`
}

// LeaderboardView exposes the ranking of a competition.
type LeaderboardView struct {
	CompetitionID string         `json:"competition_id"`
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Standings     []StandingView `json:"standings"`
}

func toLeaderboardView(lb domain.Leaderboard) LeaderboardView {
	view := LeaderboardView{
		CompetitionID: lb.Competition.ID,
		Name:          lb.Competition.Name,
		Status:        string(lb.Status),
		GeneratedAt:   lb.GeneratedAt,
		Standings:     make([]StandingView, 0, len(lb.Standings)),
	}
	for _, s := range lb.Standings {
		row := StandingView{Rank: s.Rank, UserID: s.UserID, Username: s.Username, HasData: s.HasData}
		if s.HasData {
			start, current, change, pct := s.StartWeightKg, s.CurrentWeightKg, s.ChangeKg, s.PercentChange
			row.StartWeightKg, row.CurrentWeightKg, row.ChangeKg, row.PercentChange = &start, &current, &change, &pct
		}
		view.Standings = append(view.Standings, row)
	}
	return view
}

// ChallengeView exposes a challenge definition.
type ChallengeView struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Metric       string    `json:"metric"`
	DailyTarget  float64   `json:"daily_target"`
	DurationDays int       `json:"duration_days"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func toChallengeView(c domain.Challenge) ChallengeView {
	return ChallengeView{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Metric:       string(c.Metric),
		DailyTarget:  c.DailyTarget,
		DurationDays: c.DurationDays,
		CreatedBy:    c.CreatedBy,
		CreatedAt:    c.CreatedAt,
	}
}

// ParticipationView confirms a joined challenge.
type ParticipationView struct {
	ChallengeID string `json:"challenge_id"`
	StartedOn   string `json:"started_on"`
}

// ProgressView is one day of challenge progress.
type ProgressView struct {
	Day       string  `json:"day"`
	Value     float64 `json:"value"`
	Completed bool    `json:"completed"`
}

func toProgressView(p domain.DailyProgress) ProgressView {
	return ProgressView{Day: p.Day.Format("2006-01-02"), Value: p.Value, Completed: p.Completed}
}

// ChallengeSummaryView reports completion and streaks.
type ChallengeSummaryView struct {
	Challenge       ChallengeView  `json:"challenge"`
	StartedOn       string         `json:"started_on"`
	DaysCompleted   int            `json:"days_completed"`
	CurrentStreak   int            `json:"current_streak"`
	LongestStreak   int            `json:"longest_streak"`
	PercentComplete float64        `json:"percent_complete"`
	Days            []ProgressView `json:"days"`
}

// RecipeView exposes a saved recipe.
type RecipeView struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"image_url,omitempty"`
	SourceURL  string    `json:"source_url,omitempty"`
	Calories   float64   `json:"calories"`
	CreatedAt  time.Time `json:"created_at"`
}

func toRecipeView(r domain.Recipe) RecipeView {
	return RecipeView{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Title:      r.Title,
		ImageURL:   r.ImageURL,
		SourceURL:  r.SourceURL,
		Calories:   r.Calories,
		CreatedAt:  r.CreatedAt,
	}
}

// WorkoutListView exposes a workout list.
type WorkoutListView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkoutView exposes one workout in a list.
type WorkoutView struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	WeightKg  *float64  `json:"weight_kg,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toWorkoutView(w domain.Workout) WorkoutView {
	return WorkoutView{
		ID:        w.ID,
		ListID:    w.ListID,
		Exercise:  w.Exercise,
		Sets:      w.Sets,
		Reps:      w.Reps,
		WeightKg:  w.WeightKg,
		CreatedAt: w.CreatedAt,
	}
}

// ItemsResponse wraps a list result.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

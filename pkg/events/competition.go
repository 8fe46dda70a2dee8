package events

import "time"

// CompetitionPlayerInvited is emitted when an owner adds another profile to a competition.
type CompetitionPlayerInvited struct {
	CompetitionID   string    `json:"competition_id"`
	CompetitionName string    `json:"competition_name"`
	InviterID       string    `json:"inviter_id"`
	InviterName     string    `json:"inviter_name"`
	InviteeID       string    `json:"invitee_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

// CompetitionStanding is one row of a finalized leaderboard.
type CompetitionStanding struct {
	Rank          int      `json:"rank"`
	UserID        string   `json:"user_id"`
	Username      string   `json:"username"`
	PercentChange *float64 `json:"percent_change,omitempty"`
}

// CompetitionFinalized is emitted once per competition after its end date passes.
type CompetitionFinalized struct {
	CompetitionID   string                `json:"competition_id"`
	CompetitionName string                `json:"competition_name"`
	WinnerID        string                `json:"winner_id,omitempty"`
	FinalizedAt     time.Time             `json:"finalized_at"`
	Standings       []CompetitionStanding `json:"standings"`
}

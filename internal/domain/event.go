package domain

import "time"

// Event types recorded in the outbox.
const (
	EventWeightLogged             = "weight.logged"
	EventGoalCompleted            = "goal.completed"
	EventCompetitionPlayerInvited = "competition.player_invited"
	EventCompetitionFinalized     = "competition.finalized"
)

// Event is a domain event persisted in the same transaction as the change that produced it.
type Event struct {
	Type          string
	AggregateType string
	AggregateID   string
	UserID        string
	Payload       interface{}
}

// Cursor models the pagination token.
type Cursor struct {
	At time.Time
	ID string
}

package outbox

import "example.com/habitkick/internal/domain"

// schemaCatalog maps event types to the JSON schema registered for their subject.
var schemaCatalog = map[string]string{
	domain.EventWeightLogged:             weightLoggedSchema,
	domain.EventGoalCompleted:            goalCompletedSchema,
	domain.EventCompetitionPlayerInvited: playerInvitedSchema,
	domain.EventCompetitionFinalized:     competitionFinalizedSchema,
}

const weightLoggedSchema = `{
  "type": "object",
  "title": "WeightLogged",
  "properties": {
    "entry_id": {"type": "string"},
    "user_id": {"type": "string"},
    "weight_kg": {"type": "number", "exclusiveMinimum": 0},
    "recorded_at": {"type": "string", "format": "date-time"}
  },
  "required": ["entry_id", "user_id", "weight_kg", "recorded_at"],
  "additionalProperties": false
}`

const goalCompletedSchema = `{
  "type": "object",
  "title": "GoalCompleted",
  "properties": {
    "goal_id": {"type": "string"},
    "user_id": {"type": "string"},
    "goal_type": {"type": "string", "enum": ["weight", "water", "workouts"]},
    "target_value": {"type": "number"},
    "completed_at": {"type": "string", "format": "date-time"}
  },
  "required": ["goal_id", "user_id", "goal_type", "target_value", "completed_at"],
  "additionalProperties": false
}`

const playerInvitedSchema = `{
  "type": "object",
  "title": "CompetitionPlayerInvited",
  "properties": {
    "competition_id": {"type": "string"},
    "competition_name": {"type": "string"},
    "inviter_id": {"type": "string"},
    "inviter_name": {"type": "string"},
    "invitee_id": {"type": "string"},
    "start_date": {"type": "string", "format": "date-time"},
    "end_date": {"type": "string", "format": "date-time"}
  },
  "required": ["competition_id", "competition_name", "inviter_id", "invitee_id", "start_date", "end_date"],
  "additionalProperties": false
}`

const competitionFinalizedSchema = `{
  "type": "object",
  "title": "CompetitionFinalized",
  "properties": {
    "competition_id": {"type": "string"},
    "competition_name": {"type": "string"},
    "winner_id": {"type": "string"},
    "finalized_at": {"type": "string", "format": "date-time"},
    "standings": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "rank": {"type": "integer", "minimum": 1},
          "user_id": {"type": "string"},
          "username": {"type": "string"},
          "percent_change": {"type": "number"}
        },
        "required": ["rank", "user_id", "username"]
      }
    }
  },
  "required": ["competition_id", "competition_name", "finalized_at", "standings"],
  "additionalProperties": false
}`

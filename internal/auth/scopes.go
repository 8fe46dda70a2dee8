package auth

// Scopes granted to HabitKick access tokens.
const (
	ScopeHabitsRead        = "habits:read"
	ScopeHabitsWrite       = "habits:write"
	ScopeCompetitionsWrite = "competitions:write"
)

// DefaultScopes are issued on sign up and sign in.
var DefaultScopes = []string{ScopeHabitsRead, ScopeHabitsWrite, ScopeCompetitionsWrite}

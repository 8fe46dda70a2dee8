// Package api exposes the HabitKick HTTP handlers.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"example.com/habitkick/internal/auth"
	"example.com/habitkick/internal/domain"
)

// Services bundles the domain services the handlers call.
type Services struct {
	Accounts     *domain.AccountService
	Profiles     *domain.ProfileService
	Weights      *domain.WeightService
	Water        *domain.WaterService
	Goals        *domain.GoalService
	Competitions *domain.CompetitionService
	Challenges   *domain.ChallengeService
	Recipes      *domain.RecipeService
	Workouts     *domain.WorkoutService
	Coach        *domain.CoachService
}

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	svc    Services
	logger *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(svc Services, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

const idPattern = "{id:[0-9a-fA-F-]{36}}"

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/auth/signup", h.signUp).Methods(http.MethodPost)
	v1.HandleFunc("/auth/signin", h.signIn).Methods(http.MethodPost)

	v1.HandleFunc("/profile", h.getProfile).Methods(http.MethodGet)
	v1.HandleFunc("/profile", h.updateProfile).Methods(http.MethodPatch)
	v1.HandleFunc("/profiles", h.searchProfiles).Methods(http.MethodGet)

	v1.HandleFunc("/weights", h.logWeight).Methods(http.MethodPost)
	v1.HandleFunc("/weights", h.listWeights).Methods(http.MethodGet)
	v1.HandleFunc("/weights/progress", h.weightProgress).Methods(http.MethodGet)
	v1.HandleFunc("/weights/"+idPattern, h.deleteWeight).Methods(http.MethodDelete)

	v1.HandleFunc("/water", h.addWater).Methods(http.MethodPost)
	v1.HandleFunc("/water", h.listWater).Methods(http.MethodGet)
	v1.HandleFunc("/water/daily", h.dailyWater).Methods(http.MethodGet)
	v1.HandleFunc("/water/"+idPattern, h.deleteWater).Methods(http.MethodDelete)

	v1.HandleFunc("/goals", h.createGoal).Methods(http.MethodPost)
	v1.HandleFunc("/goals", h.listGoals).Methods(http.MethodGet)
	v1.HandleFunc("/goals/"+idPattern, h.updateGoal).Methods(http.MethodPatch)
	v1.HandleFunc("/goals/"+idPattern, h.deleteGoal).Methods(http.MethodDelete)
	v1.HandleFunc("/goals/"+idPattern+"/progress", h.goalProgress).Methods(http.MethodGet)

	v1.HandleFunc("/competitions", h.createCompetition).Methods(http.MethodPost)
	v1.HandleFunc("/competitions", h.listCompetitions).Methods(http.MethodGet)
	v1.HandleFunc("/competitions/"+idPattern, h.getCompetition).Methods(http.MethodGet)
	v1.HandleFunc("/competitions/"+idPattern, h.deleteCompetition).Methods(http.MethodDelete)
	v1.HandleFunc("/competitions/"+idPattern+"/join", h.joinCompetition).Methods(http.MethodPost)
	v1.HandleFunc("/competitions/"+idPattern+"/leave", h.leaveCompetition).Methods(http.MethodPost)
	v1.HandleFunc("/competitions/"+idPattern+"/invite", h.invitePlayer).Methods(http.MethodPost)
	v1.HandleFunc("/competitions/"+idPattern+"/leaderboard", h.leaderboard).Methods(http.MethodGet)

	v1.HandleFunc("/challenges", h.createChallenge).Methods(http.MethodPost)
	v1.HandleFunc("/challenges", h.listChallenges).Methods(http.MethodGet)
	v1.HandleFunc("/challenges/"+idPattern+"/join", h.joinChallenge).Methods(http.MethodPost)
	v1.HandleFunc("/challenges/"+idPattern+"/progress", h.recordProgress).Methods(http.MethodPut)
	v1.HandleFunc("/challenges/"+idPattern+"/summary", h.challengeSummary).Methods(http.MethodGet)

	v1.HandleFunc("/recipes/search", h.searchRecipes).Methods(http.MethodGet)
	v1.HandleFunc("/recipes", h.saveRecipe).Methods(http.MethodPost)
	v1.HandleFunc("/recipes", h.listRecipes).Methods(http.MethodGet)
	v1.HandleFunc("/recipes/"+idPattern, h.deleteRecipe).Methods(http.MethodDelete)

	v1.HandleFunc("/lists", h.createList).Methods(http.MethodPost)
	v1.HandleFunc("/lists", h.listLists).Methods(http.MethodGet)
	v1.HandleFunc("/lists/"+idPattern, h.renameList).Methods(http.MethodPatch)
	v1.HandleFunc("/lists/"+idPattern, h.deleteList).Methods(http.MethodDelete)
	v1.HandleFunc("/lists/"+idPattern+"/workouts", h.addWorkout).Methods(http.MethodPost)
	v1.HandleFunc("/lists/"+idPattern+"/workouts", h.listWorkouts).Methods(http.MethodGet)
	v1.HandleFunc("/lists/"+idPattern+"/workouts/{workoutID:[0-9a-fA-F-]{36}}", h.removeWorkout).Methods(http.MethodDelete)

	v1.HandleFunc("/exercises/search", h.searchExercises).Methods(http.MethodGet)
	v1.HandleFunc("/coach/chat", h.coachChat).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	})
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// caller returns the authenticated user id after checking that the token
// carries one of scopes. It writes the error response itself.
func caller(w http.ResponseWriter, r *http.Request, scopes ...string) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}
	if len(scopes) > 0 && !claims.HasAnyScope(scopes...) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
		return "", false
	}
	return claims.Subject, true
}

func readScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	return caller(w, r, auth.ScopeHabitsRead, auth.ScopeHabitsWrite)
}

func writeScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	return caller(w, r, auth.ScopeHabitsWrite)
}

func competitionScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	return caller(w, r, auth.ScopeCompetitionsWrite)
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// parseTime accepts RFC 3339 timestamps or bare YYYY-MM-DD dates (UTC midnight).
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func queryRange(r *http.Request) (from, to time.Time, err error) {
	if from, err = parseTime(r.URL.Query().Get("from")); err != nil {
		return from, to, err
	}
	to, err = parseTime(r.URL.Query().Get("to"))
	return from, to, err
}

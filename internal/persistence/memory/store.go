// Package memory provides an in-memory implementation of every repository port,
// used for local development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"example.com/habitkick/internal/domain"
)

// Store keeps all rows in maps guarded by one lock.
type Store struct {
	mu sync.RWMutex

	users        map[string]domain.User
	profiles     map[string]domain.Profile
	weights      map[string]domain.WeightEntry
	water        map[string]domain.WaterEntry
	goals        map[string]domain.Goal
	competitions map[string]domain.Competition
	challenges   map[string]domain.Challenge
	participants map[string]domain.Participant
	progress     map[string]domain.DailyProgress
	recipes      map[string]domain.Recipe
	lists        map[string]domain.WorkoutList
	workouts     map[string]domain.Workout
	events       []domain.Event
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]domain.User),
		profiles:     make(map[string]domain.Profile),
		weights:      make(map[string]domain.WeightEntry),
		water:        make(map[string]domain.WaterEntry),
		goals:        make(map[string]domain.Goal),
		competitions: make(map[string]domain.Competition),
		challenges:   make(map[string]domain.Challenge),
		participants: make(map[string]domain.Participant),
		progress:     make(map[string]domain.DailyProgress),
		recipes:      make(map[string]domain.Recipe),
		lists:        make(map[string]domain.WorkoutList),
		workouts:     make(map[string]domain.Workout),
	}
}

// Events returns a copy of every event recorded so far.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// CreateAccount implements domain.AccountRepository.
func (s *Store) CreateAccount(ctx context.Context, user domain.User, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if s.usernameTakenLocked(profile.Username, "") {
		return domain.ErrUsernameTaken
	}
	s.users[user.ID] = user
	s.profiles[profile.UserID] = profile
	return nil
}

// FindUserByEmail implements domain.AccountRepository.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

// GetContact implements domain.AccountRepository.
func (s *Store) GetContact(ctx context.Context, userID string) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &domain.Contact{UserID: user.ID, Email: user.Email, Username: s.profiles[userID].Username}, nil
}

// GetProfile implements domain.ProfileRepository.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

// GetProfileByUsername implements domain.ProfileRepository.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if strings.EqualFold(profile.Username, username) {
			p := profile
			return &p, nil
		}
	}
	return nil, nil
}

// UpdateProfile implements domain.ProfileRepository.
func (s *Store) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.UserID]; !ok {
		return domain.ErrNotFound
	}
	if s.usernameTakenLocked(profile.Username, profile.UserID) {
		return domain.ErrUsernameTaken
	}
	s.profiles[profile.UserID] = profile
	return nil
}

// SearchProfiles implements domain.ProfileRepository.
func (s *Store) SearchProfiles(ctx context.Context, prefix string, limit int) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix = strings.ToLower(prefix)
	out := make([]domain.Profile, 0)
	for _, profile := range s.profiles {
		if strings.HasPrefix(strings.ToLower(profile.Username), prefix) {
			out = append(out, profile)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) usernameTakenLocked(username, exceptUserID string) bool {
	for _, profile := range s.profiles {
		if profile.UserID != exceptUserID && strings.EqualFold(profile.Username, username) {
			return true
		}
	}
	return false
}

// CreateWeight implements domain.WeightRepository.
func (s *Store) CreateWeight(ctx context.Context, entry domain.WeightEntry, goals []domain.Goal, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights[entry.ID] = entry
	for _, goal := range goals {
		s.goals[goal.ID] = goal
	}
	s.events = append(s.events, events...)
	return nil
}

// ListWeights implements domain.WeightRepository.
func (s *Store) ListWeights(ctx context.Context, userID string, filter domain.WeightFilter) ([]domain.WeightEntry, *domain.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.WeightEntry, 0)
	for _, entry := range s.weights {
		if entry.UserID != userID {
			continue
		}
		if !filter.From.IsZero() && entry.RecordedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && entry.RecordedAt.After(filter.To) {
			continue
		}
		if c := filter.Cursor; c != nil {
			if entry.CreatedAt.After(c.At) || (entry.CreatedAt.Equal(c.At) && entry.ID >= c.ID) {
				continue
			}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	var next *domain.Cursor
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	if filter.Limit > 0 && len(out) == filter.Limit {
		last := out[len(out)-1]
		next = &domain.Cursor{At: last.CreatedAt, ID: last.ID}
	}
	return out, next, nil
}

// DeleteWeight implements domain.WeightRepository.
func (s *Store) DeleteWeight(ctx context.Context, userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.weights[entryID]
	if !ok || entry.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.weights, entryID)
	return nil
}

// LatestWeight implements domain.WeightRepository.
func (s *Store) LatestWeight(ctx context.Context, userID string) (*domain.WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.WeightEntry
	for _, entry := range s.weights {
		if entry.UserID != userID {
			continue
		}
		if latest == nil || entry.RecordedAt.After(latest.RecordedAt) {
			e := entry
			latest = &e
		}
	}
	return latest, nil
}

// WeightHistory implements domain.WeightRepository, mirroring the competitor visibility policy.
func (s *Store) WeightHistory(ctx context.Context, actorID, userID string, from, to time.Time) ([]domain.WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if actorID != userID && !s.shareCompetitionLocked(actorID, userID) {
		return []domain.WeightEntry{}, nil
	}
	out := make([]domain.WeightEntry, 0)
	for _, entry := range s.weights {
		if entry.UserID != userID {
			continue
		}
		if !from.IsZero() && entry.RecordedAt.Before(from) {
			continue
		}
		if !to.IsZero() && entry.RecordedAt.After(to) {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (s *Store) shareCompetitionLocked(a, b string) bool {
	for _, c := range s.competitions {
		if c.HasPlayer(a) && c.HasPlayer(b) {
			return true
		}
	}
	return false
}

// CreateWater implements domain.WaterRepository.
func (s *Store) CreateWater(ctx context.Context, entry domain.WaterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.water[entry.ID] = entry
	return nil
}

// ListWater implements domain.WaterRepository.
func (s *Store) ListWater(ctx context.Context, userID string, from, to time.Time) ([]domain.WaterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WaterEntry, 0)
	for _, entry := range s.water {
		if entry.UserID == userID && inHalfOpen(entry.ConsumedAt, from, to) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConsumedAt.After(out[j].ConsumedAt) })
	return out, nil
}

// SumWater implements domain.WaterRepository.
func (s *Store) SumWater(ctx context.Context, userID string, from, to time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, entry := range s.water {
		if entry.UserID == userID && inHalfOpen(entry.ConsumedAt, from, to) {
			total += entry.AmountMl
		}
	}
	return total, nil
}

// DeleteWater implements domain.WaterRepository.
func (s *Store) DeleteWater(ctx context.Context, userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.water[entryID]
	if !ok || entry.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.water, entryID)
	return nil
}

func inHalfOpen(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// CreateGoal implements domain.GoalRepository.
func (s *Store) CreateGoal(ctx context.Context, goal domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[goal.ID] = goal
	return nil
}

// GetGoal implements domain.GoalRepository.
func (s *Store) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, nil
	}
	return &goal, nil
}

// ListGoals implements domain.GoalRepository.
func (s *Store) ListGoals(ctx context.Context, userID string, status domain.GoalStatus) ([]domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Goal, 0)
	for _, goal := range s.goals {
		if goal.UserID == userID && (status == "" || goal.Status == status) {
			out = append(out, goal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateGoal implements domain.GoalRepository.
func (s *Store) UpdateGoal(ctx context.Context, goal domain.Goal, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return domain.ErrNotFound
	}
	s.goals[goal.ID] = goal
	s.events = append(s.events, events...)
	return nil
}

// DeleteGoal implements domain.GoalRepository.
func (s *Store) DeleteGoal(ctx context.Context, userID, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[goalID]
	if !ok || goal.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.goals, goalID)
	return nil
}

// CreateCompetition implements domain.CompetitionRepository.
func (s *Store) CreateCompetition(ctx context.Context, competition domain.Competition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	competition.Players = append([]domain.Player(nil), competition.Players...)
	s.competitions[competition.ID] = competition
	return nil
}

// GetCompetition implements domain.CompetitionRepository.
func (s *Store) GetCompetition(ctx context.Context, competitionID string) (*domain.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	competition, ok := s.competitions[competitionID]
	if !ok {
		return nil, nil
	}
	competition.Players = append([]domain.Player(nil), competition.Players...)
	return &competition, nil
}

// ListCompetitionsForUser implements domain.CompetitionRepository.
func (s *Store) ListCompetitionsForUser(ctx context.Context, userID string) ([]domain.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Competition, 0)
	for _, c := range s.competitions {
		if c.HasPlayer(userID) {
			c.Players = append([]domain.Player(nil), c.Players...)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

// AddPlayer implements domain.CompetitionRepository.
func (s *Store) AddPlayer(ctx context.Context, competitionID string, player domain.Player, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	competition, ok := s.competitions[competitionID]
	if !ok {
		return domain.ErrNotFound
	}
	if competition.HasPlayer(player.UserID) {
		return domain.ErrAlreadyExists
	}
	competition.Players = append(append([]domain.Player(nil), competition.Players...), player)
	s.competitions[competitionID] = competition
	s.events = append(s.events, events...)
	return nil
}

// RemovePlayer implements domain.CompetitionRepository.
func (s *Store) RemovePlayer(ctx context.Context, competitionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	competition, ok := s.competitions[competitionID]
	if !ok {
		return domain.ErrNotFound
	}
	players := make([]domain.Player, 0, len(competition.Players))
	for _, p := range competition.Players {
		if p.UserID != userID {
			players = append(players, p)
		}
	}
	if len(players) == len(competition.Players) {
		return domain.ErrNotFound
	}
	competition.Players = players
	s.competitions[competitionID] = competition
	return nil
}

// DeleteCompetition implements domain.CompetitionRepository.
func (s *Store) DeleteCompetition(ctx context.Context, competitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.competitions[competitionID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.competitions, competitionID)
	return nil
}

// ListEndedUnfinalized implements domain.CompetitionRepository.
func (s *Store) ListEndedUnfinalized(ctx context.Context, now time.Time, limit int, skip []string) ([]domain.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	skipped := make(map[string]struct{}, len(skip))
	for _, id := range skip {
		skipped[id] = struct{}{}
	}
	out := make([]domain.Competition, 0)
	for _, c := range s.competitions {
		if _, ok := skipped[c.ID]; ok {
			continue
		}
		if c.FinalizedAt == nil && !c.EndDate.After(now) {
			c.Players = append([]domain.Player(nil), c.Players...)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FinalizeCompetition implements domain.CompetitionRepository.
func (s *Store) FinalizeCompetition(ctx context.Context, competitionID, winnerID string, finalizedAt time.Time, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	competition, ok := s.competitions[competitionID]
	if !ok {
		return domain.ErrNotFound
	}
	if competition.FinalizedAt != nil {
		return domain.ErrCompetitionFinalized
	}
	competition.FinalizedAt = &finalizedAt
	competition.WinnerID = winnerID
	s.competitions[competitionID] = competition
	s.events = append(s.events, events...)
	return nil
}

// CreateChallenge implements domain.ChallengeRepository.
func (s *Store) CreateChallenge(ctx context.Context, challenge domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.ID] = challenge
	return nil
}

// GetChallenge implements domain.ChallengeRepository.
func (s *Store) GetChallenge(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	challenge, ok := s.challenges[challengeID]
	if !ok {
		return nil, nil
	}
	return &challenge, nil
}

// ListChallenges implements domain.ChallengeRepository.
func (s *Store) ListChallenges(ctx context.Context, limit int) ([]domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// JoinChallenge implements domain.ChallengeRepository.
func (s *Store) JoinChallenge(ctx context.Context, participant domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := participant.UserID + "|" + participant.ChallengeID
	if _, ok := s.participants[key]; ok {
		return domain.ErrAlreadyExists
	}
	s.participants[key] = participant
	return nil
}

// GetParticipant implements domain.ChallengeRepository.
func (s *Store) GetParticipant(ctx context.Context, userID, challengeID string) (*domain.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participant, ok := s.participants[userID+"|"+challengeID]
	if !ok {
		return nil, nil
	}
	return &participant, nil
}

// UpsertProgress implements domain.ChallengeRepository.
func (s *Store) UpsertProgress(ctx context.Context, progress domain.DailyProgress) (*domain.DailyProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progress.UserID + "|" + progress.ChallengeID + "|" + progress.Day.Format("2006-01-02")
	if existing, ok := s.progress[key]; ok {
		progress.ID = existing.ID
	}
	s.progress[key] = progress
	return &progress, nil
}

// ListProgress implements domain.ChallengeRepository.
func (s *Store) ListProgress(ctx context.Context, userID, challengeID string) ([]domain.DailyProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DailyProgress, 0)
	for _, p := range s.progress {
		if p.UserID == userID && p.ChallengeID == challengeID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// SaveRecipe implements domain.RecipeRepository.
func (s *Store) SaveRecipe(ctx context.Context, recipe domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.recipes {
		if existing.UserID == recipe.UserID && existing.ExternalID == recipe.ExternalID {
			return domain.ErrAlreadyExists
		}
	}
	s.recipes[recipe.ID] = recipe
	return nil
}

// ListRecipes implements domain.RecipeRepository.
func (s *Store) ListRecipes(ctx context.Context, userID string) ([]domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Recipe, 0)
	for _, r := range s.recipes {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteRecipe implements domain.RecipeRepository.
func (s *Store) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipe, ok := s.recipes[recipeID]
	if !ok || recipe.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.recipes, recipeID)
	return nil
}

// CreateList implements domain.WorkoutRepository.
func (s *Store) CreateList(ctx context.Context, list domain.WorkoutList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[list.ID] = list
	return nil
}

// GetList implements domain.WorkoutRepository.
func (s *Store) GetList(ctx context.Context, userID, listID string) (*domain.WorkoutList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return nil, nil
	}
	return &list, nil
}

// ListLists implements domain.WorkoutRepository.
func (s *Store) ListLists(ctx context.Context, userID string) ([]domain.WorkoutList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WorkoutList, 0)
	for _, l := range s.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// RenameList implements domain.WorkoutRepository.
func (s *Store) RenameList(ctx context.Context, userID, listID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return domain.ErrNotFound
	}
	list.Name = name
	s.lists[listID] = list
	return nil
}

// DeleteList implements domain.WorkoutRepository.
func (s *Store) DeleteList(ctx context.Context, userID, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[listID]
	if !ok || list.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.lists, listID)
	for id, w := range s.workouts {
		if w.ListID == listID {
			delete(s.workouts, id)
		}
	}
	return nil
}

// AddWorkout implements domain.WorkoutRepository.
func (s *Store) AddWorkout(ctx context.Context, workout domain.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[workout.ListID]; !ok {
		return domain.ErrNotFound
	}
	s.workouts[workout.ID] = workout
	return nil
}

// ListWorkouts implements domain.WorkoutRepository.
func (s *Store) ListWorkouts(ctx context.Context, userID, listID string) ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Workout, 0)
	for _, w := range s.workouts {
		if w.UserID == userID && w.ListID == listID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// RemoveWorkout implements domain.WorkoutRepository.
func (s *Store) RemoveWorkout(ctx context.Context, userID, listID, workoutID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[workoutID]
	if !ok || w.UserID != userID || w.ListID != listID {
		return domain.ErrNotFound
	}
	delete(s.workouts, workoutID)
	return nil
}

// CountWorkoutsSince implements domain.WorkoutRepository.
func (s *Store) CountWorkoutsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, w := range s.workouts {
		if w.UserID == userID && !w.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

var (
	_ domain.AccountRepository     = (*Store)(nil)
	_ domain.ProfileRepository     = (*Store)(nil)
	_ domain.WeightRepository      = (*Store)(nil)
	_ domain.WaterRepository       = (*Store)(nil)
	_ domain.GoalRepository        = (*Store)(nil)
	_ domain.CompetitionRepository = (*Store)(nil)
	_ domain.ChallengeRepository   = (*Store)(nil)
	_ domain.RecipeRepository      = (*Store)(nil)
	_ domain.WorkoutRepository     = (*Store)(nil)
)

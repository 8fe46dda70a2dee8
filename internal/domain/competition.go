package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"example.com/habitkick/pkg/events"
)

const leaderboardParallelism = 8

// CompetitionStatus is derived from the dates and finalization marker.
type CompetitionStatus string

const (
	CompetitionUpcoming  CompetitionStatus = "upcoming"
	CompetitionActive    CompetitionStatus = "active"
	CompetitionEnded     CompetitionStatus = "ended"
	CompetitionFinalized CompetitionStatus = "finalized"
)

// Competition is a time-boxed weight-loss contest.
type Competition struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	StartDate   time.Time
	EndDate     time.Time
	FinalizedAt *time.Time
	WinnerID    string
	CreatedAt   time.Time
	Players     []Player
}

// Player is a row of competitions_players joined with the profile username.
type Player struct {
	UserID   string
	Username string
	JoinedAt time.Time
}

// Status derives the lifecycle state at the given instant.
func (c Competition) Status(now time.Time) CompetitionStatus {
	switch {
	case c.FinalizedAt != nil:
		return CompetitionFinalized
	case now.Before(c.StartDate):
		return CompetitionUpcoming
	case now.Before(c.EndDate):
		return CompetitionActive
	default:
		return CompetitionEnded
	}
}

// HasPlayer reports whether the user has joined.
func (c Competition) HasPlayer(userID string) bool {
	for _, p := range c.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// CompetitionRepository captures competition persistence.
type CompetitionRepository interface {
	// CreateCompetition stores the competition and its initial players.
	CreateCompetition(ctx context.Context, competition Competition) error
	GetCompetition(ctx context.Context, competitionID string) (*Competition, error)
	ListCompetitionsForUser(ctx context.Context, userID string) ([]Competition, error)
	AddPlayer(ctx context.Context, competitionID string, player Player, events []Event) error
	RemovePlayer(ctx context.Context, competitionID, userID string) error
	DeleteCompetition(ctx context.Context, competitionID string) error
	// ListEndedUnfinalized returns ended competitions oldest end first, leaving out the ids in skip.
	ListEndedUnfinalized(ctx context.Context, now time.Time, limit int, skip []string) ([]Competition, error)
	FinalizeCompetition(ctx context.Context, competitionID, winnerID string, finalizedAt time.Time, events []Event) error
}

// Leaderboard is the ranked view of a competition.
type Leaderboard struct {
	Competition Competition
	Status      CompetitionStatus
	Standings   []Standing
	GeneratedAt time.Time
}

// CompetitionService orchestrates competitions.
type CompetitionService struct {
	repo     CompetitionRepository
	profiles ProfileRepository
	weights  WeightRepository
	now      func() time.Time
}

// NewCompetitionService constructs a CompetitionService.
func NewCompetitionService(repo CompetitionRepository, profiles ProfileRepository, weights WeightRepository) *CompetitionService {
	return &CompetitionService{repo: repo, profiles: profiles, weights: weights, now: time.Now}
}

// CreateCompetitionInput captures the payload from the API layer.
type CreateCompetitionInput struct {
	CreatorID   string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// CreateCompetition stores a competition with its creator as the first player.
func (s *CompetitionService) CreateCompetition(ctx context.Context, input CreateCompetitionInput) (*Competition, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, validationError("start_date and end_date are required")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, validationError("end_date must be after start_date")
	}

	creator, err := s.profile(ctx, input.CreatorID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	competition := Competition{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedBy:   input.CreatorID,
		StartDate:   input.StartDate.UTC(),
		EndDate:     input.EndDate.UTC(),
		CreatedAt:   now,
		Players: []Player{{
			UserID:   creator.UserID,
			Username: creator.Username,
			JoinedAt: now,
		}},
	}
	if err := s.repo.CreateCompetition(ctx, competition); err != nil {
		return nil, err
	}
	return &competition, nil
}

// ListCompetitions returns competitions the user has joined.
func (s *CompetitionService) ListCompetitions(ctx context.Context, userID string) ([]Competition, error) {
	return s.repo.ListCompetitionsForUser(ctx, userID)
}

// GetCompetition fetches a competition with its players.
func (s *CompetitionService) GetCompetition(ctx context.Context, competitionID string) (*Competition, error) {
	if strings.TrimSpace(competitionID) == "" {
		return nil, validationError("competition id is required")
	}
	competition, err := s.repo.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition == nil {
		return nil, ErrNotFound
	}
	return competition, nil
}

// JoinCompetition adds the caller as a player until the competition ends.
func (s *CompetitionService) JoinCompetition(ctx context.Context, userID, competitionID string) (*Competition, error) {
	competition, err := s.joinable(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition.HasPlayer(userID) {
		return nil, ErrAlreadyExists
	}
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	player := Player{UserID: profile.UserID, Username: profile.Username, JoinedAt: s.now().UTC()}
	if err := s.repo.AddPlayer(ctx, competitionID, player, nil); err != nil {
		return nil, err
	}
	competition.Players = append(competition.Players, player)
	return competition, nil
}

// LeaveCompetition removes the caller. The owner deletes instead of leaving.
func (s *CompetitionService) LeaveCompetition(ctx context.Context, userID, competitionID string) error {
	competition, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if competition.FinalizedAt != nil {
		return ErrCompetitionFinalized
	}
	if competition.CreatedBy == userID {
		return validationError("the owner cannot leave; delete the competition instead")
	}
	if !competition.HasPlayer(userID) {
		return ErrNotFound
	}
	return s.repo.RemovePlayer(ctx, competitionID, userID)
}

// InvitePlayer lets the owner add another profile by username and queues an invite email.
func (s *CompetitionService) InvitePlayer(ctx context.Context, ownerID, competitionID, username string) (*Player, error) {
	competition, err := s.joinable(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition.CreatedBy != ownerID {
		return nil, ErrForbidden
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationError("username is required")
	}
	invitee, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, ErrNotFound
	}
	if competition.HasPlayer(invitee.UserID) {
		return nil, ErrAlreadyExists
	}
	owner, err := s.profile(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	player := Player{UserID: invitee.UserID, Username: invitee.Username, JoinedAt: s.now().UTC()}
	event := Event{
		Type:          EventCompetitionPlayerInvited,
		AggregateType: "competition",
		AggregateID:   competition.ID,
		UserID:        invitee.UserID,
		Payload: events.CompetitionPlayerInvited{
			CompetitionID:   competition.ID,
			CompetitionName: competition.Name,
			InviterID:       owner.UserID,
			InviterName:     owner.Username,
			InviteeID:       invitee.UserID,
			StartDate:       competition.StartDate,
			EndDate:         competition.EndDate,
		},
	}
	if err := s.repo.AddPlayer(ctx, competitionID, player, []Event{event}); err != nil {
		return nil, err
	}
	return &player, nil
}

// DeleteCompetition removes a competition owned by the caller.
func (s *CompetitionService) DeleteCompetition(ctx context.Context, ownerID, competitionID string) error {
	competition, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if competition.CreatedBy != ownerID {
		return ErrForbidden
	}
	return s.repo.DeleteCompetition(ctx, competitionID)
}

// Leaderboard ranks the players of a competition. Only players may view it.
func (s *CompetitionService) Leaderboard(ctx context.Context, actorID, competitionID string) (*Leaderboard, error) {
	competition, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !competition.HasPlayer(actorID) {
		return nil, ErrForbidden
	}
	return s.leaderboard(ctx, actorID, *competition)
}

func (s *CompetitionService) leaderboard(ctx context.Context, actorID string, competition Competition) (*Leaderboard, error) {
	now := s.now().UTC()
	until := competition.EffectiveEnd(now)

	var mu sync.Mutex
	histories := make(map[string][]WeightEntry, len(competition.Players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(leaderboardParallelism)
	for _, player := range competition.Players {
		userID := player.UserID
		g.Go(func() error {
			history, err := s.weights.WeightHistory(gctx, actorID, userID, time.Time{}, until)
			if err != nil {
				return fmt.Errorf("weight history for %s: %w", userID, err)
			}
			mu.Lock()
			histories[userID] = history
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Leaderboard{
		Competition: competition,
		Status:      competition.Status(now),
		Standings:   RankPlayers(competition, histories, now),
		GeneratedAt: now,
	}, nil
}

// FinalizeEnded finalizes up to limit competitions whose end date has passed, ignoring the ids in skip.
// It returns how many were finalized and the ids that failed.
func (s *CompetitionService) FinalizeEnded(ctx context.Context, limit int, skip []string) (int, []string, error) {
	now := s.now().UTC()
	pending, err := s.repo.ListEndedUnfinalized(ctx, now, clampLimit(limit, 50, 500), skip)
	if err != nil {
		return 0, nil, err
	}

	finalized := 0
	var (
		failed []string
		errs   error
	)
	for _, competition := range pending {
		if err := ctx.Err(); err != nil {
			return finalized, failed, errors.Join(errs, err)
		}
		if err := s.finalize(ctx, competition, now); err != nil {
			failed = append(failed, competition.ID)
			errs = errors.Join(errs, fmt.Errorf("finalize %s: %w", competition.ID, err))
			continue
		}
		finalized++
	}
	return finalized, failed, errs
}

func (s *CompetitionService) finalize(ctx context.Context, competition Competition, now time.Time) error {
	board, err := s.leaderboard(ctx, competition.CreatedBy, competition)
	if err != nil {
		return err
	}

	standings := make([]events.CompetitionStanding, 0, len(board.Standings))
	winnerID := ""
	for _, st := range board.Standings {
		row := events.CompetitionStanding{Rank: st.Rank, UserID: st.UserID, Username: st.Username}
		if st.HasData {
			pct := st.PercentChange
			row.PercentChange = &pct
			if winnerID == "" && st.Rank == 1 {
				winnerID = st.UserID
			}
		}
		standings = append(standings, row)
	}

	event := Event{
		Type:          EventCompetitionFinalized,
		AggregateType: "competition",
		AggregateID:   competition.ID,
		UserID:        competition.CreatedBy,
		Payload: events.CompetitionFinalized{
			CompetitionID:   competition.ID,
			CompetitionName: competition.Name,
			WinnerID:        winnerID,
			FinalizedAt:     now,
			Standings:       standings,
		},
	}
	return s.repo.FinalizeCompetition(ctx, competition.ID, winnerID, now, []Event{event})
}

func (s *CompetitionService) joinable(ctx context.Context, competitionID string) (*Competition, error) {
	competition, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	switch competition.Status(s.now()) {
	case CompetitionFinalized:
		return nil, ErrCompetitionFinalized
	case CompetitionEnded:
		return nil, ErrCompetitionEnded
	}
	return competition, nil
}

func (s *CompetitionService) profile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

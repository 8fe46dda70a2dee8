package api

import (
	"net/http"
	"strings"
	"time"

	"example.com/habitkick/internal/domain"
)

func (h *Handler) createCompetition(w http.ResponseWriter, r *http.Request) {
	userID, ok := competitionScope(w, r)
	if !ok {
		return
	}
	var req CreateCompetitionRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	competition, err := h.svc.Competitions.CreateCompetition(r.Context(), domain.CreateCompetitionInput{
		CreatorID:   userID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompetitionView(*competition, time.Now()))
}

func (h *Handler) listCompetitions(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	competitions, err := h.svc.Competitions.ListCompetitions(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	now := time.Now()
	items := make([]CompetitionView, 0, len(competitions))
	for _, c := range competitions {
		items = append(items, toCompetitionView(c, now))
	}
	writeJSON(w, http.StatusOK, ItemsResponse[CompetitionView]{Items: items})
}

func (h *Handler) getCompetition(w http.ResponseWriter, r *http.Request) {
	if _, ok := readScope(w, r); !ok {
		return
	}
	competition, err := h.svc.Competitions.GetCompetition(r.Context(), pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompetitionView(*competition, time.Now()))
}

func (h *Handler) deleteCompetition(w http.ResponseWriter, r *http.Request) {
	userID, ok := competitionScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Competitions.DeleteCompetition(r.Context(), userID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) joinCompetition(w http.ResponseWriter, r *http.Request) {
	userID, ok := competitionScope(w, r)
	if !ok {
		return
	}
	competition, err := h.svc.Competitions.JoinCompetition(r.Context(), userID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCompetitionView(*competition, time.Now()))
}

func (h *Handler) leaveCompetition(w http.ResponseWriter, r *http.Request) {
	userID, ok := competitionScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Competitions.LeaveCompetition(r.Context(), userID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invitePlayer(w http.ResponseWriter, r *http.Request) {
	userID, ok := competitionScope(w, r)
	if !ok {
		return
	}
	var req InviteRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "username is required")
		return
	}
	player, err := h.svc.Competitions.InvitePlayer(r.Context(), userID, pathID(r), req.Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, PlayerView{UserID: player.UserID, Username: player.Username, JoinedAt: player.JoinedAt})
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	lb, err := h.svc.Competitions.Leaderboard(r.Context(), userID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaderboardView(*lb))
}

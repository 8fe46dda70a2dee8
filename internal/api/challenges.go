package api

import (
	"net/http"

	"example.com/habitkick/internal/domain"
)

func (h *Handler) createChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req CreateChallengeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	challenge, err := h.svc.Challenges.CreateChallenge(r.Context(), domain.CreateChallengeInput{
		CreatorID:    userID,
		Title:        req.Title,
		Description:  req.Description,
		Metric:       domain.ChallengeMetric(req.Metric),
		DailyTarget:  req.DailyTarget,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChallengeView(*challenge))
}

func (h *Handler) listChallenges(w http.ResponseWriter, r *http.Request) {
	if _, ok := readScope(w, r); !ok {
		return
	}
	challenges, err := h.svc.Challenges.ListChallenges(r.Context(), queryLimit(r, 0))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]ChallengeView, 0, len(challenges))
	for _, c := range challenges {
		items = append(items, toChallengeView(c))
	}
	writeJSON(w, http.StatusOK, ItemsResponse[ChallengeView]{Items: items})
}

func (h *Handler) joinChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req JoinChallengeRequest
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}
	startedOn, err := parseTime(req.StartedOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "started_on must be YYYY-MM-DD")
		return
	}
	participant, err := h.svc.Challenges.JoinChallenge(r.Context(), userID, pathID(r), startedOn)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ParticipationView{
		ChallengeID: participant.ChallengeID,
		StartedOn:   participant.StartedOn.Format("2006-01-02"),
	})
}

func (h *Handler) recordProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req ProgressRequest
	if !decode(w, r, &req) {
		return
	}
	day, err := parseTime(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "day must be YYYY-MM-DD")
		return
	}
	progress, err := h.svc.Challenges.RecordProgress(r.Context(), userID, pathID(r), day, req.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgressView(*progress))
}

func (h *Handler) challengeSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	summary, err := h.svc.Challenges.ChallengeSummary(r.Context(), userID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view := ChallengeSummaryView{
		Challenge:       toChallengeView(summary.Challenge),
		StartedOn:       summary.StartedOn.Format("2006-01-02"),
		DaysCompleted:   summary.DaysCompleted,
		CurrentStreak:   summary.CurrentStreak,
		LongestStreak:   summary.LongestStreak,
		PercentComplete: summary.PercentComplete,
		Days:            make([]ProgressView, 0, len(summary.Days)),
	}
	for _, d := range summary.Days {
		view.Days = append(view.Days, toProgressView(d))
	}
	writeJSON(w, http.StatusOK, view)
}

package api

import (
	"net/http"
	"time"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/persistence"
)

func (h *Handler) logWeight(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req LogWeightRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	input := domain.LogWeightInput{UserID: userID, WeightKg: req.WeightKg, Note: req.Note}
	if req.RecordedAt != nil {
		input.RecordedAt = *req.RecordedAt
	}
	entry, completed, err := h.svc.Weights.LogWeight(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, LogWeightResponse{Entry: toWeightView(*entry), CompletedGoals: toGoalViews(completed)})
}

func (h *Handler) listWeights(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	from, to, err := queryRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "from and to must be RFC 3339 or YYYY-MM-DD")
		return
	}
	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	entries, next, err := h.svc.Weights.GetWeightEntries(r.Context(), userID, domain.WeightFilter{
		From:   from,
		To:     to,
		Cursor: cursor,
		Limit:  queryLimit(r, 0),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := ListWeightsResponse{Items: make([]WeightView, 0, len(entries)), NextCursor: persistence.EncodeCursor(next)}
	for _, e := range entries {
		resp.Items = append(resp.Items, toWeightView(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteWeight(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Weights.DeleteWeightEntry(r.Context(), userID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) weightProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	from, to, err := queryRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "from and to must be RFC 3339 or YYYY-MM-DD")
		return
	}
	p, err := h.svc.Weights.WeightProgress(r.Context(), userID, from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WeightProgressView{
		Entries:        p.Entries,
		StartWeightKg:  p.StartWeightKg,
		LatestWeightKg: p.LatestWeightKg,
		ChangeKg:       p.ChangeKg,
		PercentChange:  p.PercentChange,
		StartAt:        p.StartAt,
		LatestAt:       p.LatestAt,
	})
}

func (h *Handler) addWater(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req AddWaterRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	var consumedAt time.Time
	if req.ConsumedAt != nil {
		consumedAt = *req.ConsumedAt
	}
	entry, err := h.svc.Water.AddWater(r.Context(), userID, req.AmountMl, consumedAt)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWaterView(*entry))
}

func (h *Handler) listWater(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	from, to, err := queryRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "from and to must be RFC 3339 or YYYY-MM-DD")
		return
	}
	entries, err := h.svc.Water.ListWater(r.Context(), userID, from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]WaterView, 0, len(entries))
	for _, e := range entries {
		items = append(items, toWaterView(e))
	}
	writeJSON(w, http.StatusOK, ItemsResponse[WaterView]{Items: items})
}

func (h *Handler) dailyWater(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	total, err := h.svc.Water.DailyTotal(r.Context(), userID, q.Get("day"), q.Get("tz"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DailyWaterView{Day: total.Day, TimeZone: total.Location, TotalMl: total.TotalMl})
}

func (h *Handler) deleteWater(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Water.DeleteWater(r.Context(), userID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req CreateGoalRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	goal, err := h.svc.Goals.CreateGoal(r.Context(), domain.CreateGoalInput{
		UserID:      userID,
		Type:        domain.GoalType(req.GoalType),
		TargetValue: req.TargetValue,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalView(*goal))
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	goals, err := h.svc.Goals.ListGoals(r.Context(), userID, domain.GoalStatus(r.URL.Query().Get("status")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[GoalView]{Items: toGoalViews(goals)})
}

func (h *Handler) updateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if !decode(w, r, &req) {
		return
	}
	goal, err := h.svc.Goals.UpdateGoal(r.Context(), userID, pathID(r), req.input())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(*goal))
}

func (h *Handler) deleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Goals.DeleteGoal(r.Context(), userID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) goalProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Goals.GoalProgress(r.Context(), userID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GoalProgressView{
		Goal:         toGoalView(p.Goal),
		CurrentValue: p.CurrentValue,
		Percent:      p.Percent,
		Remaining:    p.Remaining,
	})
}

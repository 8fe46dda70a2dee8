package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"example.com/habitkick/internal/domain"
)

func (h *Handler) searchRecipes(w http.ResponseWriter, r *http.Request) {
	if _, ok := readScope(w, r); !ok {
		return
	}
	hits, err := h.svc.Recipes.SearchRecipes(r.Context(), r.URL.Query().Get("query"), queryLimit(r, 0))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[domain.RecipeHit]{Items: hits})
}

func (h *Handler) saveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req SaveRecipeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	recipe, err := h.svc.Recipes.SaveRecipe(r.Context(), userID, domain.RecipeHit{
		ExternalID: req.ExternalID,
		Title:      req.Title,
		ImageURL:   req.ImageURL,
		SourceURL:  req.SourceURL,
		Calories:   req.Calories,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecipeView(*recipe))
}

func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	recipes, err := h.svc.Recipes.ListSavedRecipes(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]RecipeView, 0, len(recipes))
	for _, rec := range recipes {
		items = append(items, toRecipeView(rec))
	}
	writeJSON(w, http.StatusOK, ItemsResponse[RecipeView]{Items: items})
}

func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Recipes.DeleteRecipe(r.Context(), userID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createList(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req ListRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	list, err := h.svc.Workouts.CreateList(r.Context(), userID, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, WorkoutListView{ID: list.ID, Name: list.Name, CreatedAt: list.CreatedAt})
}

func (h *Handler) listLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	lists, err := h.svc.Workouts.ListLists(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]WorkoutListView, 0, len(lists))
	for _, l := range lists {
		items = append(items, WorkoutListView{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt})
	}
	writeJSON(w, http.StatusOK, ItemsResponse[WorkoutListView]{Items: items})
}

func (h *Handler) renameList(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req ListRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	list, err := h.svc.Workouts.RenameList(r.Context(), userID, pathID(r), req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WorkoutListView{ID: list.ID, Name: list.Name, CreatedAt: list.CreatedAt})
}

func (h *Handler) deleteList(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Workouts.DeleteList(r.Context(), userID, pathID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req AddWorkoutRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	workout, err := h.svc.Workouts.AddWorkout(r.Context(), domain.AddWorkoutInput{
		UserID:   userID,
		ListID:   pathID(r),
		Exercise: req.Exercise,
		Sets:     req.Sets,
		Reps:     req.Reps,
		WeightKg: req.WeightKg,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkoutView(*workout))
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	workouts, err := h.svc.Workouts.ListWorkouts(r.Context(), userID, pathID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]WorkoutView, 0, len(workouts))
	for _, wo := range workouts {
		items = append(items, toWorkoutView(wo))
	}
	writeJSON(w, http.StatusOK, ItemsResponse[WorkoutView]{Items: items})
}

func (h *Handler) removeWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	if err := h.svc.Workouts.RemoveWorkout(r.Context(), userID, pathID(r), mux.Vars(r)["workoutID"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) searchExercises(w http.ResponseWriter, r *http.Request) {
	if _, ok := readScope(w, r); !ok {
		return
	}
	exercises, err := h.svc.Workouts.SearchExercises(r.Context(), r.URL.Query().Get("query"), queryLimit(r, 0))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[domain.Exercise]{Items: exercises})
}

func (h *Handler) coachChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	var req CoachChatRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	reply, err := h.svc.Coach.Chat(r.Context(), userID, req.Messages)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.ChatMessage{"message": reply})
}

package api

import (
	"net/http"

	"example.com/habitkick/internal/domain"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	session, err := h.svc.Accounts.SignUp(r.Context(), domain.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		FullName: req.FullName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(*session))
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	session, err := h.svc.Accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(*session))
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := readScope(w, r)
	if !ok {
		return
	}
	profile, err := h.svc.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(*profile))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := writeScope(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	profile, err := h.svc.Profiles.UpdateProfile(r.Context(), userID, req.patch())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(*profile))
}

func (h *Handler) searchProfiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := readScope(w, r); !ok {
		return
	}
	profiles, err := h.svc.Profiles.SearchProfiles(r.Context(), r.URL.Query().Get("query"), queryLimit(r, 20))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, toProfileView(p))
	}
	writeJSON(w, http.StatusOK, ItemsResponse[ProfileView]{Items: items})
}

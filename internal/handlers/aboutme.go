package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"vinicio/internal/models"
	"vinicio/internal/store"
)

// AboutMe groups the profile handlers. The profile is a singleton; every
// operation works on the one row seeded at startup.
type AboutMe struct {
	store *store.AboutMeStore
}

// NewAboutMe creates a new AboutMe handler group.
func NewAboutMe(aboutStore *store.AboutMeStore) *AboutMe {
	return &AboutMe{store: aboutStore}
}

// Get returns the profile with its ordered skills, interests, and socials.
func (h *AboutMe) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.Get()
	if err != nil {
		serverError(w, "load profile failed", err)
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "profile not configured")
		return
	}
	respondData(w, http.StatusOK, "profile retrieved", profile)
}

// Update patches the profile. Nil fields stay untouched; a non-nil list
// replaces the stored list wholesale.
func (h *AboutMe) Update(w http.ResponseWriter, r *http.Request) {
	var in models.AboutMeInput
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		respondInvalid(w, []fieldError{{Field: "name", Message: "name must not be empty"}})
		return
	}

	profile, err := h.store.Update(&in)
	if err != nil {
		serverError(w, "update profile failed", err)
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "profile not configured")
		return
	}
	respondData(w, http.StatusOK, "profile updated", profile)
}

// listItemPayload is the body for adding a skill or interest.
type listItemPayload struct {
	Skill    string `json:"skill"`
	Interest string `json:"interest"`
}

// AddSkill appends a skill at the end of the list.
func (h *AboutMe) AddSkill(w http.ResponseWriter, r *http.Request) {
	var payload listItemPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Skill) == "" {
		respondInvalid(w, []fieldError{{Field: "skill", Message: "skill is required"}})
		return
	}
	h.mutateList(w, func() (bool, error) { return h.store.AddSkill(payload.Skill) })
}

// RemoveSkill deletes a skill by value.
func (h *AboutMe) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	skill := chi.URLParam(r, "skill")
	h.mutateList(w, func() (bool, error) { return h.store.RemoveSkill(skill) })
}

// AddInterest appends an interest at the end of the list.
func (h *AboutMe) AddInterest(w http.ResponseWriter, r *http.Request) {
	var payload listItemPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if strings.TrimSpace(payload.Interest) == "" {
		respondInvalid(w, []fieldError{{Field: "interest", Message: "interest is required"}})
		return
	}
	h.mutateList(w, func() (bool, error) { return h.store.AddInterest(payload.Interest) })
}

// RemoveInterest deletes an interest by value.
func (h *AboutMe) RemoveInterest(w http.ResponseWriter, r *http.Request) {
	interest := chi.URLParam(r, "interest")
	h.mutateList(w, func() (bool, error) { return h.store.RemoveInterest(interest) })
}

// AddSocial appends a social link at the end of the list.
func (h *AboutMe) AddSocial(w http.ResponseWriter, r *http.Request) {
	var link models.SocialLink
	if !decodeBody(w, r, &link) {
		return
	}
	if details := validateSocial(&link); details != nil {
		respondInvalid(w, details)
		return
	}
	h.mutateList(w, func() (bool, error) { return h.store.AddSocial(link) })
}

// RemoveSocial deletes a social link by label.
func (h *AboutMe) RemoveSocial(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	h.mutateList(w, func() (bool, error) { return h.store.RemoveSocial(label) })
}

// mutateList runs one child-list mutation and responds with the updated
// profile. A false result means no matching entry (or no profile row).
func (h *AboutMe) mutateList(w http.ResponseWriter, mutate func() (bool, error)) {
	found, err := mutate()
	if err != nil {
		serverError(w, "update profile list failed", err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "entry not found")
		return
	}

	profile, err := h.store.Get()
	if err != nil || profile == nil {
		serverError(w, "reload profile failed", err)
		return
	}
	respondData(w, http.StatusOK, "profile updated", profile)
}

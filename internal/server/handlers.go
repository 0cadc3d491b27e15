package server

import (
	"net/http"

	"github.com/jonathan/content-studio/internal/types"
)

// profileRequest is the body of profile create and update.
type profileRequest struct {
	Name string             `json:"name"`
	Data types.TrainingData `json:"data"`
}

// saveResponse reports whether a save changed the profile.
type saveResponse[T any] struct {
	Saved bool `json:"saved"`
	Item  T    `json:"item"`
}

// catalog lists the fixed choices offered by the studio.
type catalog struct {
	HookCategories      []types.HookCategory          `json:"hookCategories"`
	MinHookQuantity     int                           `json:"minHookQuantity"`
	MaxHookQuantity     int                           `json:"maxHookQuantity"`
	DefaultHookQuantity int                           `json:"defaultHookQuantity"`
	PlatformDurations   map[types.VideoPlatform][]int `json:"platformDurations"`
	AdContentTypes      []types.AdContentType         `json:"adContentTypes"`
	TrainingSteps       []types.TrainingStep          `json:"trainingSteps"`
	AnswerKeys          []types.AnswerKey             `json:"answerKeys"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, catalog{
		HookCategories:      types.HookCategories,
		MinHookQuantity:     types.MinHookQuantity,
		MaxHookQuantity:     types.MaxHookQuantity,
		DefaultHookQuantity: types.DefaultHookQuantity,
		PlatformDurations:   types.PlatformDurations,
		AdContentTypes:      types.AdContentTypes,
		TrainingSteps:       types.TrainingSteps,
		AnswerKeys:          types.AnswerKeys,
	})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.profiles.Snapshot())
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.profiles.Create(r.Context(), req.Name, req.Data)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("id")
	if err := s.profiles.Update(r.Context(), id, req.Name, req.Data); err != nil {
		s.errorFor(w, err)
		return
	}
	p, err := s.profiles.Get(id)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.errorFor(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.SetActive(r.Context(), r.PathValue("id")); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.profiles.Snapshot())
}

// handleSaveHook answers 201 for a new hook and 200 when the text was already saved.
func (s *Server) handleSaveHook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.profiles.Active(); !ok {
		s.errorFor(w, ErrNoActiveProfile)
		return
	}
	hook, saved := s.profiles.SaveHook(r.Context(), req.Text)
	status := http.StatusOK
	if saved {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, saveResponse[types.SavedHook]{Saved: saved, Item: hook})
}

func (s *Server) handleDeleteHook(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.DeleteHook(r.Context(), r.PathValue("id")); err != nil {
		s.errorFor(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveScript(w http.ResponseWriter, r *http.Request) {
	var entry types.ScriptEntry
	if err := s.decodeBody(w, r, &entry); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, ok, err := s.profiles.SaveScript(r.Context(), entry)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	if !ok {
		s.errorFor(w, ErrNoActiveProfile)
		return
	}
	s.jsonResponse(w, http.StatusCreated, saveResponse[types.SavedScript]{Saved: true, Item: saved})
}

func (s *Server) handleDeleteScript(w http.ResponseWriter, r *http.Request) {
	if err := s.profiles.DeleteScript(r.Context(), r.PathValue("id")); err != nil {
		s.errorFor(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"codesync/internal/store"
	"codesync/pkg/auth"
)

// VideoProvisioner returns a joinable video room URL for a session.
type VideoProvisioner interface {
	CreateRoom(ctx context.Context, name string) (string, error)
}

type SessionsAPI struct {
	DB    SessionStore
	Video VideoProvisioner
}

type createSessionReq struct {
	Title         string  `json:"title" validate:"required"`
	ProblemID     *string `json:"problemId"`
	TimerDuration int     `json:"timerDuration" validate:"omitempty,gt=0"`
}

type patchSessionReq struct {
	Title         *string `json:"title"`
	CandidateID   *string `json:"candidateId"`
	ProblemID     *string `json:"problemId"`
	Status        *string `json:"status" validate:"omitempty,oneof=SCHEDULED ACTIVE COMPLETED CANCELLED"`
	TimerDuration *int    `json:"timerDuration" validate:"omitempty,gt=0"`
}

// Create provisions a video room and inserts the session for the
// authenticated interviewer.
func (a *SessionsAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.TimerDuration == 0 {
		req.TimerDuration = 45
	}

	roomURL, err := a.Video.CreateRoom(r.Context(), uuid.NewString())
	if err != nil {
		http.Error(w, "video room unavailable", http.StatusBadGateway)
		return
	}

	s, err := a.DB.CreateSession(r.Context(), req.Title, auth.UserID(r.Context()), req.ProblemID, req.TimerDuration, roomURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, s)
}

// List returns the sessions the authenticated user takes part in.
func (a *SessionsAPI) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := a.DB.ListSessionsForUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, sessions)
}

// Get fetches one session with its related records.
func (a *SessionsAPI) Get(w http.ResponseWriter, r *http.Request) {
	s, err := a.DB.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s)
}

// Patch applies a partial update: assign a candidate, swap the problem, or
// mark the session completed (the client does this before emitting
// end-session on the relay).
func (a *SessionsAPI) Patch(w http.ResponseWriter, r *http.Request) {
	var req patchSessionReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	s, err := a.DB.UpdateSession(r.Context(), r.PathValue("id"), store.SessionPatch{
		Title:         req.Title,
		CandidateID:   req.CandidateID,
		ProblemID:     req.ProblemID,
		Status:        req.Status,
		TimerDuration: req.TimerDuration,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, s)
}

// Delete removes a session.
func (a *SessionsAPI) Delete(w http.ResponseWriter, r *http.Request) {
	if err := a.DB.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "session deleted"})
}

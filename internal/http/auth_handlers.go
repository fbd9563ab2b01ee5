package httpx

import (
	"errors"
	"net/http"
	"time"

	"codesync/internal/store"
	"codesync/pkg/auth"
)

type AuthAPI struct {
	DB  UserStore
	JWT *auth.JWT
}

type syncReq struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Role  string `json:"role" validate:"omitempty,oneof=INTERVIEWER CANDIDATE"`
}

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type roleReq struct {
	Role string `json:"role" validate:"required,oneof=INTERVIEWER CANDIDATE"`
}

type tokenResp struct {
	Token string     `json:"token"`
	User  store.User `json:"user"`
}

// Sync upserts a user after identity-provider login and returns a bearer
// token for the API and relay.
func (a *AuthAPI) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	u, err := a.DB.SyncUser(r.Context(), req.ID, req.Email, req.Name, req.Role)
	if err != nil {
		http.Error(w, "sync failed", http.StatusInternalServerError)
		return
	}

	tok, _ := a.JWT.Sign(u.ID, 24*time.Hour)
	writeJSON(w, tokenResp{Token: tok, User: u})
}

// Register handles local-account signup and returns a JWT
func (a *AuthAPI) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid email or weak password", http.StatusBadRequest)
		return
	}

	u, err := a.DB.CreateLocalUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "email already in use", http.StatusConflict)
		return
	}

	tok, _ := a.JWT.Sign(u.ID, 24*time.Hour)
	writeJSON(w, tokenResp{Token: tok, User: u})
}

// Login verifies credentials and returns a JWT
func (a *AuthAPI) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	u, err := a.DB.VerifyLocalUser(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	tok, _ := a.JWT.Sign(u.ID, 24*time.Hour)
	writeJSON(w, tokenResp{Token: tok, User: u})
}

// Me returns the authenticated user's record
func (a *AuthAPI) Me(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := a.DB.GetUser(r.Context(), uid)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, u)
}

// GetUser returns any user by ID.
func (a *AuthAPI) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.DB.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, u)
}

// UpdateRole switches a user's role.
func (a *AuthAPI) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req roleReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	u, err := a.DB.UpdateUserRole(r.Context(), r.PathValue("id"), req.Role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, u)
}

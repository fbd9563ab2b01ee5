package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"codesync/internal/store"
)

// Store interfaces the handlers depend on; *store.Postgres satisfies all
// of them.

type UserStore interface {
	SyncUser(ctx context.Context, id, email, name, role string) (store.User, error)
	GetUser(ctx context.Context, id string) (store.User, error)
	UpdateUserRole(ctx context.Context, id, role string) (store.User, error)
	CreateLocalUser(ctx context.Context, email, password string) (store.User, error)
	VerifyLocalUser(ctx context.Context, email, password string) (store.User, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, title, interviewerID string, problemID *string, timerDuration int, roomURL string) (store.SessionDetail, error)
	GetSession(ctx context.Context, id string) (store.SessionDetail, error)
	ListSessionsForUser(ctx context.Context, userID string) ([]store.SessionDetail, error)
	UpdateSession(ctx context.Context, id string, patch store.SessionPatch) (store.SessionDetail, error)
	DeleteSession(ctx context.Context, id string) error
}

type ProblemStore interface {
	ListProblems(ctx context.Context) ([]store.Problem, error)
	GetProblem(ctx context.Context, id string) (store.Problem, error)
	CreateProblem(ctx context.Context, title, description, difficulty string, starterCode *string) (store.Problem, error)
	SeedProblems(ctx context.Context) ([]store.Problem, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeValid decodes a JSON request body and runs struct validation.
func decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// writeJSON sends JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

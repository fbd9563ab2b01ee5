package httpx

import (
	"errors"
	"net/http"

	"codesync/internal/store"
)

type ProblemsAPI struct {
	DB ProblemStore
}

type createProblemReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Difficulty  string  `json:"difficulty" validate:"required,oneof=EASY MEDIUM HARD"`
	StarterCode *string `json:"starterCode"`
}

// List returns all problems.
func (a *ProblemsAPI) List(w http.ResponseWriter, r *http.Request) {
	problems, err := a.DB.ListProblems(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, problems)
}

// Get fetches one problem.
func (a *ProblemsAPI) Get(w http.ResponseWriter, r *http.Request) {
	p, err := a.DB.GetProblem(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "problem not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, p)
}

// Create inserts a problem (admin / seeding).
func (a *ProblemsAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createProblemReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	p, err := a.DB.CreateProblem(r.Context(), req.Title, req.Description, req.Difficulty, req.StarterCode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, p)
}

// Seed loads the demo problem set.
func (a *ProblemsAPI) Seed(w http.ResponseWriter, r *http.Request) {
	problems, err := a.DB.SeedProblems(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"message":  "problems seeded",
		"count":    len(problems),
		"problems": problems,
	})
}

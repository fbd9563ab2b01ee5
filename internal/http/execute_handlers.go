package httpx

import (
	"net/http"

	"codesync/internal/execrun"
)

type ExecuteAPI struct {
	Runner execrun.Runner
}

type executeReq struct {
	Language string `json:"language" validate:"required"`
	Source   string `json:"source" validate:"required"`
	Stdin    string `json:"stdin"`
}

// Run proxies candidate code to the execution API and returns its output.
func (a *ExecuteAPI) Run(w http.ResponseWriter, r *http.Request) {
	var req executeReq
	if err := decodeValid(r, &req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	res, err := a.Runner.Run(r.Context(), execrun.Request{
		Language: req.Language,
		Source:   req.Source,
		Stdin:    req.Stdin,
	})
	if err != nil {
		http.Error(w, "execution failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, res)
}

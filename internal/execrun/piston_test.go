package execrun

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMapsPistonResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/piston/execute", r.URL.Path)

		var req pistonReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "python", req.Language)
		assert.Equal(t, "*", req.Version)
		require.Len(t, req.Files, 1)
		assert.Equal(t, "print('hi')", req.Files[0].Content)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"run": map[string]any{"stdout": "hi\n", "stderr": "", "code": 0},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Run(context.Background(), Request{Language: "python", Source: "print('hi')"})
	require.NoError(t, err)
	assert.Equal(t, "hi\n", res.Stdout)
	assert.Empty(t, res.Stderr)
	assert.Zero(t, res.ExitCode)
}

func TestRunSurfacesAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "runtime unknown"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Run(context.Background(), Request{Language: "cobol", Source: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime unknown")
}

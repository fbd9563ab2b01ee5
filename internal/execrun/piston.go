// Package execrun runs candidate code through a piston-compatible public
// execution API. Thin wrapper: {language, source, stdin} in, {stdout,
// stderr} out.
package execrun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Request struct {
	Language string `json:"language"`
	Source   string `json:"source"`
	Stdin    string `json:"stdin"`
}

type Result struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

// Runner is satisfied by Client; handlers accept it so tests can stub
// execution out.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient points at a piston host, e.g. https://emkc.org.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonReq struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin,omitempty"`
}

type pistonResp struct {
	Run struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
		Code   int    `json:"code"`
	} `json:"run"`
	Message string `json:"message"`
}

// Run executes the source and returns its output. API-level failures (bad
// language, rate limit) come back as errors, not partial results.
func (c *Client) Run(ctx context.Context, req Request) (Result, error) {
	body, _ := json.Marshal(pistonReq{
		Language: req.Language,
		Version:  "*",
		Files:    []pistonFile{{Content: req.Source}},
		Stdin:    req.Stdin,
	})

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/piston/execute", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	hreq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(hreq)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var out pistonResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("piston: decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("piston: %s (status %d)", out.Message, resp.StatusCode)
	}

	return Result{Stdout: out.Run.Stdout, Stderr: out.Run.Stderr, ExitCode: out.Run.Code}, nil
}

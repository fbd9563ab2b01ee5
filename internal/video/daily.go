// Package video provisions joinable video rooms for interview sessions via
// a Daily-compatible API. It is a thin wrapper: the only contract is "give
// me a room URL for this session".
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Provisioner struct {
	apiKey    string
	subdomain string
	baseURL   string
	hc        *http.Client
}

// New builds a provisioner. With an empty apiKey, CreateRoom returns a
// deterministic URL under the subdomain without calling the API, which is
// enough for rooms that already exist or auto-create on the Daily side.
func New(apiKey, subdomain string) *Provisioner {
	return &Provisioner{
		apiKey:    apiKey,
		subdomain: subdomain,
		baseURL:   "https://api.daily.co/v1",
		hc:        &http.Client{Timeout: 10 * time.Second},
	}
}

type createRoomReq struct {
	Name string `json:"name"`
}

type createRoomResp struct {
	URL string `json:"url"`
}

// CreateRoom returns a joinable video room URL for the named session.
func (p *Provisioner) CreateRoom(ctx context.Context, name string) (string, error) {
	if p.apiKey == "" {
		return fmt.Sprintf("https://%s.daily.co/%s", p.subdomain, name), nil
	}

	body, _ := json.Marshal(createRoomReq{Name: name})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("daily: unexpected status %d", resp.StatusCode)
	}

	var out createRoomResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("daily: decode: %w", err)
	}
	return out.URL, nil
}

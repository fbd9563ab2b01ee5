package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codesync/internal/execrun"
	"codesync/internal/store"
	"codesync/pkg/auth"
)

type fakeUserStore struct {
	users map[string]store.User
}

func (f *fakeUserStore) SyncUser(_ context.Context, id, email, name, role string) (store.User, error) {
	u := store.User{ID: id, Email: email, Name: name, Role: role}
	if f.users == nil {
		f.users = map[string]store.User{}
	}
	f.users[id] = u
	return u, nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id string) (store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdateUserRole(_ context.Context, id, role string) (store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	u.Role = role
	f.users[id] = u
	return u, nil
}

func (f *fakeUserStore) CreateLocalUser(_ context.Context, email, _ string) (store.User, error) {
	return store.User{ID: "local-1", Email: email, Role: store.RoleInterviewer}, nil
}

func (f *fakeUserStore) VerifyLocalUser(_ context.Context, _, _ string) (store.User, error) {
	return store.User{}, errors.New("invalid credentials")
}

type fakeSessionStore struct {
	created  *store.SessionDetail
	sessions map[string]store.SessionDetail
}

func (f *fakeSessionStore) CreateSession(_ context.Context, title, interviewerID string, problemID *string, timerDuration int, roomURL string) (store.SessionDetail, error) {
	d := store.SessionDetail{Session: store.Session{
		ID: "sess-1", Title: title, InterviewerID: interviewerID,
		ProblemID: problemID, Status: store.StatusScheduled,
		TimerDuration: timerDuration, DailyRoomURL: roomURL,
	}}
	f.created = &d
	return d, nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, id string) (store.SessionDetail, error) {
	d, ok := f.sessions[id]
	if !ok {
		return store.SessionDetail{}, store.ErrNotFound
	}
	return d, nil
}

func (f *fakeSessionStore) ListSessionsForUser(_ context.Context, _ string) ([]store.SessionDetail, error) {
	out := []store.SessionDetail{}
	for _, d := range f.sessions {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeSessionStore) UpdateSession(_ context.Context, id string, patch store.SessionPatch) (store.SessionDetail, error) {
	d, ok := f.sessions[id]
	if !ok {
		return store.SessionDetail{}, store.ErrNotFound
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.CandidateID != nil {
		d.CandidateID = patch.CandidateID
	}
	f.sessions[id] = d
	return d, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

type fakeVideo struct{ fail bool }

func (f *fakeVideo) CreateRoom(_ context.Context, name string) (string, error) {
	if f.fail {
		return "", errors.New("api down")
	}
	return "https://codesync.daily.co/" + name, nil
}

type fakeRunner struct {
	res execrun.Result
	err error
}

func (f *fakeRunner) Run(_ context.Context, _ execrun.Request) (execrun.Result, error) {
	return f.res, f.err
}

func authed(r *http.Request, uid string) *http.Request {
	return r.WithContext(auth.WithUser(r.Context(), uid))
}

func TestAuthSync(t *testing.T) {
	api := &AuthAPI{DB: &fakeUserStore{}, JWT: auth.New("test")}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/sync",
		strings.NewReader(`{"id":"fb-1","email":"ann@example.com","name":"Ann"}`))
	rec := httptest.NewRecorder()
	api.Sync(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tokenResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "fb-1", resp.User.ID)
}

func TestAuthSyncRejectsBadPayload(t *testing.T) {
	api := &AuthAPI{DB: &fakeUserStore{}, JWT: auth.New("test")}

	for name, body := range map[string]string{
		"no id":     `{"email":"a@b.c"}`,
		"bad email": `{"id":"x","email":"nope"}`,
		"bad role":  `{"id":"x","email":"a@b.c","role":"ADMIN"}`,
		"not json":  `{`,
	} {
		rec := httptest.NewRecorder()
		api.Sync(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	api := &AuthAPI{DB: &fakeUserStore{}, JWT: auth.New("test")}

	rec := httptest.NewRecorder()
	api.Login(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"email":"ann@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionCreate(t *testing.T) {
	db := &fakeSessionStore{}
	api := &SessionsAPI{DB: db, Video: &fakeVideo{}}

	req := authed(httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"title":"Backend screen","timerDuration":60}`)), "int-1")
	rec := httptest.NewRecorder()
	api.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, db.created)
	assert.Equal(t, "int-1", db.created.InterviewerID)
	assert.Equal(t, 60, db.created.TimerDuration)
	assert.True(t, strings.HasPrefix(db.created.DailyRoomURL, "https://codesync.daily.co/"))
}

func TestSessionCreateDefaultsTimer(t *testing.T) {
	db := &fakeSessionStore{}
	api := &SessionsAPI{DB: db, Video: &fakeVideo{}}

	req := authed(httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"title":"Quick chat"}`)), "int-1")
	api.Create(httptest.NewRecorder(), req)

	require.NotNil(t, db.created)
	assert.Equal(t, 45, db.created.TimerDuration)
}

func TestSessionCreateRequiresTitle(t *testing.T) {
	api := &SessionsAPI{DB: &fakeSessionStore{}, Video: &fakeVideo{}}

	rec := httptest.NewRecorder()
	api.Create(rec, authed(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)), "int-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionCreateVideoFailure(t *testing.T) {
	api := &SessionsAPI{DB: &fakeSessionStore{}, Video: &fakeVideo{fail: true}}

	rec := httptest.NewRecorder()
	api.Create(rec, authed(httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"title":"x"}`)), "int-1"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSessionGetNotFound(t *testing.T) {
	api := &SessionsAPI{DB: &fakeSessionStore{sessions: map[string]store.SessionDetail{}}, Video: &fakeVideo{}}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	api.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionPatchStatus(t *testing.T) {
	db := &fakeSessionStore{sessions: map[string]store.SessionDetail{
		"sess-1": {Session: store.Session{ID: "sess-1", Status: store.StatusActive}},
	}}
	api := &SessionsAPI{DB: db, Video: &fakeVideo{}}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"COMPLETED"}`))
	req.SetPathValue("id", "sess-1")
	rec := httptest.NewRecorder()
	api.Patch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.StatusCompleted, db.sessions["sess-1"].Status)
}

func TestSessionPatchRejectsUnknownStatus(t *testing.T) {
	api := &SessionsAPI{DB: &fakeSessionStore{}, Video: &fakeVideo{}}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"DONE"}`))
	req.SetPathValue("id", "sess-1")
	rec := httptest.NewRecorder()
	api.Patch(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteRun(t *testing.T) {
	api := &ExecuteAPI{Runner: &fakeRunner{res: execrun.Result{Stdout: "42\n"}}}

	rec := httptest.NewRecorder()
	api.Run(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"language":"go","source":"package main"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var res execrun.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "42\n", res.Stdout)
}

func TestExecuteRunUpstreamFailure(t *testing.T) {
	api := &ExecuteAPI{Runner: &fakeRunner{err: errors.New("down")}}

	rec := httptest.NewRecorder()
	api.Run(rec, httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"language":"go","source":"x"}`)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionDetailCols = `
	s.id, s.title, s.interviewer_id, s.candidate_id, s.problem_id,
	s.status, s.timer_duration, s.daily_room_url, s.created_at, s.updated_at,
	i.id, i.email, i.name, i.role, i.created_at,
	c.id, c.email, c.name, c.role, c.created_at,
	p.id, p.title, p.description, p.difficulty, p.starter_code, p.created_at`

const sessionDetailFrom = `
	FROM interview_sessions s
	JOIN users i ON i.id = s.interviewer_id
	LEFT JOIN users c ON c.id = s.candidate_id
	LEFT JOIN problems p ON p.id = s.problem_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionDetail(row rowScanner) (SessionDetail, error) {
	var d SessionDetail
	var i User
	var c struct {
		id, email, name, role *string
		createdAt             *time.Time
	}
	var pr struct {
		id, title, description, difficulty, starterCode *string
		createdAt                                       *time.Time
	}

	err := row.Scan(
		&d.ID, &d.Title, &d.InterviewerID, &d.CandidateID, &d.ProblemID,
		&d.Status, &d.TimerDuration, &d.DailyRoomURL, &d.CreatedAt, &d.UpdatedAt,
		&i.ID, &i.Email, &i.Name, &i.Role, &i.CreatedAt,
		&c.id, &c.email, &c.name, &c.role, &c.createdAt,
		&pr.id, &pr.title, &pr.description, &pr.difficulty, &pr.starterCode, &pr.createdAt,
	)
	if err != nil {
		return SessionDetail{}, err
	}

	d.Interviewer = &i
	if c.id != nil {
		d.Candidate = &User{ID: *c.id, Email: *c.email, Name: *c.name, Role: *c.role, CreatedAt: *c.createdAt}
	}
	if pr.id != nil {
		d.Problem = &Problem{
			ID: *pr.id, Title: *pr.title, Description: *pr.description,
			Difficulty: *pr.difficulty, StarterCode: pr.starterCode, CreatedAt: *pr.createdAt,
		}
	}
	return d, nil
}

// CreateSession inserts a new session owned by the interviewer, with the
// video room URL already provisioned by the caller.
func (p *Postgres) CreateSession(ctx context.Context, title, interviewerID string, problemID *string, timerDuration int, roomURL string) (SessionDetail, error) {
	if timerDuration <= 0 {
		timerDuration = 45
	}
	id := uuid.NewString()

	_, err := p.pool.Exec(ctx, `
		INSERT INTO interview_sessions (id, title, interviewer_id, problem_id, timer_duration, daily_room_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, title, interviewerID, problemID, timerDuration, roomURL)
	if err != nil {
		return SessionDetail{}, err
	}

	p.log.Info("session.created", "id", id, "interviewer", interviewerID)
	return p.GetSession(ctx, id)
}

// GetSession fetches a session with its related records joined in.
func (p *Postgres) GetSession(ctx context.Context, id string) (SessionDetail, error) {
	row := p.pool.QueryRow(ctx, `SELECT`+sessionDetailCols+sessionDetailFrom+` WHERE s.id = $1`, id)
	d, err := scanSessionDetail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionDetail{}, ErrNotFound
	}
	return d, err
}

// ListSessionsForUser returns the sessions a user takes part in, as
// interviewer or candidate, newest first.
func (p *Postgres) ListSessionsForUser(ctx context.Context, userID string) ([]SessionDetail, error) {
	rows, err := p.pool.Query(ctx, `SELECT`+sessionDetailCols+sessionDetailFrom+`
		WHERE s.interviewer_id = $1 OR s.candidate_id = $1
		ORDER BY s.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SessionDetail{}
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SessionPatch carries the updatable session fields; nil means unchanged.
type SessionPatch struct {
	Title         *string
	CandidateID   *string
	ProblemID     *string
	Status        *string
	TimerDuration *int
}

// UpdateSession applies a partial update and returns the fresh record.
func (p *Postgres) UpdateSession(ctx context.Context, id string, patch SessionPatch) (SessionDetail, error) {
	set := "updated_at = NOW()"
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.CandidateID != nil {
		add("candidate_id", *patch.CandidateID)
	}
	if patch.ProblemID != nil {
		add("problem_id", *patch.ProblemID)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.TimerDuration != nil {
		add("timer_duration", *patch.TimerDuration)
	}

	ct, err := p.pool.Exec(ctx, "UPDATE interview_sessions SET "+set+" WHERE id = $1", args...)
	if err != nil {
		return SessionDetail{}, err
	}
	if ct.RowsAffected() == 0 {
		return SessionDetail{}, ErrNotFound
	}
	return p.GetSession(ctx, id)
}

// DeleteSession removes a session.
func (p *Postgres) DeleteSession(ctx context.Context, id string) error {
	ct, err := p.pool.Exec(ctx, `DELETE FROM interview_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	p.log.Info("session.deleted", "id", id)
	return nil
}

package store

import "time"

// Role values for User.Role.
const (
	RoleInterviewer = "INTERVIEWER"
	RoleCandidate   = "CANDIDATE"
)

// Status values for Session.Status.
const (
	StatusScheduled = "SCHEDULED"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Problem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	StarterCode *string   `json:"starterCode"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Session struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	InterviewerID string    `json:"interviewerId"`
	CandidateID   *string   `json:"candidateId"`
	ProblemID     *string   `json:"problemId"`
	Status        string    `json:"status"`
	TimerDuration int       `json:"timerDuration"`
	DailyRoomURL  string    `json:"dailyRoomUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SessionDetail is a session with its related records joined in, the shape
// the session endpoints return.
type SessionDetail struct {
	Session
	Interviewer *User    `json:"interviewer"`
	Candidate   *User    `json:"candidate"`
	Problem     *Problem `json:"problem"`
}

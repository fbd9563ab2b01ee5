package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// normEmail trims and lowercases the email (needed if DB col isnt citext)
func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// SyncUser upserts a user record after external identity-provider login.
// The provider owns the ID; name falls back to the email's local part.
func (p *Postgres) SyncUser(ctx context.Context, id, email, name, role string) (User, error) {
	email = normEmail(email)
	if id == "" || email == "" {
		return User{}, errors.New("missing id or email")
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	if role == "" {
		role = RoleInterviewer
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name
		RETURNING id, email, name, role, created_at
	`, id, email, name, role)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUser fetches a user by ID.
func (p *Postgres) GetUser(ctx context.Context, id string) (User, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, email, name, role, created_at
		FROM users
		WHERE id = $1
	`, id)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// UpdateUserRole switches a user between interviewer and candidate.
func (p *Postgres) UpdateUserRole(ctx context.Context, id, role string) (User, error) {
	row := p.pool.QueryRow(ctx, `
		UPDATE users
		SET role = $2
		WHERE id = $1
		RETURNING id, email, name, role, created_at
	`, id, role)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// CreateLocalUser inserts a local account with a hashed password, for
// deployments not backed by an external identity provider.
func (p *Postgres) CreateLocalUser(ctx context.Context, email, password string) (User, error) {
	email = normEmail(email)
	if email == "" || password == "" {
		return User{}, errors.New("missing email or password")
	}
	name, _, _ := strings.Cut(email, "@")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, name, role, created_at
	`, uuid.NewString(), email, name, RoleInterviewer, string(hash))

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

// getUserByEmail returns the user + hashed password for login verification
func (p *Postgres) getUserByEmail(ctx context.Context, email string) (User, string, error) {
	email = normEmail(email)

	row := p.pool.QueryRow(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)

	var u User
	var hash *string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &hash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", ErrNotFound
		}
		return User{}, "", err
	}
	if hash == nil {
		// Provider-synced account, no local password.
		return u, "", nil
	}
	return u, *hash, nil
}

// VerifyLocalUser checks email + password match
func (p *Postgres) VerifyLocalUser(ctx context.Context, email, password string) (User, error) {
	u, hash, err := p.getUserByEmail(ctx, email)
	if err != nil || hash == "" {
		return User{}, errors.New("invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, errors.New("invalid credentials")
	}

	return u, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kifouliw-hash/MYMIR-sub000/config"
	"github.com/kifouliw-hash/MYMIR-sub000/model"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrEmailTaken indicates a registration attempt with an existing email.
var ErrEmailTaken = errors.New("email already registered")

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	company_name  TEXT,
	sector        TEXT,
	headcount     TEXT,
	revenue       TEXT,
	country       TEXT,
	created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title        TEXT NOT NULL,
	score        INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL,
	analysis     TEXT,
	model        TEXT,
	generated_at TIMESTAMP,
	error_msg    TEXT,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_user ON analyses(user_id, created_at);
`

// Store is the SQLite-backed persistence layer for users and analyses.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database and ensures the schema exists.
func NewStore(cfg *config.StoreConfig) (*Store, error) {
	db, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Users ---

// CreateUser inserts a new user. The email must be unused.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, company_name, sector, headcount, revenue, country, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Role,
		u.CompanyName, u.Sector, u.Headcount, u.Revenue, u.Country,
		u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user with the given email, or ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, company_name, sector, headcount, revenue, country, created_at
		 FROM users WHERE email = ?`, email))
}

// GetUserByID returns the user with the given ID, or ErrNotFound.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, company_name, sector, headcount, revenue, country, created_at
		 FROM users WHERE id = ?`, id))
}

// UpdateProfile replaces the company-profile columns of a user.
func (s *Store) UpdateProfile(ctx context.Context, userID string, p *model.CompanyProfile) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET company_name = ?, sector = ?, headcount = ?, revenue = ?, country = ? WHERE id = ?`,
		p.CompanyName, p.Sector, p.Headcount, p.Revenue, p.Country, userID)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns all users ordered by registration time.
func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, password_hash, role, company_name, sector, headcount, revenue, country, created_at
		 FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := s.scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanUser(row *sql.Row) (*model.User, error) {
	u, err := s.scanUserRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *Store) scanUserRow(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.CompanyName, &u.Sector, &u.Headcount, &u.Revenue, &u.Country,
		&u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Analyses ---

// SaveAnalysis inserts a new analysis record.
func (s *Store) SaveAnalysis(ctx context.Context, a *model.Analysis) error {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, user_id, title, score, status, analysis, model, generated_at, error_msg, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Title, a.Score, a.Status, a.Analysis, a.Model, a.GeneratedAt, a.ErrorMsg, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	return nil
}

// GetAnalysis returns one analysis by ID, or ErrNotFound.
func (s *Store) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	var a model.Analysis
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, score, status, analysis, model, generated_at, error_msg, created_at, updated_at
		 FROM analyses WHERE id = ?`, id).
		Scan(&a.ID, &a.UserID, &a.Title, &a.Score, &a.Status, &a.Analysis, &a.Model, &a.GeneratedAt, &a.ErrorMsg, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading analysis: %w", err)
	}
	return &a, nil
}

// ListAnalysesByUser returns a user's analyses, newest first, without the
// analysis body (list views don't need it).
func (s *Store) ListAnalysesByUser(ctx context.Context, userID string) ([]*model.Analysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, score, status, model, generated_at, error_msg, created_at, updated_at
		 FROM analyses WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*model.Analysis
	for rows.Next() {
		var a model.Analysis
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Score, &a.Status, &a.Model, &a.GeneratedAt, &a.ErrorMsg, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, &a)
	}
	return analyses, rows.Err()
}

// DeleteAnalysis removes an analysis owned by the given user.
func (s *Store) DeleteAnalysis(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

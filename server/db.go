package server

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite database at path and prepares its tables.
func OpenDB(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("server: open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases shared and writes ordered.
	db.SetMaxOpenConns(1)
	repo, err := NewRepository(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

type Repository struct {
	Db *sql.DB
}

func NewRepository(db *sql.DB) (*Repository, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			password TEXT
		);
		CREATE TABLE IF NOT EXISTS load_sequence (
			id TEXT PRIMARY KEY,
			destination TEXT NOT NULL,
			started INTEGER NOT NULL,
			finished INTEGER
		);
		CREATE TABLE IF NOT EXISTS load_event (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence TEXT NOT NULL REFERENCES load_sequence(id),
			status TEXT NOT NULL,
			phase TEXT NOT NULL,
			scene TEXT NOT NULL,
			origin TEXT,
			elapsed REAL NOT NULL,
			at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS load_event_sequence ON load_event(sequence);
	`)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	return &Repository{Db: db}, nil
}

func (repo *Repository) Close() error { return repo.Db.Close() }

type User struct {
	Id       int64
	Name     string
	Password sql.NullString
}

func (repo *Repository) AddUser(name string) (*User, error) {
	res, err := repo.Db.Exec("INSERT INTO user(name) values(?)", name)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	id, _ := res.LastInsertId()
	return &User{Id: id, Name: name}, nil
}

func (repo *Repository) SetPassword(user *User, password string) error {
	if err := repo.execWrap("UPDATE user SET password = ? WHERE id = ?", password, user.Id); err != nil {
		return err
	}
	user.Password = sql.NullString{String: password, Valid: true}
	return nil
}

// FindUserByName returns nil without error when there is no such user.
func (repo *Repository) FindUserByName(name string) (*User, error) {
	row := repo.Db.QueryRow("SELECT id, name, password FROM user WHERE name = ? LIMIT 1", name)
	var user User
	if err := row.Scan(&user.Id, &user.Name, &user.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	return &user, nil
}

// LoadSequence is one recorded scene load.
type LoadSequence struct {
	ID          string     `json:"id"`
	Destination string     `json:"destination"`
	Started     time.Time  `json:"started"`
	Finished    *time.Time `json:"finished,omitempty"`
	Events      int        `json:"events"`
}

// LoadEvent is one lifecycle notification of a recorded load.
type LoadEvent struct {
	Sequence string    `json:"sequence"`
	Status   string    `json:"status"`
	Phase    string    `json:"phase"`
	Scene    string    `json:"scene"`
	Origin   string    `json:"origin,omitempty"`
	Elapsed  float64   `json:"elapsed"`
	At       time.Time `json:"at"`
}

func (repo *Repository) BeginSequence(id, destination string, started time.Time) error {
	return repo.execWrap(
		"INSERT OR IGNORE INTO load_sequence(id, destination, started) values(?, ?, ?)",
		id, destination, started.UnixMilli(),
	)
}

func (repo *Repository) FinishSequence(id string, finished time.Time) error {
	return repo.execWrap("UPDATE load_sequence SET finished = ? WHERE id = ?", finished.UnixMilli(), id)
}

func (repo *Repository) RecordEvent(e *LoadEvent) error {
	return repo.execWrap(
		"INSERT INTO load_event(sequence, status, phase, scene, origin, elapsed, at) values(?, ?, ?, ?, ?, ?, ?)",
		e.Sequence, e.Status, e.Phase, e.Scene, e.Origin, e.Elapsed, e.At.UnixMilli(),
	)
}

// ListSequences returns the most recent sequences first.
func (repo *Repository) ListSequences(limit int) ([]LoadSequence, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := repo.Db.Query(`
		SELECT s.id, s.destination, s.started, s.finished, COUNT(e.id)
		FROM load_sequence s LEFT JOIN load_event e ON e.sequence = s.id
		GROUP BY s.id
		ORDER BY s.started DESC, s.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	defer rows.Close()
	seqs := []LoadSequence{}
	for rows.Next() {
		var s LoadSequence
		var started int64
		var finished sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Destination, &started, &finished, &s.Events); err != nil {
			return nil, fmt.Errorf("error in db execution: %w", err)
		}
		s.Started = time.UnixMilli(started).UTC()
		if finished.Valid {
			f := time.UnixMilli(finished.Int64).UTC()
			s.Finished = &f
		}
		seqs = append(seqs, s)
	}
	return seqs, rows.Err()
}

// SequenceEvents returns the events of a sequence in the order they fired.
func (repo *Repository) SequenceEvents(id string) ([]LoadEvent, error) {
	rows, err := repo.Db.Query(`
		SELECT sequence, status, phase, scene, COALESCE(origin, ''), elapsed, at
		FROM load_event WHERE sequence = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("error in db execution: %w", err)
	}
	defer rows.Close()
	events := []LoadEvent{}
	for rows.Next() {
		var e LoadEvent
		var at int64
		if err := rows.Scan(&e.Sequence, &e.Status, &e.Phase, &e.Scene, &e.Origin, &e.Elapsed, &at); err != nil {
			return nil, fmt.Errorf("error in db execution: %w", err)
		}
		e.At = time.UnixMilli(at).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

func (repo *Repository) execWrap(query string, args ...any) error {
	if _, err := repo.Db.Exec(query, args...); err != nil {
		return fmt.Errorf("error in db execution: %w", err)
	}
	return nil
}

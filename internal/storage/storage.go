package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
)

var (
	ErrInvalidDate = errors.New("storage: date must be YYYY-MM-DD")
	ErrDuplicateID = errors.New("storage: id already recorded")
)

type Store struct {
	db  *sql.DB
	now func() time.Time
	loc *time.Location
}

type Option func(*Store)

// WithLocation sets the zone whose calendar days reviews and sessions are
// filed under. The default is time.Local, matching how readers pick today.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Review is a single card review event.
type Review struct {
	ID         string    `json:"id"`
	CardID     string    `json:"cardId"`
	Deck       string    `json:"deck,omitempty"`
	SessionID  string    `json:"sessionId,omitempty"`
	ReviewedAt time.Time `json:"reviewedAt"`
	DurationMs int64     `json:"durationMs"`
}

// Session is one study sitting. Its duration counts towards the day it started.
type Session struct {
	ID         string    `json:"id"`
	Deck       string    `json:"deck,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMs int64     `json:"durationMs"`
}

// New opens (and creates if needed) the database at path.
func New(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}

	s := &Store{db: db, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		card_id TEXT NOT NULL,
		deck TEXT NOT NULL DEFAULT '',
		session_id TEXT,
		reviewed_at DATETIME NOT NULL,
		date TEXT NOT NULL,
		duration_ms INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_date ON reviews(date);
	CREATE INDEX IF NOT EXISTS idx_reviews_deck ON reviews(deck, date);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		deck TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		date TEXT NOT NULL,
		duration_ms INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_deck ON sessions(deck, date);

	CREATE TABLE IF NOT EXISTS daily_activity (
		date TEXT PRIMARY KEY,
		cards_studied INTEGER DEFAULT 0,
		session_count INTEGER DEFAULT 0,
		total_duration INTEGER,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// RecordReview stores a review and bumps the card count of its day.
// Missing ID and ReviewedAt are filled in.
func (s *Store) RecordReview(r Review) (Review, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ReviewedAt.IsZero() {
		r.ReviewedAt = s.now()
	}
	date := s.DayOf(r.ReviewedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return r, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO reviews (id, card_id, deck, session_id, reviewed_at, date, duration_ms)
		 VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?)`,
		r.ID, r.CardID, r.Deck, r.SessionID, r.ReviewedAt, date, r.DurationMs,
	)
	if err != nil {
		return r, wrapInsertErr(err, r.ID)
	}

	_, err = tx.Exec(`
		INSERT INTO daily_activity (date, cards_studied) VALUES (?, 1)
		ON CONFLICT(date) DO UPDATE SET
			cards_studied = cards_studied + 1,
			updated_at = CURRENT_TIMESTAMP
	`, date)
	if err != nil {
		return r, err
	}

	return r, tx.Commit()
}

// RecordSession stores a session and adds it to its day's session count
// and total duration.
func (s *Store) RecordSession(sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = s.now()
	}
	if sess.DurationMs < 0 {
		sess.DurationMs = 0
	}
	date := s.DayOf(sess.StartedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return sess, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO sessions (id, deck, started_at, date, duration_ms) VALUES (?, ?, ?, ?, ?)",
		sess.ID, sess.Deck, sess.StartedAt, date, sess.DurationMs,
	)
	if err != nil {
		return sess, wrapInsertErr(err, sess.ID)
	}

	_, err = tx.Exec(`
		INSERT INTO daily_activity (date, session_count, total_duration) VALUES (?, 1, ?)
		ON CONFLICT(date) DO UPDATE SET
			session_count = session_count + 1,
			total_duration = COALESCE(total_duration, 0) + excluded.total_duration,
			updated_at = CURRENT_TIMESTAMP
	`, date, sess.DurationMs)
	if err != nil {
		return sess, err
	}

	return sess, tx.Commit()
}

// ImportRecords upserts whole-day summaries, replacing what is stored for
// those dates. Records with a malformed date abort the import.
func (s *Store) ImportRecords(records []heatmap.DailyActivityRecord) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_activity (date, cards_studied, session_count, total_duration) VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			cards_studied = excluded.cards_studied,
			session_count = excluded.session_count,
			total_duration = excluded.total_duration,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := time.Parse(heatmap.DateLayout, rec.Date); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDate, rec.Date)
		}
		var duration sql.NullInt64
		if rec.TotalDuration != nil {
			duration = sql.NullInt64{Int64: *rec.TotalDuration, Valid: true}
		}
		if _, err := stmt.Exec(rec.Date, max(rec.CardsStudied, 0), max(rec.SessionCount, 0), duration); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *Store) TodayActivity() (heatmap.DailyActivityRecord, error) {
	return s.DayActivity(s.DayOf(s.now()))
}

// DayOf returns the calendar day t falls on in the store's location,
// whatever offset t itself carries.
func (s *Store) DayOf(t time.Time) string {
	return t.In(s.loc).Format(heatmap.DateLayout)
}

// DayActivity returns the summary for one day, zero-valued if nothing was recorded.
func (s *Store) DayActivity(date string) (heatmap.DailyActivityRecord, error) {
	rec := heatmap.DailyActivityRecord{Date: date}
	if _, err := time.Parse(heatmap.DateLayout, date); err != nil {
		return rec, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	var duration sql.NullInt64
	err := s.db.QueryRow(
		"SELECT COALESCE(cards_studied, 0), COALESCE(session_count, 0), total_duration FROM daily_activity WHERE date = ?",
		date,
	).Scan(&rec.CardsStudied, &rec.SessionCount, &duration)

	if err == sql.ErrNoRows {
		return rec, nil
	}
	if err != nil {
		return rec, err
	}
	if duration.Valid {
		rec.TotalDuration = &duration.Int64
	}
	return rec, nil
}

// DailyActivity returns the stored days between from and to inclusive,
// oldest first. Days without activity are absent.
func (s *Store) DailyActivity(from, to time.Time) ([]heatmap.DailyActivityRecord, error) {
	rows, err := s.db.Query(
		`SELECT date, COALESCE(cards_studied, 0), COALESCE(session_count, 0), total_duration
		 FROM daily_activity
		 WHERE date >= ? AND date <= ?
		 ORDER BY date`,
		from.Format(heatmap.DateLayout), to.Format(heatmap.DateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// DeckDailyActivity rebuilds the per-day summary for one deck from the raw
// review and session logs.
func (s *Store) DeckDailyActivity(deck string, from, to time.Time) ([]heatmap.DailyActivityRecord, error) {
	rows, err := s.db.Query(`
		SELECT date, SUM(cards), SUM(sessions), SUM(duration) FROM (
			SELECT date, COUNT(*) AS cards, 0 AS sessions, NULL AS duration
			FROM reviews WHERE deck = ? AND date >= ? AND date <= ? GROUP BY date
			UNION ALL
			SELECT date, 0, COUNT(*), SUM(duration_ms)
			FROM sessions WHERE deck = ? AND date >= ? AND date <= ? GROUP BY date
		)
		GROUP BY date
		ORDER BY date`,
		deck, from.Format(heatmap.DateLayout), to.Format(heatmap.DateLayout),
		deck, from.Format(heatmap.DateLayout), to.Format(heatmap.DateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

// wrapInsertErr maps primary key collisions to ErrDuplicateID.
func wrapInsertErr(err error, id string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	return err
}

func scanRecords(rows *sql.Rows) ([]heatmap.DailyActivityRecord, error) {
	var records []heatmap.DailyActivityRecord
	for rows.Next() {
		var rec heatmap.DailyActivityRecord
		var duration sql.NullInt64
		if err := rows.Scan(&rec.Date, &rec.CardsStudied, &rec.SessionCount, &duration); err != nil {
			return nil, err
		}
		if duration.Valid {
			d := duration.Int64
			rec.TotalDuration = &d
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Window returns the records covering the heatmap window ending on today.
func (s *Store) Window(today time.Time, deck string) ([]heatmap.DailyActivityRecord, error) {
	from := today.AddDate(0, 0, -(heatmap.WindowDays - 1))
	if deck == "" {
		return s.DailyActivity(from, today)
	}
	return s.DeckDailyActivity(deck, from, today)
}

// Decks lists every deck name seen in reviews or sessions.
func (s *Store) Decks() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT deck FROM reviews WHERE deck != ''
		UNION
		SELECT deck FROM sessions WHERE deck != ''
		ORDER BY deck`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

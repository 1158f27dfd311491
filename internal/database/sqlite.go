package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"github.com/alexraskin/linkflow/internal/links"
	"github.com/alexraskin/linkflow/internal/models"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

type sqliteStore struct {
	db *sql.DB
}

// NewSQLite opens a local SQLite file (or ":memory:") with the pure-Go
// driver, or a remote Turso database for libsql:// and wss:// URLs.
func NewSQLite(ctx context.Context, dbURL string) (Database, error) {
	driverName := "sqlite"
	remote := strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://")
	if remote {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, strings.TrimPrefix(dbURL, "sqlite://"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if !remote {
		// One connection keeps ":memory:" a single database and avoids "database is locked".
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode=WAL", "PRAGMA foreign_keys = ON"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("applying %q: %w", pragma, err)
			}
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() {
	s.db.Close()
}

func (s *sqliteStore) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	p, _, err := s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+`, '' FROM profiles WHERE username = ?`, username))
	return p, err
}

func (s *sqliteStore) scanProfile(row *sql.Row) (*models.Profile, string, error) {
	var (
		p                            models.Profile
		style                        string
		bgFrom, bgTo, btnFrom, btnTo string
		script, hash                 string
		autoOpen                     bool
	)
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.Theme, &style, &p.AnimatedBackground,
		&bgFrom, &bgTo, &btnFrom, &btnTo, &script, &autoOpen, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	p.ButtonStyle = models.ParseButtonStyle(style)
	p.BackgroundGradient = gradientOf(bgFrom, bgTo)
	p.ButtonGradient = gradientOf(btnFrom, btnTo)
	p.Bot = botOf(script, autoOpen)
	return &p, hash, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanLink reads dates as untyped values: they are stored as text but
// older rows written by other tools may hold unix millis.
func scanLink(row rowScanner, ownerID *string) (models.Link, error) {
	var (
		l          models.Link
		start, end any
	)
	dest := []any{&l.ID, &l.Title, &l.URL, &l.Order, &l.Active, &start, &end, &l.Clicks, &l.IsSocial, &l.IsSupport}
	if ownerID != nil {
		dest = append([]any{ownerID}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return l, err
	}
	l.StartDate = links.ParseInstantPtr(start)
	l.EndDate = links.ParseInstantPtr(end)
	return l, nil
}

func (s *sqliteStore) GetLinksForProfile(ctx context.Context, profileID string) ([]models.Link, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, url, sort_order, active, start_date, end_date, clicks, is_social, is_support
		FROM links WHERE profile_id = ? ORDER BY sort_order, created_at`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Link
	for rows.Next() {
		l, err := scanLink(rows, nil)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *sqliteStore) GetLink(ctx context.Context, linkID string) (*models.Link, string, error) {
	var ownerID string
	l, err := scanLink(s.db.QueryRowContext(ctx, `SELECT profile_id, id, title, url, sort_order, active, start_date, end_date, clicks, is_social, is_support
		FROM links WHERE id = ?`, linkID), &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return &l, ownerID, nil
}

func (s *sqliteStore) IncrementClicks(ctx context.Context, userID, linkID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = ? AND profile_id = ?`, linkID, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) CreateProfile(ctx context.Context, p models.Profile, password string) error {
	if err := ValidateUsername(p.Username); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	bgFrom, bgTo := gradientCols(p.BackgroundGradient)
	btnFrom, btnTo := gradientCols(p.ButtonGradient)
	script, autoOpen := botCols(p.Bot)
	_, err = s.db.ExecContext(ctx, `INSERT INTO profiles (`+profileColumns+`, password_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idOrNew(p.ID), p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.Theme, string(p.ButtonStyle), p.AnimatedBackground,
		bgFrom, bgTo, btnFrom, btnTo, script, autoOpen, hash)
	return err
}

func (s *sqliteStore) UpdateAppearance(ctx context.Context, profileID string, a models.Appearance) error {
	bgFrom, bgTo := gradientCols(a.BackgroundGradient)
	btnFrom, btnTo := gradientCols(a.ButtonGradient)
	script, autoOpen := botCols(a.Bot)
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET display_name=?, bio=?, avatar_url=?, theme=?, button_style=?,
		animated_background=?, bg_from=?, bg_to=?, btn_from=?, btn_to=?, bot_script=?, bot_auto_open=? WHERE id=?`,
		a.DisplayName, a.Bio, a.AvatarURL, a.Theme, string(a.ButtonStyle), a.AnimatedBackground,
		bgFrom, bgTo, btnFrom, btnTo, script, autoOpen, profileID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *sqliteStore) AddLink(ctx context.Context, profileID string, l models.Link) error {
	order := l.Order
	if order <= 0 {
		if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM links WHERE profile_id = ?`, profileID).Scan(&order); err != nil {
			return err
		}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO links (id, profile_id, title, url, sort_order, active, start_date, end_date, is_social, is_support)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		idOrNew(l.ID), profileID, l.Title, l.URL, order, l.Active, instantText(l.StartDate), instantText(l.EndDate), l.IsSocial, l.IsSupport)
	return err
}

func instantText(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *sqliteStore) DeleteLink(ctx context.Context, profileID, linkID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM links WHERE id = ? AND profile_id = ?`, linkID, profileID)
	return err
}

func (s *sqliteStore) SetLinkActive(ctx context.Context, profileID, linkID string, active bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE links SET active = ? WHERE id = ? AND profile_id = ?`, active, linkID, profileID)
	return err
}

func (s *sqliteStore) VerifyPassword(ctx context.Context, username, password string) (*models.Profile, bool, error) {
	p, hash, err := s.scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+`, password_hash FROM profiles WHERE username = ?`, username))
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !checkPassword(hash, password) {
		return nil, false, nil
	}
	return p, true, nil
}

func (s *sqliteStore) SetPassword(ctx context.Context, profileID, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET password_hash = ? WHERE id = ?`, hash, profileID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

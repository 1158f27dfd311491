package database

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexraskin/linkflow/internal/models"
)

//go:embed schema_postgres.sql
var postgresSchema string

type postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute
	config.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &postgres{db: pool}, nil
}

func (d *postgres) Close() {
	d.db.Close()
}

func (d *postgres) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	p, _, err := d.scanProfile(d.db.QueryRow(ctx,
		`SELECT `+profileColumns+`, '' FROM profiles WHERE username = $1`, username))
	return p, err
}

func (d *postgres) scanProfile(row pgx.Row) (*models.Profile, string, error) {
	var (
		p                            models.Profile
		style                        string
		bgFrom, bgTo, btnFrom, btnTo string
		script, hash                 string
		autoOpen                     bool
	)
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.Theme, &style, &p.AnimatedBackground,
		&bgFrom, &bgTo, &btnFrom, &btnTo, &script, &autoOpen, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (d *postgres) GetLinksForProfile(ctx context.Context, profileID string) ([]models.Link, error) {
	rows, err := d.db.Query(ctx, `SELECT id, title, url, sort_order, active, start_date, end_date, clicks, is_social, is_support
		FROM links WHERE profile_id = $1 ORDER BY sort_order, created_at`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.Title, &l.URL, &l.Order, &l.Active, &l.StartDate, &l.EndDate, &l.Clicks, &l.IsSocial, &l.IsSupport); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func (d *postgres) GetLink(ctx context.Context, linkID string) (*models.Link, string, error) {
	var (
		l       models.Link
		ownerID string
	)
	err := d.db.QueryRow(ctx, `SELECT id, profile_id, title, url, sort_order, active, start_date, end_date, clicks, is_social, is_support
		FROM links WHERE id = $1`, linkID).
		Scan(&l.ID, &ownerID, &l.Title, &l.URL, &l.Order, &l.Active, &l.StartDate, &l.EndDate, &l.Clicks, &l.IsSocial, &l.IsSupport)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return &l, ownerID, nil
}

func (d *postgres) IncrementClicks(ctx context.Context, userID, linkID string) error {
	tag, err := d.db.Exec(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = $1 AND profile_id = $2`, linkID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *postgres) CreateProfile(ctx context.Context, p models.Profile, password string) error {
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
	_, err = d.db.Exec(ctx, `INSERT INTO profiles (`+profileColumns+`, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		idOrNew(p.ID), p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.Theme, string(p.ButtonStyle), p.AnimatedBackground,
		bgFrom, bgTo, btnFrom, btnTo, script, autoOpen, hash)
	return err
}

func (d *postgres) UpdateAppearance(ctx context.Context, profileID string, a models.Appearance) error {
	bgFrom, bgTo := gradientCols(a.BackgroundGradient)
	btnFrom, btnTo := gradientCols(a.ButtonGradient)
	script, autoOpen := botCols(a.Bot)
	tag, err := d.db.Exec(ctx, `UPDATE profiles SET display_name=$1, bio=$2, avatar_url=$3, theme=$4, button_style=$5,
		animated_background=$6, bg_from=$7, bg_to=$8, btn_from=$9, btn_to=$10, bot_script=$11, bot_auto_open=$12 WHERE id=$13`,
		a.DisplayName, a.Bio, a.AvatarURL, a.Theme, string(a.ButtonStyle), a.AnimatedBackground,
		bgFrom, bgTo, btnFrom, btnTo, script, autoOpen, profileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *postgres) AddLink(ctx context.Context, profileID string, l models.Link) error {
	_, err := d.db.Exec(ctx, `INSERT INTO links (id, profile_id, title, url, sort_order, active, start_date, end_date, is_social, is_support)
		VALUES ($1, $2, $3, $4,
			CASE WHEN $5 > 0 THEN $5 ELSE (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM links WHERE profile_id = $2) END,
			$6, $7, $8, $9, $10)`,
		idOrNew(l.ID), profileID, l.Title, l.URL, l.Order, l.Active, l.StartDate, l.EndDate, l.IsSocial, l.IsSupport)
	return err
}

func (d *postgres) DeleteLink(ctx context.Context, profileID, linkID string) error {
	_, err := d.db.Exec(ctx, `DELETE FROM links WHERE id = $1 AND profile_id = $2`, linkID, profileID)
	return err
}

func (d *postgres) SetLinkActive(ctx context.Context, profileID, linkID string, active bool) error {
	_, err := d.db.Exec(ctx, `UPDATE links SET active = $1 WHERE id = $2 AND profile_id = $3`, active, linkID, profileID)
	return err
}

func (d *postgres) VerifyPassword(ctx context.Context, username, password string) (*models.Profile, bool, error) {
	p, hash, err := d.scanProfile(d.db.QueryRow(ctx,
		`SELECT `+profileColumns+`, password_hash FROM profiles WHERE username = $1`, username))
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

func (d *postgres) SetPassword(ctx context.Context, profileID, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(ctx, `UPDATE profiles SET password_hash = $1 WHERE id = $2`, hash, profileID)
	return err
}

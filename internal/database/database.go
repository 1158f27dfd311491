package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexraskin/linkflow/internal/models"
)

var (
	ErrNotFound        = errors.New("database: not found")
	ErrInvalidUsername = errors.New("database: invalid username")
)

// reservedUsernames are first path segments the router serves itself, so a
// profile by that name would never be reachable at /<username>.
var reservedUsernames = map[string]bool{
	"admin":      true,
	"api":        true,
	"static":     true,
	"health":     true,
	"l":          true,
	"robots.txt": true,
}

// ValidateUsername rejects usernames that cannot be served at /<username>.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUsername)
	}
	if strings.ContainsAny(username, "/?# \t") {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidUsername, username)
	}
	if reservedUsernames[strings.ToLower(username)] {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidUsername, username)
	}
	return nil
}

// Reader is the read side the public page needs.
type Reader interface {
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	GetLinksForProfile(ctx context.Context, profileID string) ([]models.Link, error)
}

type Database interface {
	Reader
	Close()
	GetLink(ctx context.Context, linkID string) (*models.Link, string, error)
	IncrementClicks(ctx context.Context, userID, linkID string) error
	CreateProfile(ctx context.Context, p models.Profile, password string) error
	UpdateAppearance(ctx context.Context, profileID string, a models.Appearance) error
	AddLink(ctx context.Context, profileID string, l models.Link) error
	DeleteLink(ctx context.Context, profileID, linkID string) error
	SetLinkActive(ctx context.Context, profileID, linkID string, active bool) error
	VerifyPassword(ctx context.Context, username, password string) (*models.Profile, bool, error)
	SetPassword(ctx context.Context, profileID, password string) error
}

const profileColumns = `id, username, display_name, bio, avatar_url, theme, button_style, animated_background,
	bg_from, bg_to, btn_from, btn_to, bot_script, bot_auto_open`

// Open picks the store from the URL scheme: postgres:// and postgresql://
// go to pgx, everything else to the SQLite/libsql store.
func Open(ctx context.Context, dbURL string) (Database, error) {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return NewPostgres(ctx, dbURL)
	case dbURL == "":
		return nil, fmt.Errorf("database URL is empty")
	default:
		return NewSQLite(ctx, dbURL)
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func idOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func gradientOf(from, to string) *models.Gradient {
	if from == "" && to == "" {
		return nil
	}
	return &models.Gradient{From: from, To: to}
}

func gradientCols(g *models.Gradient) (string, string) {
	if g == nil {
		return "", ""
	}
	return g.From, g.To
}

func botOf(script string, autoOpen bool) *models.BotConfig {
	if script == "" && !autoOpen {
		return nil
	}
	return &models.BotConfig{Script: script, AutoOpen: autoOpen}
}

func botCols(b *models.BotConfig) (string, bool) {
	if b == nil {
		return "", false
	}
	return b.Script, b.AutoOpen
}

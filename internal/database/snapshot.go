package database

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alexraskin/linkflow/internal/cache"
	"github.com/alexraskin/linkflow/internal/models"
)

// loadTimeout bounds a shared load, which outlives any single caller.
const loadTimeout = 10 * time.Second

// Snapshots loads a profile and its links as one unit, read through a
// cache. Concurrent misses for the same username share one query.
type Snapshots struct {
	db    Reader
	cache cache.Backend
	group singleflight.Group
}

func NewSnapshots(db Reader, c cache.Backend) *Snapshots {
	return &Snapshots{db: db, cache: c}
}

func (s *Snapshots) Load(ctx context.Context, username string) (*models.Snapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.GetSnapshot(ctx, username); ok {
			return snap, nil
		}
	}

	v, err, _ := s.group.Do(username, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		profile, err := s.db.GetProfileByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		ls, err := s.db.GetLinksForProfile(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		snap := models.Snapshot{Profile: *profile, Links: ls}
		if s.cache != nil {
			s.cache.SetSnapshot(ctx, username, snap)
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	snap := v.(models.Snapshot)
	return &snap, nil
}

func (s *Snapshots) Invalidate(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, username)
	slog.Debug("Snapshot invalidated", "username", username)
}

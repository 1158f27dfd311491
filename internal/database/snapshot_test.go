package database

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexraskin/linkflow/internal/cache"
	"github.com/alexraskin/linkflow/internal/models"
)

type mockReader struct {
	profile    *models.Profile
	links      []models.Link
	profileErr error
	calls      atomic.Int32
	delay      time.Duration
}

func (m *mockReader) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	m.calls.Add(1)
	select {
	case <-time.After(m.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	p := *m.profile
	return &p, nil
}

func (m *mockReader) GetLinksForProfile(ctx context.Context, profileID string) ([]models.Link, error) {
	return m.links, nil
}

func TestSnapshotsReadThrough(t *testing.T) {
	ctx := context.Background()
	r := &mockReader{
		profile: &models.Profile{ID: "p1", Username: "jane"},
		links:   []models.Link{{ID: "a", Title: "A"}},
	}
	s := NewSnapshots(r, cache.NewCache(time.Hour))

	snap, err := s.Load(ctx, "jane")
	require.NoError(t, err)
	require.Equal(t, "p1", snap.Profile.ID)
	require.Len(t, snap.Links, 1)

	_, err = s.Load(ctx, "jane")
	require.NoError(t, err)
	require.EqualValues(t, 1, r.calls.Load())

	s.Invalidate(ctx, "jane")
	_, err = s.Load(ctx, "jane")
	require.NoError(t, err)
	require.EqualValues(t, 2, r.calls.Load())
}

func TestSnapshotsNotFound(t *testing.T) {
	r := &mockReader{profileErr: ErrNotFound}
	s := NewSnapshots(r, cache.NewCache(time.Hour))

	_, err := s.Load(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotsWithoutCache(t *testing.T) {
	r := &mockReader{profile: &models.Profile{ID: "p1"}}
	s := NewSnapshots(r, nil)

	for range 3 {
		_, err := s.Load(context.Background(), "jane")
		require.NoError(t, err)
	}
	require.EqualValues(t, 3, r.calls.Load())
	s.Invalidate(context.Background(), "jane")
}

func TestSnapshotsCoalesceConcurrentMisses(t *testing.T) {
	r := &mockReader{profile: &models.Profile{ID: "p1"}, delay: 50 * time.Millisecond}
	s := NewSnapshots(r, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Load(context.Background(), "jane")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Less(t, r.calls.Load(), int32(10))
}

func TestSnapshotsSharedLoadSurvivesCancelledCaller(t *testing.T) {
	r := &mockReader{profile: &models.Profile{ID: "p1"}, delay: 100 * time.Millisecond}
	s := NewSnapshots(r, nil)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Load(first, "jane")
		firstErr <- err
	}()

	// Let the first caller start the shared load, then join it and cancel.
	time.Sleep(20 * time.Millisecond)
	secondErr := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), "jane")
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	require.NoError(t, <-secondErr)
	require.NoError(t, <-firstErr)
	require.EqualValues(t, 1, r.calls.Load())
}

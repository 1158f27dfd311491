package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mu    sync.Mutex
	calls []string
	err   error
	block chan struct{}
}

func (m *mockStore) IncrementClicks(ctx context.Context, userID, linkID string) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, userID+"/"+linkID)
	return m.err
}

func TestAsyncTracksInBackground(t *testing.T) {
	store := &mockStore{block: make(chan struct{})}
	a := NewAsync(store, time.Second)

	done := make(chan struct{})
	go func() {
		a.TrackClick(context.Background(), "u1", "l1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TrackClick blocked the caller")
	}

	close(store.block)
	a.Wait()
	require.Equal(t, []string{"u1/l1"}, store.calls)
}

func TestAsyncSurvivesCancelledRequest(t *testing.T) {
	store := &mockStore{}
	a := NewAsync(store, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.TrackClick(ctx, "u1", "l1")
	a.Wait()

	require.Len(t, store.calls, 1)
}

func TestAsyncSwallowsFailures(t *testing.T) {
	store := &mockStore{err: errors.New("db down")}
	a := NewAsync(store, 0)

	a.TrackClick(context.Background(), "u1", "l1")
	a.TrackClick(context.Background(), "u1", "l1")
	a.Wait()

	require.Len(t, store.calls, 2)
}

func TestAsyncIgnoresIncompleteClicks(t *testing.T) {
	store := &mockStore{}
	a := NewAsync(store, time.Second)
	a.TrackClick(context.Background(), "", "l1")
	a.TrackClick(context.Background(), "u1", "")
	a.Wait()
	require.Empty(t, store.calls)
}

func TestSignerRoundTrip(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	token, err := s.Issue("profile-1")
	require.NoError(t, err)

	userID, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "profile-1", userID)
}

func TestSignerRejects(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	other := NewSigner("other", time.Hour)

	foreign, err := other.Issue("profile-1")
	require.NoError(t, err)
	_, err = s.Verify(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	token, err := s.Issue("profile-1")
	require.NoError(t, err)
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roniherschmann/clicklog/internal/store"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) InsertClick(ctx context.Context, ev store.ClickEvent) (int64, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) ListClicks(ctx context.Context) ([]store.ClickEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ClickEvent), args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestRecordClick_StampsUTC(t *testing.T) {
	local := time.Date(2024, 3, 1, 15, 30, 0, 0, time.FixedZone("MSK", 3*60*60))
	repo := new(mockStore)
	want := store.ClickEvent{IPAddress: "1.2.3.4", ClickTime: local.UTC()}
	repo.On("InsertClick", mock.Anything, want).Return(int64(7), nil)

	svc := NewService(repo, fixedClock(local))
	ev, err := svc.RecordClick(context.Background(), "1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, int64(7), ev.ID)
	assert.Equal(t, "1.2.3.4", ev.IPAddress)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), ev.ClickTime)
	repo.AssertExpectations(t)
}

func TestRecordClick_ReturnsStoreError(t *testing.T) {
	repo := new(mockStore)
	boom := errors.New("connection refused")
	repo.On("InsertClick", mock.Anything, mock.Anything).Return(int64(0), boom)

	svc := NewService(repo)
	ev, err := svc.RecordClick(context.Background(), "1.2.3.4")

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, ev.ID)
}

func TestClicks(t *testing.T) {
	now := time.Now().UTC()
	rows := []store.ClickEvent{
		{ID: 2, IPAddress: "b", ClickTime: now},
		{ID: 1, IPAddress: "a", ClickTime: now.Add(-time.Minute)},
	}
	repo := new(mockStore)
	repo.On("ListClicks", mock.Anything).Return(rows, nil)

	got, err := NewService(repo).Clicks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReady(t *testing.T) {
	repo := new(mockStore)
	repo.On("Ping", mock.Anything).Return(errors.New("down")).Once()
	repo.On("Ping", mock.Anything).Return(nil).Once()

	svc := NewService(repo)
	assert.Error(t, svc.Ready(context.Background()))
	assert.NoError(t, svc.Ready(context.Background()))
}

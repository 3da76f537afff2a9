package core

import (
	"context"
	"time"

	"github.com/roniherschmann/clicklog/internal/metrics"
	"github.com/roniherschmann/clicklog/internal/store"
)

type Service struct {
	store store.Store
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of click timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(s store.Store, opts ...Option) *Service {
	svc := &Service{store: s, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// RecordClick stores one click for ip stamped with the current UTC time. On
// success the returned event carries the id assigned by storage.
func (s *Service) RecordClick(ctx context.Context, ip string) (store.ClickEvent, error) {
	ev := store.ClickEvent{IPAddress: ip, ClickTime: s.now().UTC()}
	id, err := s.store.InsertClick(ctx, ev)
	if err != nil {
		metrics.ClickFailures.Inc()
		return ev, err
	}
	metrics.ClicksRecorded.Inc()
	ev.ID = id
	return ev, nil
}

// Clicks returns every recorded click, newest first.
func (s *Service) Clicks(ctx context.Context) ([]store.ClickEvent, error) {
	return s.store.ListClicks(ctx)
}

func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

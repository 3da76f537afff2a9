package store

import (
	"context"
	"time"
)

// ClickEvent is one recorded redirect. Rows are append-only.
type ClickEvent struct {
	ID        int64
	IPAddress string
	ClickTime time.Time
}

type Store interface {
	InsertClick(ctx context.Context, ev ClickEvent) (int64, error)
	ListClicks(ctx context.Context) ([]ClickEvent, error)
	Ping(ctx context.Context) error
}

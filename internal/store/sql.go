package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/roniherschmann/clicklog/internal/metrics"
)

const clicksTable = "clicks"

// SQL is a Store backed by database/sql. It works against both SQLite and
// PostgreSQL; only the placeholder format differs.
type SQL struct {
	db      *sql.DB
	dialect Dialect
	qb      sq.StatementBuilderType
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{
		db:      db,
		dialect: dialect,
		qb:      sq.StatementBuilder.PlaceholderFormat(dialect.placeholder()),
	}
}

func (s *SQL) insertQuery(ev ClickEvent) sq.InsertBuilder {
	return s.qb.Insert(clicksTable).
		Columns("ip_address", "click_time").
		Values(ev.IPAddress, ev.ClickTime.UTC()).
		Suffix("RETURNING id")
}

func (s *SQL) listQuery() sq.SelectBuilder {
	return s.qb.Select("id", "ip_address", "click_time").
		From(clicksTable).
		OrderBy("click_time DESC", "id DESC")
}

func (s *SQL) InsertClick(ctx context.Context, ev ClickEvent) (int64, error) {
	defer metrics.ObserveQuery("insert", time.Now())

	var id int64
	if err := s.insertQuery(ev).RunWith(s.db).QueryRowContext(ctx).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert click: %w", err)
	}
	return id, nil
}

func (s *SQL) ListClicks(ctx context.Context) ([]ClickEvent, error) {
	defer metrics.ObserveQuery("list", time.Now())

	rows, err := s.listQuery().RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clicks: %w", err)
	}
	defer rows.Close()

	var res []ClickEvent
	for rows.Next() {
		var ev ClickEvent
		if err := rows.Scan(&ev.ID, &ev.IPAddress, &ev.ClickTime); err != nil {
			return nil, fmt.Errorf("scan click: %w", err)
		}
		ev.ClickTime = ev.ClickTime.UTC()
		res = append(res, ev)
	}
	return res, rows.Err()
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

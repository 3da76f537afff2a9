package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/roniherschmann/clicklog/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

const timeLayout = "2006-01-02 15:04:05"

var pages = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

type statsRow struct {
	ID   int64
	IP   string
	Time string
}

type statsPage struct {
	Total int
	Rows  []statsRow
	Error string
}

func newStatsPage(clicks []store.ClickEvent) statsPage {
	rows := make([]statsRow, len(clicks))
	for i, c := range clicks {
		rows[i] = statsRow{
			ID:   c.ID,
			IP:   c.IPAddress,
			Time: c.ClickTime.UTC().Format(timeLayout),
		}
	}
	return statsPage{Total: len(clicks), Rows: rows}
}

// renderPage executes into a buffer first so a template failure can still
// produce a clean 500.
func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("template", name).Msg("short write")
	}
}

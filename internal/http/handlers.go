package httpapi

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/roniherschmann/clicklog/internal/core"
	"github.com/roniherschmann/clicklog/internal/metrics"
)

type Router struct {
	svc *core.Service
}

func NewRouter(svc *core.Service) http.Handler {
	r := chi.NewRouter()
	// Logging middleware
	r.Use(middleware.RequestID)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", dur).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	api := &Router{svc: svc}

	r.MethodFunc(http.MethodGet, "/healthz", api.handleHealth)
	r.MethodFunc(http.MethodGet, "/readyz", api.handleReady)
	r.MethodFunc(http.MethodGet, "/metrics", metrics.Handler)

	r.MethodFunc(http.MethodGet, "/", api.handleHelp)
	r.MethodFunc(http.MethodGet, "/stats", api.handleStats)

	// Every other path is a redirect; the path itself is only a label. The
	// routes above are reserved and ignore ?to=.
	r.MethodFunc(http.MethodGet, "/*", api.handleRedirect)

	return r
}

func (rt *Router) handleRedirect(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("to")
	if target == "" {
		metrics.RedirectsRejected.Inc()
		http.Error(w, "missing 'to' parameter", http.StatusBadRequest)
		return
	}

	ip := clientIP(r)
	if _, err := rt.svc.RecordClick(r.Context(), ip); err != nil {
		// Recording is best-effort; the redirect goes out regardless.
		hlog.FromRequest(r).Error().Err(err).Str("ip", ip).Msg("record click")
	}
	metrics.Redirects.Inc()

	// http.Redirect would resolve relative targets against the request path,
	// so the Location header is set verbatim instead.
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusFound)
}

func (rt *Router) handleStats(w http.ResponseWriter, r *http.Request) {
	clicks, err := rt.svc.Clicks(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list clicks")
		metrics.StatsRequests.WithLabelValues("error").Inc()
		renderPage(w, r, "stats.html", statsPage{Error: err.Error()})
		return
	}
	metrics.StatsRequests.WithLabelValues("ok").Inc()
	renderPage(w, r, "stats.html", newStatsPage(clicks))
}

func (rt *Router) handleHelp(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "help.html", nil)
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (rt *Router) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := rt.svc.Ready(r.Context()); err != nil {
		http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// clientIP prefers the first hop of the first X-Forwarded-For header and
// falls back to the peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		first, _, _ := strings.Cut(xff[0], ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

package tracker

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// RateLimits holds the per-client request budget of each endpoint group,
// counted per minute. A zero value disables limiting for that group.
type RateLimits struct {
	Submit     int
	ListAll    int
	ListNews   int
	PerRecord  int
	WindowSize time.Duration
}

// DefaultRateLimits mirrors the limits the public site has always enforced.
var DefaultRateLimits = RateLimits{
	Submit:     5,
	ListAll:    45,
	ListNews:   20,
	PerRecord:  30,
	WindowSize: time.Minute,
}

// Mount registers all /api routes on r.
func (h *Handler) Mount(r chi.Router, limits RateLimits) {
	limit := func(n int) func(http.Handler) http.Handler {
		if n <= 0 {
			return func(next http.Handler) http.Handler { return next }
		}
		window := limits.WindowSize
		if window <= 0 {
			window = time.Minute
		}
		return httprate.Limit(n, window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(h.RateLimited),
		)
	}

	r.Route("/api", func(r chi.Router) {
		r.With(limit(limits.Submit)).Post("/report/launch", h.ReportLaunch)
		r.With(limit(limits.ListAll)).Get("/getlaunches", h.ListLaunches)
		r.With(limit(limits.PerRecord)).Get("/getlaunches/{launch_id}", h.GetLaunch)
		r.With(limit(limits.PerRecord)).Get("/mission/booster/{booster_id}", h.LaunchesByBooster)
		r.With(limit(limits.PerRecord)).Get("/mission/ship/{ship_id}", h.LaunchesByShip)

		r.With(limit(limits.ListAll)).Get("/fleet", h.Fleet)
		r.With(limit(limits.PerRecord)).Get("/fleet/booster/{booster_id}", h.BoosterDetail)
		r.With(limit(limits.PerRecord)).Get("/fleet/ship/{ship_id}", h.ShipDetail)

		r.With(limit(limits.Submit)).Post("/news/post", h.PostNews)
		r.With(limit(limits.ListNews)).Get("/news", h.ListNews)
		r.With(limit(limits.PerRecord)).Get("/news/{post_id}", h.GetNews)

		r.With(limit(limits.Submit)).Post("/missions", h.ReportMission)
		r.With(limit(limits.PerRecord)).Get("/missions/{launch_id}", h.MissionsForLaunch)
	})
}

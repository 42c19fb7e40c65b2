package tracker

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"rocket-tracker/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// Handler exposes tracker HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// ReportLaunch handles POST /api/report/launch.
func (h *Handler) ReportLaunch(w http.ResponseWriter, r *http.Request) {
	var report LaunchReport
	if !h.decode(w, r, &report) {
		return
	}

	launch, err := h.svc.ReportLaunch(r.Context(), report)
	if err != nil {
		h.writeServiceError(w, "report launch failed", err)
		return
	}

	h.log.Info("launch report submitted",
		slog.String("id", launch.ID),
		slog.Int("booster", *report.BoosterNumber),
		slog.Int("ship", *report.ShipNumber))
	if h.metrics != nil {
		h.metrics.IncLaunchesReported()
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{Message: "Launch report submitted successfully", ID: launch.ID})
}

// ListLaunches handles GET /api/getlaunches.
func (h *Handler) ListLaunches(w http.ResponseWriter, r *http.Request) {
	launches, err := h.svc.ListLaunches(r.Context())
	if err != nil {
		h.writeServiceError(w, "list launches failed", err)
		return
	}
	h.log.Debug("retrieved all launches", slog.Int("count", len(launches)))
	writeJSON(w, http.StatusOK, launches)
}

// GetLaunch handles GET /api/getlaunches/{launch_id}.
func (h *Handler) GetLaunch(w http.ResponseWriter, r *http.Request) {
	launchID := chi.URLParam(r, "launch_id")

	launch, err := h.svc.GetLaunch(r.Context(), launchID)
	if err != nil {
		h.writeServiceError(w, "get launch failed", err)
		return
	}
	writeJSON(w, http.StatusOK, launch)
}

// LaunchesByBooster handles GET /api/mission/booster/{booster_id}.
func (h *Handler) LaunchesByBooster(w http.ResponseWriter, r *http.Request) {
	launches, err := h.svc.LaunchesByBooster(r.Context(), chi.URLParam(r, "booster_id"))
	if err != nil {
		h.writeServiceError(w, "launches by booster failed", err)
		return
	}
	writeJSON(w, http.StatusOK, launches)
}

// LaunchesByShip handles GET /api/mission/ship/{ship_id}.
func (h *Handler) LaunchesByShip(w http.ResponseWriter, r *http.Request) {
	launches, err := h.svc.LaunchesByShip(r.Context(), chi.URLParam(r, "ship_id"))
	if err != nil {
		h.writeServiceError(w, "launches by ship failed", err)
		return
	}
	writeJSON(w, http.StatusOK, launches)
}

// Fleet handles GET /api/fleet.
func (h *Handler) Fleet(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Fleet(r.Context())
	if err != nil {
		h.writeServiceError(w, "fleet aggregation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// BoosterDetail handles GET /api/fleet/booster/{booster_id}.
func (h *Handler) BoosterDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.BoosterDetail(r.Context(), chi.URLParam(r, "booster_id"))
	if err != nil {
		h.writeServiceError(w, "booster detail failed", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ShipDetail handles GET /api/fleet/ship/{ship_id}.
func (h *Handler) ShipDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.ShipDetail(r.Context(), chi.URLParam(r, "ship_id"))
	if err != nil {
		h.writeServiceError(w, "ship detail failed", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// PostNews handles POST /api/news/post.
func (h *Handler) PostNews(w http.ResponseWriter, r *http.Request) {
	var post NewsPost
	if !h.decode(w, r, &post) {
		return
	}

	saved, err := h.svc.PostNews(r.Context(), post)
	if err != nil {
		h.writeServiceError(w, "post news failed", err)
		return
	}

	h.log.Info("news post submitted", slog.String("id", saved.ID))
	if h.metrics != nil {
		h.metrics.IncNewsPosted()
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{Message: "News post submitted successfully", ID: saved.ID})
}

// ListNews handles GET /api/news.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListNews(r.Context())
	if err != nil {
		h.writeServiceError(w, "list news failed", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetNews handles GET /api/news/{post_id}.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.GetNews(r.Context(), chi.URLParam(r, "post_id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: "News post not found"})
			return
		}
		h.writeServiceError(w, "get news failed", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// ReportMission handles POST /api/missions.
func (h *Handler) ReportMission(w http.ResponseWriter, r *http.Request) {
	var mission MissionReport
	if !h.decode(w, r, &mission) {
		return
	}

	saved, err := h.svc.ReportMission(r.Context(), mission)
	if err != nil {
		h.writeServiceError(w, "report mission failed", err)
		return
	}

	h.log.Info("mission submitted",
		slog.String("id", saved.ID),
		slog.String("launch_id", saved.LaunchID),
		slog.String("category", string(saved.MissionCategory)))
	if h.metrics != nil {
		h.metrics.IncMissionsReported()
	}
	writeJSON(w, http.StatusCreated, SubmitResponse{Message: "Mission submitted successfully", ID: saved.ID})
}

// MissionsForLaunch handles GET /api/missions/{launch_id}.
func (h *Handler) MissionsForLaunch(w http.ResponseWriter, r *http.Request) {
	missions, err := h.svc.MissionsForLaunch(r.Context(), chi.URLParam(r, "launch_id"))
	if err != nil {
		h.writeServiceError(w, "missions for launch failed", err)
		return
	}
	writeJSON(w, http.StatusOK, missions)
}

// RateLimited answers requests rejected by the rate limiter.
func (h *Handler) RateLimited(w http.ResponseWriter, r *http.Request) {
	h.log.Info("rate limit exceeded",
		slog.String("path", r.URL.Path),
		slog.String("remote", r.RemoteAddr))
	if h.metrics != nil {
		h.metrics.IncRateLimited()
	}
	writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Detail: "ratelimit, slow down!"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		h.log.Debug("invalid request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "invalid JSON body"})
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		h.log.Debug(msg, slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: DetailMessage(err)})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Detail: "Not found"})
	default:
		h.log.Error(msg, slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

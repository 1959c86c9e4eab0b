package web

import (
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"weekplan/internal/config"
	"weekplan/internal/ics"
	appLog "weekplan/internal/log"
	"weekplan/internal/model"
	"weekplan/internal/planner"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server exposes the planner over a JSON API plus a read-only HTML rendering
// of the week for browsers and the screenshot job.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	// mu serialises planner access; Planner itself is not concurrency safe.
	mu      sync.Mutex
	planner *planner.Planner

	loc  *time.Location
	now  func() time.Time
	tmpl *template.Template
}

// NewServer constructs a Server around p.
func NewServer(cfg *config.Config, p *planner.Planner) *Server {
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		planner: p,
		loc:     resolveLocation(cfg),
		now:     time.Now,
		tmpl:    template.Must(template.New("calendar.html").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Locked runs fn with exclusive access to the planner. Background jobs use
// it to read the week consistently with API writes.
func (s *Server) Locked(fn func(p *planner.Planner)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.planner)
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="WeekPlan", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/week", s.handleWeek)
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	s.mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)
	s.mux.HandleFunc("GET /api/events/new", s.handleNewDraft)
	s.mux.HandleFunc("POST /api/slot", s.handleSlot)
	s.mux.HandleFunc("GET /api/prefs", s.handleGetPrefs)
	s.mux.HandleFunc("PUT /api/prefs", s.handlePutPrefs)
	s.mux.HandleFunc("POST /api/prefs/toggle", s.handleTogglePrefs)
	s.mux.HandleFunc("GET /api/palette", s.handlePalette)

	s.mux.HandleFunc("GET /week.ics", s.handleICS)
	s.mux.HandleFunc("GET /calendar", s.handleCalendar)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleWeek(w http.ResponseWriter, _ *http.Request) {
	var week planner.WeekView
	s.Locked(func(p *planner.Planner) { week = p.Week() })
	writeJSON(w, http.StatusOK, week)
}

type eventsResponse struct {
	Events []model.Event `json:"events"`
}

// handleListEvents returns every event, or one day's with ?day=mon.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("day")
	var day model.Day
	if filter != "" {
		d, err := model.ParseDay(filter)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = d
	}

	var all []model.Event
	s.Locked(func(p *planner.Planner) { all = p.Events() })

	out := make([]model.Event, 0, len(all))
	for _, ev := range all {
		if filter == "" || ev.Day == day {
			out = append(out, ev)
		}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: out})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var (
		ev model.Event
		ok bool
	)
	s.Locked(func(p *planner.Planner) { ev, ok = p.Event(id) })
	if !ok {
		writeError(w, http.StatusNotFound, planner.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleNewDraft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, planner.NewDraft())
}

type savedResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var d planner.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d.ID = ""

	var (
		id  string
		err error
	)
	s.Locked(func(p *planner.Planner) { id, err = p.Save(d) })
	if err != nil {
		if id != "" {
			appLog.Error("api: event created but not persisted", err, "id", id)
		}
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, savedResponse{ID: id})
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var d planner.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d.ID = r.PathValue("id")

	var (
		id  string
		err error
	)
	s.Locked(func(p *planner.Planner) { id, err = p.Save(d) })
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, savedResponse{ID: id})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var (
		removed bool
		err     error
	)
	s.Locked(func(p *planner.Planner) { removed, err = p.Delete(id) })
	switch {
	case err != nil:
		writeError(w, statusFor(err), err.Error())
	case !removed:
		writeError(w, http.StatusNotFound, planner.ErrNotFound.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

type slotRequest struct {
	Day     model.Day `json:"day"`
	OffsetY float64   `json:"offset_y"`
}

// handleSlot converts a click inside a day column into a pre-filled draft.
func (s *Server) handleSlot(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Day.Valid() {
		writeError(w, http.StatusUnprocessableEntity, planner.ErrInvalidDay.Error())
		return
	}
	var d planner.Draft
	s.Locked(func(p *planner.Planner) { d = p.ResolveSlot(req.OffsetY, req.Day) })
	writeJSON(w, http.StatusOK, d)
}

type prefsBody struct {
	Use24h *bool `json:"use24h"`
}

func (s *Server) handleGetPrefs(w http.ResponseWriter, _ *http.Request) {
	var v bool
	s.Locked(func(p *planner.Planner) { v = p.Use24h() })
	writeJSON(w, http.StatusOK, prefsBody{Use24h: &v})
}

func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	var body prefsBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Use24h == nil {
		writeError(w, http.StatusBadRequest, "use24h is required")
		return
	}
	var err error
	s.Locked(func(p *planner.Planner) { err = p.SetUse24h(*body.Use24h) })
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTogglePrefs(w http.ResponseWriter, _ *http.Request) {
	var (
		v   bool
		err error
	)
	s.Locked(func(p *planner.Planner) { v, err = p.ToggleFormat() })
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prefsBody{Use24h: &v})
}

func (s *Server) handlePalette(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Palette())
}

// handleICS serves the planner as a calendar anchored on the current week.
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	now := s.now().In(s.loc)
	var events []model.Event
	s.Locked(func(p *planner.Planner) { events = p.Events() })

	body, err := ics.Export(events, ics.WeekStart(now, s.loc), now)
	if err != nil {
		appLog.Error("api: ics export failed", err)
		writeError(w, http.StatusInternalServerError, "failed to export calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="week.ics"`)
	_, _ = w.Write(body)
}

// handlePreview serves the last captured PNG from the data dir.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.DataDir, "preview.png"))
}

// statusFor maps planner errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrPersist):
		return http.StatusInternalServerError
	case errors.Is(err, planner.ErrTimeRequired),
		errors.Is(err, planner.ErrInvalidInterval),
		errors.Is(err, planner.ErrInvalidDay),
		errors.Is(err, planner.ErrInvalidColor):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func resolveLocation(cfg *config.Config) *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", cfg.Timezone)
	}
	return loc
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

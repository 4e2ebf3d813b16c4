package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/aretw0/itfview"
	"github.com/aretw0/itfview/internal/logging"
	"github.com/aretw0/itfview/internal/presentation/page"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/ports"
	"github.com/aretw0/itfview/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultViewID is used when a request names no view.
	DefaultViewID = "default"

	viewCookie = "itfview_view"
	viewParam  = "view"

	// modeBoth asks /fragment for both view modes at once.
	modeBoth = "both"
)

// Renderer turns a trace into engine markup.
type Renderer interface {
	Render(t *domain.Trace, opts domain.DisplayOptions) string
	RenderModes(ctx context.Context, t *domain.Trace, opts domain.DisplayOptions) (itfview.Views, error)
}

// FragmentModes is the /fragment?mode=both response.
type FragmentModes struct {
	Single  string `json:"single"`
	Chained string `json:"chained"`
}

// Server serves a single trace source to browsers.
type Server struct {
	renderer Renderer
	source   ports.TraceSource
	sessions *session.Manager
	streams  *StreamManager
	gatherer prometheus.Gatherer
	version  string
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the gathered metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a Server.
func NewServer(renderer Renderer, source ports.TraceSource, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		renderer: renderer,
		source:   source,
		sessions: sessions,
		streams:  NewStreamManager(),
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams.logger = s.logger
	return s
}

// NewHandler creates the HTTP handler for the viewer.
func NewHandler(renderer Renderer, source ports.TraceSource, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(renderer, source, sessions, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.GetPage)
	r.Get("/fragment", s.GetFragment)
	r.Post("/commands", s.PostCommand)
	r.Get("/options", s.GetOptions)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// viewID picks the view from the query, then the cookie. A view named in the
// query is remembered in the cookie.
func viewID(w http.ResponseWriter, r *http.Request) string {
	if id := r.URL.Query().Get(viewParam); id != "" {
		http.SetCookie(w, &http.Cookie{Name: viewCookie, Value: url.QueryEscape(id), Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
		return id
	}
	if c, err := r.Cookie(viewCookie); err == nil && c.Value != "" {
		if id, err := url.QueryUnescape(c.Value); err == nil {
			return id
		}
	}
	return DefaultViewID
}

func viewQuery(id string) string {
	if id == DefaultViewID {
		return ""
	}
	return "?" + viewParam + "=" + url.QueryEscape(id)
}

// GetPage handles GET /: the control bar, the rendered trace and the
// description.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	id := viewID(w, r)
	opts, err := s.sessions.Options(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load view", http.StatusInternalServerError)
		s.logger.Error("GetPage: Options failed", "view_id", id, "err", err)
		return
	}

	data := page.Data{
		Title:       s.source.Name(),
		Options:     opts,
		CommandPath: "/commands" + viewQuery(id),
	}

	status := http.StatusOK
	t, err := s.source.Load(r.Context())
	if err != nil {
		status = http.StatusInternalServerError
		data.Error = fmt.Sprintf("Failed to load trace: %v", err)
		s.logger.Error("GetPage: Load failed", "source", s.source.Name(), "err", err)
	} else {
		data.Vars = t.Vars
		data.Description = t.Meta.Description
		data.Body = s.renderer.Render(t, opts)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Write(w, data); err != nil {
		s.logger.Error("GetPage: write failed", "err", err)
	}
}

// GetFragment handles GET /fragment: the engine markup alone. A mode query
// parameter overrides the stored view mode for this request; mode=both
// answers with both modes as JSON.
func (s *Server) GetFragment(w http.ResponseWriter, r *http.Request) {
	id := viewID(w, r)
	opts, err := s.sessions.Options(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load view", http.StatusInternalServerError)
		s.logger.Error("GetFragment: Options failed", "view_id", id, "err", err)
		return
	}
	m := r.URL.Query().Get("mode")
	both := strings.EqualFold(m, modeBoth)
	if m != "" && !both {
		mode, err := domain.ParseViewMode(m)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts.ViewMode = mode
	}

	t, err := s.source.Load(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load trace: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetFragment: Load failed", "source", s.source.Name(), "err", err)
		return
	}

	if both {
		views, err := s.renderer.RenderModes(r.Context(), t, opts)
		if err != nil {
			http.Error(w, "Render failed", http.StatusInternalServerError)
			s.logger.Error("GetFragment: RenderModes failed", "view_id", id, "err", err)
			return
		}
		writeJSON(w, s.logger, FragmentModes{Single: views.Single, Chained: views.Chained})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, s.renderer.Render(t, opts))
}

// PostCommand handles POST /commands. JSON bodies get the new options back;
// form posts are redirected to the page.
func (s *Server) PostCommand(w http.ResponseWriter, r *http.Request) {
	id := viewID(w, r)
	isJSON := isJSONRequest(r)

	cmd, err := decodeCommand(r, isJSON)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostCommand: Invalid request body", "err", err)
		return
	}

	opts, err := s.sessions.Handle(r.Context(), id, cmd)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCommand) || errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Command failed", http.StatusInternalServerError)
		s.logger.Error("PostCommand: Handle failed", "view_id", id, "command", cmd.Name, "err", err)
		return
	}

	s.streams.Broadcast(id, cmd.Name)

	if !isJSON {
		http.Redirect(w, r, "/"+viewQuery(id), http.StatusSeeOther)
		return
	}
	writeJSON(w, s.logger, opts)
}

func isJSONRequest(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func decodeCommand(r *http.Request, isJSON bool) (session.Command, error) {
	var cmd session.Command
	if isJSON {
		err := json.NewDecoder(r.Body).Decode(&cmd)
		return cmd, err
	}
	if err := r.ParseForm(); err != nil {
		return cmd, err
	}
	cmd.Name = r.PostForm.Get("command")
	cmd.Variables = r.PostForm["variables"]
	return cmd, nil
}

// GetOptions handles GET /options.
func (s *Server) GetOptions(w http.ResponseWriter, r *http.Request) {
	id := viewID(w, r)
	opts, err := s.sessions.Options(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load view", http.StatusInternalServerError)
		s.logger.Error("GetOptions: Options failed", "view_id", id, "err", err)
		return
	}
	writeJSON(w, s.logger, opts)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "itfview-http",
		"version": strings.TrimSpace(s.version),
		"source":  s.source.Name(),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

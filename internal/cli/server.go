package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/reflow/pkg/buildinfo"
	"github.com/matzehuels/reflow/pkg/cache"
	"github.com/matzehuels/reflow/pkg/config"
	errs "github.com/matzehuels/reflow/pkg/errors"
	"github.com/matzehuels/reflow/pkg/layout"
	"github.com/matzehuels/reflow/pkg/observability"
	"github.com/matzehuels/reflow/pkg/pipeline"
	"github.com/matzehuels/reflow/pkg/reflow"
	"github.com/matzehuels/reflow/pkg/scene"
	"github.com/matzehuels/reflow/pkg/snapshot"
)

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 30 * time.Second
)

// =============================================================================
// Server
// =============================================================================

// server answers preview requests. Every request builds its own scene, so
// handlers share nothing but the pipeline runner and the counters.
type server struct {
	logger *log.Logger
	runner *pipeline.Runner
	stats  *serverStats
}

func newServer(logger *log.Logger, c cache.Cache, ttl time.Duration) *server {
	runner := pipeline.NewRunner(c, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "preview:"), logger)
	runner.TTL = ttl
	return &server{
		logger: logger,
		runner: runner,
		stats:  &serverStats{},
	}
}

// routes builds the router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/properties", s.handleProperties)
		r.Get("/stats", s.handleStats)
		r.Post("/layout", s.handleLayout)
		r.Post("/hover", s.handleHover)
		r.Post("/render", s.handleRender)
	})
	return r
}

// requestLogger attaches a request-scoped logger and reports every request to
// the HTTP hooks.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), logger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "bytes", ww.BytesWritten(), "elapsed", elapsed.Round(time.Microsecond))
	})
}

// =============================================================================
// Requests
// =============================================================================

// sceneRequest is the body of layout and render requests.
type sceneRequest struct {
	Scene config.Scene `json:"scene"`
	// Ticks stops the scene after this many ticks instead of settling it.
	Ticks int `json:"ticks,omitempty"`
}

// hoverRequest asks where an item would land if dragged to a pointer
// position.
type hoverRequest struct {
	sceneRequest
	// Item is the ID or label of the item to drag.
	Item    string     `json:"item"`
	Pointer pointerPos `json:"pointer"`
}

type pointerPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type hoverResponse struct {
	Container  string         `json:"container"`
	Item       string         `json:"item"`
	From       int            `json:"from"`
	HoverIndex int            `json:"hover_index"`
	Order      []string       `json:"order"`
	Frame      snapshot.Frame `json:"frame"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// decode reads a JSON body into v. A TOML content type decodes a bare scene
// file into the request's scene.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "read body")
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/toml") {
		req, ok := v.(*sceneRequest)
		if !ok {
			return errs.New(errs.ErrCodeUnsupported, "TOML bodies are only accepted for layout and render")
		}
		spec, err := pipeline.Parse(raw, pipeline.SceneTOML)
		if err != nil {
			return err
		}
		req.Scene = *spec
		req.Ticks = queryInt(r, "ticks")
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode body")
	}
	return nil
}

func (req *sceneRequest) validate() error {
	if req.Ticks < 0 || req.Ticks > pipeline.MaxTicks {
		return errs.New(errs.ErrCodeInvalidInput, "ticks must be between 0 and %d", pipeline.MaxTicks)
	}
	return req.Scene.Validate()
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handleProperties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, propertyValues(layout.DefaultConfig()))
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.snapshot())
}

// handleLayout settles a scene and answers with its snapshot.
func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())

	var req sceneRequest
	err := decode(w, r, &req)
	if err == nil {
		err = req.validate()
	}
	if err != nil {
		writeError(w, err)
		return
	}

	frame, hit, err := s.runner.Layout(r.Context(), &req.Scene, pipeline.Options{Ticks: req.Ticks, Logger: logger})
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := snapshot.Marshal(frame)
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "encode snapshot"))
		return
	}

	s.cacheStatus(w, hit)
	writeBytes(w, "application/json", data)
}

// handleHover drags an item to a pointer position and reports the slot it
// would take, along with the resulting order.
func (s *server) handleHover(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())

	var req hoverRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	host, err := pipeline.Build(&req.Scene, req.Ticks, logger)
	if err != nil {
		writeError(w, err)
		return
	}
	defer host.Close()

	it, c := findItem(host, req.Item)
	if it == nil {
		writeError(w, errs.New(errs.ErrCodeNotFound, "item %q not found", req.Item))
		return
	}

	from := it.Index()
	grab := c.Bounds().Pos().Add(it.Rect().Center())
	host.PointerDown(grab)
	if host.Dragging() != it {
		writeError(w, errs.New(errs.ErrCodeConflict, "item %q is covered by another item at %v", req.Item, grab))
		return
	}
	host.Tick(pipeline.DefaultStep)
	host.PointerMove(layout.Vec2{X: req.Pointer.X, Y: req.Pointer.Y})
	host.Tick(pipeline.DefaultStep)

	resp := hoverResponse{
		Container:  c.Name(),
		Item:       it.ID,
		From:       from,
		HoverIndex: c.HoverIndex(),
		Order:      labelsBySlot(c),
		Frame:      pipeline.Capture(&req.Scene, host),
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRender draws a settled scene. Query parameters select the view
// (frame, tree), format (svg, pdf, png), style and frame overlays.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r.Context())

	q := r.URL.Query()
	format := q.Get("format")
	if format == pipeline.FormatJSON {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "format must be svg, pdf or png; use /v1/layout for snapshots"))
		return
	}
	opts := pipeline.Options{
		Views:    splitList(q.Get("view")),
		Formats:  splitList(format),
		Style:    q.Get("style"),
		Targets:  queryBool(r, "targets"),
		Rows:     queryBool(r, "rows"),
		Names:    queryBool(r, "names"),
		Detailed: queryBool(r, "detailed"),
		Logger:   logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}
	if len(opts.Views) != 1 || len(opts.Formats) != 1 {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "render one view and format per request"))
		return
	}

	var req sceneRequest
	err := decode(w, r, &req)
	if err == nil {
		err = req.validate()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Ticks = req.Ticks

	result, err := s.runner.Execute(r.Context(), &req.Scene, opts)
	if err != nil {
		if errs.GetCode(err) == "" {
			err = errs.Wrap(errs.ErrCodeInternal, err, "render")
		}
		writeError(w, err)
		return
	}
	a := opts.Artifacts()[0]

	s.cacheStatus(w, result.AllCached())
	writeBytes(w, contentTypes[a.Format], result.Artifacts[a])
}

var contentTypes = map[string]string{
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
	"png": "image/png",
}

// =============================================================================
// Helpers
// =============================================================================

// cacheStatus sets the X-Cache header and counts hits.
func (s *server) cacheStatus(w http.ResponseWriter, hit bool) {
	if hit {
		s.stats.cacheHits.Add(1)
		w.Header().Set("X-Cache", "HIT")
		return
	}
	w.Header().Set("X-Cache", "MISS")
}

// findItem looks an item up by ID first, then by label.
func findItem(host *scene.Scene, ref string) (*reflow.Item, *reflow.Container) {
	for _, c := range host.Containers() {
		for _, it := range c.Items() {
			if it.ID == ref {
				return it, c
			}
		}
	}
	for _, c := range host.Containers() {
		for _, it := range c.Items() {
			if it.Label == ref {
				return it, c
			}
		}
	}
	return nil, nil
}

func labelsBySlot(c *reflow.Container) []string {
	items := append([]*reflow.Item(nil), c.Items()...)
	sort.Slice(items, func(i, j int) bool { return items[i].Index() < items[j].Index() })
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, errs.HTTPStatus(err), errorResponse{Code: string(code), Error: errs.UserMessage(err)})
}

// =============================================================================
// Stats
// =============================================================================

// serverStats counts engine and HTTP events. It is registered as both hook
// sets while the server runs.
type serverStats struct {
	requests  atomic.Int64
	errors    atomic.Int64
	drags     atomic.Int64
	reorders  atomic.Int64
	settles   atomic.Int64
	cacheHits atomic.Int64
}

func (st *serverStats) OnRequest(context.Context, string, string) { st.requests.Add(1) }

func (st *serverStats) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= http.StatusBadRequest {
		st.errors.Add(1)
	}
}

func (st *serverStats) OnDragStart(string, string, int)     { st.drags.Add(1) }
func (st *serverStats) OnDragStop(string, string, int)      {}
func (st *serverStats) OnReorder(string, string, int, int)  { st.reorders.Add(1) }
func (st *serverStats) OnAnimate(string, int)               {}
func (st *serverStats) OnSettle(string, int, time.Duration) { st.settles.Add(1) }

func (st *serverStats) snapshot() map[string]int64 {
	return map[string]int64{
		"requests":   st.requests.Load(),
		"errors":     st.errors.Load(),
		"drags":      st.drags.Load(),
		"reorders":   st.reorders.Load(),
		"settles":    st.settles.Load(),
		"cache_hits": st.cacheHits.Load(),
	}
}

var (
	_ observability.HTTPHooks   = (*serverStats)(nil)
	_ observability.ReflowHooks = (*serverStats)(nil)
)

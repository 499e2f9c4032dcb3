package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/browser"
	"github.com/jpdehyl/BSA-demo/internal/cache"
	"github.com/jpdehyl/BSA-demo/internal/disposition"
	"github.com/jpdehyl/BSA-demo/internal/model"
	"github.com/jpdehyl/BSA-demo/internal/store"
)

var servePort int

// saveTimeout bounds persisting one record after research completes.
const saveTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the research HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResearch(ctx, "serve", true)
		if err != nil {
			return err
		}
		defer env.Close()

		a := &api{
			research:    env.Aggregator,
			suggester:   newSuggester(ctx),
			store:       env.Store,
			cache:       env.Cache,
			limiter:     env.Limiter,
			browser:     env.Browser,
			timeout:     sessionTimeout,
			corsOrigins: cfg.Server.CORSOrigins,
		}
		go sweepLoop(ctx, env.Cache, cfg.Research.SweepInterval())

		return startServer(ctx, buildRouter(a), resolvePort(servePort, cfg.Server.Port))
	},
}

// suggester is the disposition engine as seen by the API.
type suggester interface {
	Suggest(ctx context.Context, m disposition.CallMetrics) disposition.Suggestion
}

// api holds the collaborators behind the HTTP handlers. Any of them may be
// nil; the matching endpoints then answer 503.
type api struct {
	research    researcher
	suggester   suggester
	store       store.Store
	cache       *cache.Cache
	limiter     *cache.Limiter
	browser     *browser.Manager
	timeout     time.Duration
	corsOrigins []string
}

// buildRouter wires the API routes.
func buildRouter(a *api) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := a.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/research", a.handleResearch)
		r.Get("/research", a.handleListResearch)
		r.Get("/research/{id}", a.handleGetResearch)
		r.Post("/disposition", a.handleDisposition)
		r.Post("/score", a.handleScore)
		r.Get("/cache/stats", a.handleCacheStats)
		r.Post("/cache/sweep", a.handleCacheSweep)
	})
	return r
}

func (a *api) handleResearch(w http.ResponseWriter, r *http.Request) {
	if a.research == nil {
		writeError(w, http.StatusServiceUnavailable, "research is not configured")
		return
	}
	var s model.Subject
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(s.ContactName) == "" || strings.TrimSpace(s.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "contact_name and company_name are required")
		return
	}

	ctx := r.Context()
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	rec, err := a.research.Research(ctx, s)
	if err != nil {
		var ce *model.ConfigurationError
		if errors.As(err, &ce) {
			writeError(w, http.StatusServiceUnavailable, ce.Error())
			return
		}
		zap.L().Error("api: research failed", zap.String("company", s.CompanyName), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "research failed")
		return
	}

	if a.store != nil {
		// Research may have used up its deadline; the save gets its own.
		saveCtx, cancel := context.WithTimeout(r.Context(), saveTimeout)
		defer cancel()
		if err := a.store.Save(saveCtx, rec); err != nil {
			// Save failures are logged; the record is still returned.
			zap.L().Error("api: save record", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *api) handleListResearch(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store is not configured")
		return
	}
	q := r.URL.Query()
	f := store.Filter{
		Company:  q.Get("company"),
		Priority: model.PriorityLevel(q.Get("priority")),
	}
	var err error
	if f.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	if f.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	recs, err := a.store.List(r.Context(), f)
	if err != nil {
		zap.L().Error("api: list records", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if recs == nil {
		recs = []model.CompositeResearchRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (a *api) handleGetResearch(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusServiceUnavailable, "store is not configured")
		return
	}
	rec, err := a.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		zap.L().Error("api: get record", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type dispositionRequest struct {
	DurationSecs int    `json:"duration_secs"`
	Transcript   string `json:"transcript"`
	Status       string `json:"status"`
}

func (a *api) handleDisposition(w http.ResponseWriter, r *http.Request) {
	if a.suggester == nil {
		writeError(w, http.StatusServiceUnavailable, "disposition is not configured")
		return
	}
	var req dispositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DurationSecs < 0 {
		writeError(w, http.StatusBadRequest, "duration_secs must not be negative")
		return
	}
	writeJSON(w, http.StatusOK, a.suggester.Suggest(r.Context(), disposition.CallMetrics{
		Duration:   time.Duration(req.DurationSecs) * time.Second,
		Transcript: req.Transcript,
		Status:     req.Status,
	}))
}

type scoreRequest struct {
	FitScore int `json:"fit_score"`
	model.Subject
}

func (a *api) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FitScore < 0 || req.FitScore > 100 {
		writeError(w, http.StatusBadRequest, "fit_score must be between 0 and 100")
		return
	}
	writeJSON(w, http.StatusOK, scoreSummary(req.FitScore, req.Subject))
}

type cacheStatsResponse struct {
	Cache    cache.Stats `json:"cache"`
	Sessions struct {
		Limit    int   `json:"limit"`
		InFlight int   `json:"in_flight"`
		Queued   int   `json:"queued"`
		Opened   int64 `json:"opened"`
		Closed   int64 `json:"closed"`
		Active   int64 `json:"active"`
	} `json:"sessions"`
}

func (a *api) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	var resp cacheStatsResponse
	if a.cache != nil {
		resp.Cache = a.cache.Stats()
	}
	if a.limiter != nil {
		resp.Sessions.Limit = a.limiter.Size()
		resp.Sessions.InFlight = a.limiter.InFlight()
		resp.Sessions.Queued = a.limiter.Queued()
	}
	if a.browser != nil {
		st := a.browser.Stats()
		resp.Sessions.Opened = st.Opened
		resp.Sessions.Closed = st.Closed
		resp.Sessions.Active = st.Active()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *api) handleCacheSweep(w http.ResponseWriter, r *http.Request) {
	removed := 0
	if a.cache != nil {
		removed = a.cache.Sweep()
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// sweepLoop evicts expired cache entries every interval until ctx ends.
func sweepLoop(ctx context.Context, c *cache.Cache, interval time.Duration) {
	if c == nil || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := c.Sweep(); n > 0 {
				zap.L().Debug("cache: swept expired entries", zap.Int("removed", n))
			}
		}
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, eris.Errorf("invalid integer %q", s)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// resolvePort returns the flag port when set, else the config port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves h on port until ctx is cancelled, then shuts down.
func startServer(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

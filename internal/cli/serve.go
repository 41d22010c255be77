package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/skysim/skyplan/pkg/cache"
	"github.com/skysim/skyplan/pkg/errors"
	"github.com/skysim/skyplan/pkg/pipeline"
	"github.com/skysim/skyplan/pkg/scene"
	"github.com/skysim/skyplan/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	mongoURI  string // MongoDB connection string; in-memory store when empty
	redisAddr string // Redis address for the plan cache; file cache when empty
	noCache   bool   // disable plan caching entirely
}

// serveCommand creates the serve command for the plan HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the plan HTTP API",
		Long: `Run the plan HTTP API.

Endpoints:
  POST   /plans        generate a plan from a scene (JSON body)
  GET    /plans        list stored plans, newest first
  GET    /plans/{id}   fetch a stored plan
  DELETE /plans/{id}   delete a stored plan
  GET    /healthz      liveness check

Plans are stored in memory unless --mongo-uri points at a MongoDB
deployment. With --redis-addr, generated plans are cached in Redis so
multiple instances share one cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for persistent plan storage")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the shared plan cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable plan caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	st, err := c.newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	cch, err := c.newServeCache(ctx, opts)
	if err != nil {
		return err
	}
	defer cch.Close()

	srv := newServer(pipeline.NewRunner(cch, nil), st, c)

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Infof("listening on %s", opts.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (c *CLI) newStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		c.Logger.Debug("using in-memory plan store")
		return store.NewMemoryStore(), nil
	}
	c.Logger.Debugf("connecting to MongoDB at %s", opts.mongoURI)
	return store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI})
}

func (c *CLI) newServeCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		c.Logger.Debugf("connecting to Redis at %s", opts.redisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	}
	return newCache(false)
}

// =============================================================================
// HTTP Server
// =============================================================================

// server holds the HTTP API state.
type server struct {
	runner *pipeline.Runner
	store  store.Store
	cli    *CLI
}

func newServer(runner *pipeline.Runner, st store.Store, c *CLI) *server {
	return &server{runner: runner, store: st, cli: c}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/plans", func(r chi.Router) {
		r.Post("/", s.handleCreatePlan)
		r.Get("/", s.handleListPlans)
		r.Get("/{id}", s.handleGetPlan)
		r.Delete("/{id}", s.handleDeletePlan)
	})
	return r
}

// planRequest is the POST /plans body: a scene plus optional overrides.
type planRequest struct {
	Scene   scene.Scene      `json:"scene"`
	Options pipeline.Options `json:"options"`
}

// planResponse wraps a generated plan with cache diagnostics.
type planResponse struct {
	Plan   json.RawMessage `json:"plan"`
	Cached bool            `json:"cached"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode request"))
		return
	}
	req.Options.Logger = s.cli.Logger

	p, info, err := s.runner.GenerateWithCacheInfo(r.Context(), &req.Scene, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.Put(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, planResponse{Plan: data, Cached: info.Hit})
}

func (s *server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.List(r.Context(), 100)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidScene, errors.ErrCodeInvalidLayout,
		errors.ErrCodeMissingParameter, errors.ErrCodeInvalidGeometry,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPlan:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: errors.UserMessage(err)})
}

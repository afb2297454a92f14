package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

const (
	defaultAddr = ":8080"

	// maxRequestBytes bounds the size of a layout request body.
	maxRequestBytes = 4 << 20

	shutdownTimeout = 5 * time.Second
)

// =============================================================================
// HTTP API
// =============================================================================

type ctxRequestID struct{}

// server exposes a pipeline runner over HTTP.
type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// newRouter returns the API routes.
func newRouter(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	s := &server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Post("/v1/layout", s.layout)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, requestIDFrom(r), errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, requestIDFrom(r), errors.New(errors.ErrCodeUnsupported, "%s not allowed on %s", r.Method, r.URL.Path))
	})
	return r
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxRequestID{}).(string)
	return id
}

// requestID tags each request with a UUID, echoed in X-Request-ID, and
// reports it to the server hooks.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), ctxRequestID{}, id)
		w.Header().Set("X-Request-ID", id)

		hooks := observability.Server()
		hooks.OnRequest(ctx, id, r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		hooks.OnResponse(ctx, id, r.Method, r.URL.Path, ww.Status(), time.Since(start))

		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// layoutRequest is the body of POST /v1/layout.
type layoutRequest = pipeline.Options

// layoutResponse is the reply to POST /v1/layout. Artifacts are keyed by
// format; every format is returned as text.
type layoutResponse struct {
	RequestID string            `json:"request_id"`
	SceneHash string            `json:"scene_hash"`
	Placement masonry.Placement `json:"placement"`
	Artifacts map[string]string `json:"artifacts"`
	Cached    cachedStages      `json:"cached"`
}

type cachedStages struct {
	Layout bool `json:"layout"`
	Render bool `json:"render"`
}

func (s *server) layout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := requestIDFrom(r)

	var req layoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, id, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	req.Logger = s.logger.With("request", id)

	res, err := s.runner.Execute(ctx, req)
	if err != nil {
		s.writeError(w, id, err)
		return
	}

	resp := layoutResponse{
		RequestID: id,
		SceneHash: res.SceneHash,
		Placement: res.Placement,
		Artifacts: make(map[string]string, len(res.Artifacts)),
		Cached:    cachedStages{Layout: res.CacheInfo.LayoutHit, Render: res.CacheInfo.RenderHit},
	}
	for format, data := range res.Artifacts {
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// writeError replies with the status for err's code. Messages of
// unclassified failures stay in the log.
func (s *server) writeError(w http.ResponseWriter, id string, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", id, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Command
// =============================================================================

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr    string
	redis   string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

  POST /v1/layout   lay out and render a scene
  GET  /healthz     liveness probe

Artifacts are cached on disk, or in Redis with --redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis URL (redis://host:port/db) for a shared cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	runner := pipeline.NewRunner(store, keyer, logger)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(runner, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", opts.addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.redis == "" {
		return newCache(opts.noCache)
	}

	spinner := newSpinnerWithContext(ctx, "Connecting to Redis...")
	spinner.Start()
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: opts.redis, Prefix: appName + ":"})
	if err != nil {
		spinner.StopWithError("Redis unavailable")
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	spinner.StopWithSuccess("Connected to Redis")
	return rc, nil
}

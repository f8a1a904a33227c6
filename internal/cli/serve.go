package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

const (
	// maxServeNodes bounds text responses.
	maxServeNodes = 1 << 20
	// maxServeRenderNodes bounds Graphviz renders, which are far slower.
	maxServeRenderNodes = 10_000

	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated networks over HTTP",
		Long: `Serve answers

  GET /network        node list as text/plain
  GET /network.json   node list as JSON
  GET /network.svg    rendered diagram
  GET /healthz        liveness

Query parameters size, rate, nodes, sinks and seed override the configured
generate settings. Responses carry the seed used in X-Flowgrid-Seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), c.config.GetString(keyServeAddr), noCache)
		},
	}

	cmd.Flags().String("addr", defaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache for renders")
	c.bindFlags(cmd.Flags(), map[string]string{keyServeAddr: "addr"})

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	logger := loggerFromContext(ctx)

	defaults, err := c.generateParams()
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCodeIO, err, "listen on %s", addr)
	}

	srv := &http.Server{
		Handler:           newServer(runner, defaults, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	printSuccess("Listening on http://%s", ln.Addr())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// server holds the HTTP handlers. Each request builds its own generator.
type server struct {
	runner   *pipeline.Runner
	defaults grid.Params
	logger   *log.Logger
	now      func() time.Time
}

func newServer(runner *pipeline.Runner, defaults grid.Params, logger *log.Logger) *server {
	return &server{runner: runner, defaults: defaults, logger: logger, now: time.Now}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	r.Get("/network", s.handleNetwork(pipeline.FormatText, maxServeNodes))
	r.Get("/network.json", s.handleNetwork(pipeline.FormatJSON, maxServeNodes))
	r.Get("/network.svg", s.handleNetwork(pipeline.FormatSVG, maxServeRenderNodes))
	return r
}

var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
}

func (s *server) handleNetwork(format string, maxNodes int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, seed, err := s.requestParams(r)
		if err == nil && params.NodeCount > maxNodes {
			err = ferrors.New(ferrors.ErrCodeInvalidParams, "nodes must be at most %d, got %d", maxNodes, params.NodeCount)
		}
		if err != nil {
			http.Error(w, ferrors.UserMessage(err), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		if format == pipeline.FormatText {
			_, err = s.runner.Generate(r.Context(), &buf, params, seed)
		} else {
			var data []byte
			data, _, err = s.runner.Render(r.Context(), grid.Build(params, grid.NewRand(seed)), pipeline.RenderOptions{Format: format})
			buf.Write(data)
		}
		if err != nil {
			status := errorStatus(err)
			if status >= http.StatusInternalServerError {
				s.logger.Error("request failed", "path", r.URL.Path, "err", err)
			}
			http.Error(w, ferrors.UserMessage(err), status)
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Flowgrid-Seed", strconv.FormatUint(seed, 10))
		_, _ = buf.WriteTo(w)
	}
}

// errorStatus maps a pipeline error to an HTTP status: invalid parameters
// are the caller's fault, anything else is ours.
func errorStatus(err error) int {
	if ferrors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// requestParams overlays query parameters on the server defaults.
func (s *server) requestParams(r *http.Request) (grid.Params, uint64, error) {
	q := r.URL.Query()
	p := s.defaults

	if v := q.Get("size"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, 0, ferrors.New(ferrors.ErrCodeInvalidParams, "invalid size %q", v)
		}
		p.Size = f
	}
	for name, dst := range map[string]*int{
		"rate":  &p.ProductionRate,
		"nodes": &p.NodeCount,
		"sinks": &p.SinkCount,
	} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p, 0, ferrors.New(ferrors.ErrCodeInvalidParams, "invalid %s %q", name, v)
			}
			*dst = n
		}
	}

	seed := uint64(s.now().UnixNano())
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return p, 0, ferrors.New(ferrors.ErrCodeInvalidParams, "invalid seed %q", v)
		}
		seed = n
	}

	return p, seed, p.Validate()
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

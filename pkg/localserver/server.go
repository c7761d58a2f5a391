package localserver

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/routes"
)

var tag = gwlog.NewTag("localserver", gwlog.LevelInfo)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":80".
	Addr string
	// Table is the route table every registered endpoint dispatches
	// against.
	Table *routes.Table
	// ReadTimeout/WriteTimeout bound one request's lifecycle.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server wraps an http.Server exposing a routes.Table through a single
// gorilla/mux router, built once at construction with one handler
// registered per route-table entry.
type Server struct {
	httpServer *http.Server
}

// New builds a Server from cfg, registering every route in cfg.Table
// plus the superseded firmware's "/" redirect to the system-info endpoint.
func New(cfg Config) *Server {
	router := mux.NewRouter()
	router.Use(handlers.CompressHandler)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, routes.SystemInfoPath, http.StatusFound)
	}).Methods(http.MethodGet)

	for _, route := range cfg.Table.Routes() {
		route := route
		router.HandleFunc(route.Path, func(w http.ResponseWriter, r *http.Request) {
			serveRoute(w, r, route)
		}).Methods(route.Verb)
	}

	loggedRouter := handlers.LoggingHandler(logWriter{}, router)

	return &Server{httpServer: &http.Server{
		Addr:         cfg.Addr,
		Handler:      loggedRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}}
}

func serveRoute(w http.ResponseWriter, r *http.Request, route routes.Route) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}

	resp := route.Handler(r.Context(), routes.Request{
		Path:  route.Path,
		Verb:  route.Verb,
		Query: query,
		Body:  body,
	})

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// Run starts serving until ctx is cancelled, then gracefully shuts down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		gwlog.Infof(tag, "listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// logWriter adapts gwlog to the io.Writer handlers.LoggingHandler wants
// for its Apache-style access log lines.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	gwlog.Infof(tag, "%s", string(p))
	return len(p), nil
}

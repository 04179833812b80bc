package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/germanamz/promptcfg/pkg/catalog"
)

const maxRequestBytes = 1 << 20

// ModelLister supplies the catalog served by GET /v1/models.
type ModelLister interface {
	Models(ctx context.Context) ([]catalog.Model, error)
}

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	Models ModelLister // Optional; /v1/models answers 503 without it.

	// AllowedOrigins are browser origins such as "http://localhost:5173".
	// Empty allows any origin for plain HTTP and same-origin only for the
	// WebSocket endpoint.
	AllowedOrigins []string
}

// Server exposes Render to a browser host.
type Server struct {
	router  chi.Router
	handler http.Handler
	log     *slog.Logger
	models  ModelLister
	origins []string
}

// New builds the routes.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		router:  chi.NewRouter(),
		log:     log,
		models:  opts.Models,
		origins: originHosts(opts.AllowedOrigins),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(log))
	s.router.Use(middleware.Recoverer)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/payloads", s.handlePayloads)
		r.Get("/models", s.handleModels)
		r.Get("/ws", s.handleWS)
	})

	s.handler = cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.router)

	return s
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("preview: listen: %w", err)
	}

	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.log.InfoContext(ctx, "preview server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview: shutdown: %w", err)
	}

	s.log.InfoContext(ctx, "preview server stopped")

	return nil
}

func (s *Server) handlePayloads(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	resp, err := Render(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if s.models == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("catalog not configured"))
		return
	}

	models, err := s.models.Models(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "list models", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	q := r.URL.Query()
	models = catalog.Search(models, q.Get("q"), q["provider"]...)

	writeJSON(w, http.StatusOK, map[string]any{
		"data":      models,
		"providers": catalog.GroupByProvider(models),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		s.log.WarnContext(r.Context(), "websocket accept", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	conn.SetReadLimit(maxRequestBytes)
	ctx := r.Context()

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				s.log.DebugContext(ctx, "websocket read", "error", err)
			}
			return
		}

		out := s.renderFrame(typ, data)

		frame, err := json.Marshal(out)
		if err != nil {
			s.log.ErrorContext(ctx, "websocket encode", "error", err)
			return
		}

		if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
			s.log.DebugContext(ctx, "websocket write", "error", err)
			return
		}
	}
}

func (s *Server) renderFrame(typ websocket.MessageType, data []byte) any {
	if typ != websocket.MessageText {
		return errorBody{Error: "expected a text frame"}
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorBody{Error: fmt.Sprintf("decode request: %v", err)}
	}

	resp, err := Render(req)
	if err != nil {
		return errorBody{Error: err.Error()}
	}

	return resp
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// originHosts converts origins to the host patterns the WebSocket handshake
// matches against.
func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			hosts = append(hosts, o)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

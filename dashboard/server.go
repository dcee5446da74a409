// Package dashboard serves the coraldeck HTTP API and couples it to
// the terminal UI: incoming requests mutate the ui.Manager, trigger a
// redraw, and append applied samples to the telemetry store.
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/coraldeck/display/ui"
	"gitlab.com/tinyland/lab/coraldeck/protocol"
	"gitlab.com/tinyland/lab/coraldeck/telemetry"
)

// Server handles the dashboard HTTP API.
type Server struct {
	manager *ui.Manager
	store   *telemetry.Store
	logger  *slog.Logger
	logPath string

	// redraw is invoked after every UI mutation, before the handler
	// returns. Wired to the Bubbletea program's Send.
	redraw func()

	mu          sync.Mutex
	lastPush    time.Time
	contactLost bool
}

// NewServer creates a Server. store may be nil to disable persistence,
// logPath may be empty to disable /api/logs, redraw may be nil when no
// UI loop is attached (tests).
func NewServer(manager *ui.Manager, store *telemetry.Store, logger *slog.Logger, logPath string, redraw func()) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if redraw == nil {
		redraw = func() {}
	}
	return &Server{
		manager:  manager,
		store:    store,
		logger:   logger,
		logPath:  logPath,
		redraw:   redraw,
		lastPush: time.Now(),
	}
}

// Handler returns the API routes wrapped in the CORS and recovery
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/config", s.jsonHandler(s.handleConfig))
	mux.HandleFunc("POST /api/push", s.jsonHandler(s.handlePush))
	mux.HandleFunc("POST /api/message", s.jsonHandler(s.handleMessage))
	mux.HandleFunc("GET /api/logs", s.handleLogs)
	return s.recover(s.cors(mux))
}

// cors applies a permissive CORS policy so non-default agents can push
// from a browser context.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")
		h.Set("Access-Control-Expose-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recover converts handler panics into 500 {error} responses.
func (s *Server) recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, fmt.Sprintf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// jsonHandler enforces the JSON content type on POST bodies.
func (s *Server) jsonHandler(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		handler(w, r)
	}
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var req protocol.ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}

	tree, err := s.manager.Build(req.Widgets, req.Palette, req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("layout configured", "agent", r.UserAgent(), "widgets", len(tree))
	s.redraw()
	writeJSON(w, http.StatusOK, protocol.ConfigResponse{Tree: tree})
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var req protocol.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pushed := s.manager.Push(req.Data, req.Title)
	s.markContact()
	s.persist(r, req.Data, pushed)
	s.redraw()
	writeJSON(w, http.StatusOK, protocol.PushResponse{Pushed: pushed})
}

// persist appends the applied readings to the telemetry store.
// Persistence failures are logged, never surfaced to the agent.
func (s *Server) persist(r *http.Request, data map[string]protocol.Reading, pushed []string) {
	if s.store == nil {
		return
	}
	now := time.Now().UTC()
	for _, identifier := range pushed {
		reading := data[identifier]
		err := s.store.Record(r.Context(), telemetry.Sample{
			Timestamp:  now,
			Identifier: identifier,
			Quotient:   reading.Quotient(),
			Value:      reading.RawValue(),
			Total:      reading.RawTotal(),
		})
		if err != nil {
			s.logger.Error("persist sample", "identifier", identifier, "error", err)
		}
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req protocol.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Message == "" {
		s.manager.HideMessage()
	} else {
		width, height := 0.0, 0.0
		if req.Width != nil {
			width = *req.Width
		}
		if req.Height != nil {
			height = *req.Height
		}
		s.manager.ShowMessage(req.Title, req.Message, width, height, req.Type)
	}

	s.redraw()
	writeJSON(w, http.StatusOK, protocol.MessageResponse{Message: req.Message})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if s.logPath == "" {
		writeError(w, http.StatusNotFound, "no log file configured")
		return
	}
	data, err := os.ReadFile(s.logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "log file not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, protocol.ErrorResponse{Error: msg})
}

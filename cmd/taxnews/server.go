package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Server is the HTTP API layer. It owns transport concerns only
// (routing, serialization, CORS, headers); all aggregation logic lives
// behind the cache manager and the registry.
type Server struct {
	router   *mux.Router
	cache    *CacheManager
	registry *SourceRegistry
	httpSrv  *http.Server

	wsUpgrader websocket.Upgrader
	wsMutex    sync.Mutex
	wsClients  map[*websocket.Conn]bool
}

// newsResponse is the wire shape for snapshot-carrying endpoints
type newsResponse struct {
	Items       []NewsItem `json:"items"`
	GeneratedAt time.Time  `json:"generatedAt"`
	Count       int        `json:"count"`
}

// NewServer creates the API server and registers its routes
func NewServer(cache *CacheManager, registry *SourceRegistry) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		cache:    cache,
		registry: registry,
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		wsClients: make(map[*websocket.Conn]bool),
	}

	s.router.Use(s.recoveryMiddleware, loggingMiddleware, corsMiddleware, securityHeadersMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/news", s.handleGetNews).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/news/refresh", s.handleRefreshNews).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sources", s.handleGetSources).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/ws", s.handleWebsocket)

	return s
}

// Start runs the HTTP server until Shutdown is called
func (s *Server) Start(port int) error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	Logger().Info("API server listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server and closes websocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsMutex.Lock()
	for conn := range s.wsClients {
		conn.Close()
	}
	s.wsClients = make(map[*websocket.Conn]bool)
	s.wsMutex.Unlock()

	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// handleGetNews serves the merged snapshot, lazily refreshing an empty
// or stale cache.
func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Get(r.Context())
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, fmt.Sprintf("news unavailable: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, newsResponse{
		Items:       snap.Items,
		GeneratedAt: snap.GeneratedAt,
		Count:       len(snap.Items),
	})
}

// handleRefreshNews forces a refresh, joining one already in flight
func (s *Server) handleRefreshNews(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.ForceRefresh(r.Context())
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, fmt.Sprintf("refresh failed: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, newsResponse{
		Items:       snap.Items,
		GeneratedAt: snap.GeneratedAt,
		Count:       len(snap.Items),
	})
}

// handleGetSources lists the configured source descriptors
func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"sources": s.registry.List(),
		"count":   s.registry.Len(),
	})
}

// handleStatus reports runtime statistics
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, appState.Report())
}

// handleMetrics reports process metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, collectMetrics())
}

// handleHealth is a liveness probe
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.cache.Current() == nil {
		status = "warming"
	}
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": AppVersion,
	})
}

// handleWebsocket registers a client for refresh notifications
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger().Warning("websocket upgrade failed: %v", err)
		return
	}

	s.wsMutex.Lock()
	s.wsClients[conn] = true
	s.wsMutex.Unlock()

	// Reader loop only detects disconnect; clients never send payloads
	go func() {
		defer func() {
			s.wsMutex.Lock()
			delete(s.wsClients, conn)
			s.wsMutex.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastRefresh pushes a refresh notification to connected clients.
// Wired as the cache manager's update handler.
func (s *Server) BroadcastRefresh(snap *Snapshot) {
	payload := map[string]interface{}{
		"event":       "refresh",
		"generatedAt": snap.GeneratedAt,
		"itemCount":   len(snap.Items),
	}

	s.wsMutex.Lock()
	defer s.wsMutex.Unlock()
	for conn := range s.wsClients {
		if err := conn.WriteJSON(payload); err != nil {
			conn.Close()
			delete(s.wsClients, conn)
		}
	}
}

// recoveryMiddleware keeps a panicking handler from killing the process
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				Logger().Error("PANIC in handler %s: %v", r.URL.Path, rec)
				respondWithError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs one line per request
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		Logger().Debug("%s %s from %s in %s", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start).Round(time.Millisecond))
	})
}

// corsMiddleware allows browser clients from any origin
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware sets baseline response headers
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// respondWithJSON writes a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		Logger().Error("Failed to encode response: %v", err)
	}
}

// respondWithError writes a JSON error body
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

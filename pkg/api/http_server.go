package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"dsbench/pkg/common"
	"dsbench/pkg/engine"
	"dsbench/pkg/render"
)

type Server struct {
	engine *engine.Engine
	mux    *http.ServeMux

	mu     sync.Mutex
	srv    *http.Server
	closed bool
}

func NewServer(e *engine.Engine) *Server {
	s := &Server{engine: e, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/ds", s.handleDataset)
	s.mux.HandleFunc("/api/ds.json", s.handleDatasetJSON)
	s.mux.HandleFunc("/api/bench", s.handleBench)
	s.mux.HandleFunc("/api/info", s.handleInfo)
	s.mux.HandleFunc("/api/hello", s.handleHello)
	s.mux.HandleFunc("/api/stats", s.handleStats)
	s.mux.HandleFunc("/api/lookup", s.handleLookup)
	s.mux.Handle("/metrics", newMetricsHandler(e))
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.srv = srv
	s.mu.Unlock()

	log.Printf("[API] Server listening on %s...", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a running server. A server shut down before Start never starts.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	log.Printf("[API] Shutting down")
	return srv.Shutdown(ctx)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := render.Dataset(w, s.engine.Store()); err != nil {
		log.Printf("[API] Write dataset: %v", err)
	}
}

func (s *Server) handleDatasetJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.engine.Store().Snapshot())
}

func (s *Server) handleBench(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	res, err := s.engine.Bench()

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(res)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	render.Bench(w, res, err)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	info := s.engine.Info()

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	render.Info(w, info)
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	count := 1
	if c := r.URL.Query().Get("count"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 || n > render.MaxGreetCount {
			http.Error(w, fmt.Sprintf("Invalid count: want 0..%d", render.MaxGreetCount), http.StatusBadRequest)
			return
		}
		count = n
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	render.Hello(w, r.URL.Query().Get("name"), count)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	stats := s.engine.Store().Stats()
	mem := s.engine.Memory()
	stats["memory_used_bytes"] = mem.UsedBytes
	stats["memory_limit_bytes"] = mem.LimitBytes
	stats["memory_refused"] = mem.Refused
	json.NewEncoder(w).Encode(stats)
}

// handleLookup searches one structure. sequence, hash and tree take
// ?value=; sparse takes ?key= and returns the value stored there.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	q := r.URL.Query()

	kind, err := common.ParseKind(q.Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := map[string]interface{}{"kind": kind.String()}
	start := time.Now()
	if kind == common.KindSparse {
		key, err := strconv.ParseUint(q.Get("key"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid key", http.StatusBadRequest)
			return
		}
		v, found := s.engine.Store().At(key)
		resp["key"] = key
		resp["found"] = found
		if found {
			resp["value"] = v
		}
	} else {
		v, err := strconv.ParseInt(q.Get("value"), 0, 64)
		if err != nil {
			http.Error(w, "Invalid value", http.StatusBadRequest)
			return
		}
		found, err := s.engine.Store().Contains(kind, v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp["value"] = v
		resp["found"] = found
	}
	resp["latency_ns"] = time.Since(start).Nanoseconds()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

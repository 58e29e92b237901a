package server

import (
	"encoding/json"
	"net/http"

	"github.com/apex/log"

	"github.com/mingj7235/fc-strategy-sub001/internal/cache"
	"github.com/mingj7235/fc-strategy-sub001/internal/config"
	"github.com/mingj7235/fc-strategy-sub001/internal/fcapi"
	"github.com/mingj7235/fc-strategy-sub001/internal/view"
)

type Server struct {
	cfg   config.Config
	fetch *cache.Fetcher
	store cache.Store
	api   *fcapi.Client
	views *view.Registry
}

func New(cfg config.Config, fetcher *cache.Fetcher, store cache.Store, api *fcapi.Client) *Server {
	return &Server{
		cfg:   cfg,
		fetch: fetcher,
		store: store,
		api:   api,
		views: view.NewRegistry(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /api/pages/match/{matchid}", s.handleMatchPage)
	mux.HandleFunc("GET /api/pages/rankings", s.handleRankingsPage)
	mux.HandleFunc("GET /api/pages/player/{ouid}", s.handlePlayerPage)
	mux.HandleFunc("POST /purge", s.handlePurge)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warnf("response encode failed")
	}
}

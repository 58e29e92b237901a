package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mingj7235/fc-strategy-sub001/internal/cache"
	"github.com/mingj7235/fc-strategy-sub001/internal/fcapi"
	"github.com/mingj7235/fc-strategy-sub001/internal/page"
	"github.com/mingj7235/fc-strategy-sub001/internal/view"
)

type pageResponse struct {
	Status      view.Status                `json:"status"`
	Data        map[string]json.RawMessage `json:"data,omitempty"`
	Error       string                     `json:"error,omitempty"`
	RefreshedAt time.Time                  `json:"refreshed_at"`
}

func (s *Server) handleMatchPage(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchid")
	if matchID == "" {
		http.Error(w, "matchid required", http.StatusBadRequest)
		return
	}

	ttl := s.cfg.MatchTTL()
	set := &page.RequestSet{}
	set.Add("detail", s.cached(cache.MatchKey(matchID, "detail"), ttl, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.MatchDetail(ctx, matchID)
	}))
	set.Add("analysis", s.cached(cache.MatchKey(matchID, "analysis"), ttl, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.MatchAnalysis(ctx, matchID)
	}))
	set.Add("heatmap", s.cached(cache.MatchKey(matchID, "heatmap"), ttl, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.MatchHeatmap(ctx, matchID)
	}))

	s.renderPage(w, r, cache.MatchKey(matchID, "page"), set)
}

func (s *Server) handleRankingsPage(w http.ResponseWriter, r *http.Request) {
	p, err := parseRankingsParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	set := &page.RequestSet{}
	set.Add("rankings", s.cached(cache.RankingsKey(p.Ouid, p.Matchtype, p.Limit), s.cfg.RankingTTL(), func(ctx context.Context) (json.RawMessage, error) {
		return s.api.PowerRankings(ctx, p.Ouid, p.Matchtype, p.Limit)
	}))
	set.Add("tier", s.cached(cache.PlayerKey(p.Ouid, p.Matchtype, "tier"), s.cfg.PlayerTTL(), func(ctx context.Context) (json.RawMessage, error) {
		return s.api.TierInfo(ctx, p.Ouid, p.Matchtype)
	}))

	s.renderPage(w, r, cache.RankingsKey(p.Ouid, p.Matchtype, p.Limit), set)
}

func (s *Server) handlePlayerPage(w http.ResponseWriter, r *http.Request) {
	p, err := parsePlayerParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ttl := s.cfg.PlayerTTL()
	set := &page.RequestSet{}
	set.Add("tier", s.cached(cache.PlayerKey(p.Ouid, p.Matchtype, "tier"), ttl, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.TierInfo(ctx, p.Ouid, p.Matchtype)
	}))
	set.Add("formcycle", s.cached(cache.PlayerKey(p.Ouid, p.Matchtype, "formcycle"), ttl, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.FormCycle(ctx, p.Ouid, p.Matchtype)
	}))
	for _, kind := range []string{fcapi.BreakdownAssist, fcapi.BreakdownShot, fcapi.BreakdownPass, fcapi.BreakdownHeading} {
		set.Add(kind, s.cached(cache.PlayerKey(p.Ouid, p.Matchtype, kind), ttl, func(ctx context.Context) (json.RawMessage, error) {
			return s.api.Breakdown(ctx, p.Ouid, p.Matchtype, kind)
		}))
	}

	s.renderPage(w, r, cache.PlayerKey(p.Ouid, p.Matchtype, "page"), set)
}

// cached binds a fetch function to a cache key and TTL.
func (s *Server) cached(key string, ttl time.Duration, produce func(context.Context) (json.RawMessage, error)) page.FetchFunc {
	return func(ctx context.Context) (json.RawMessage, error) {
		b, err := s.fetch.GetOrFetch(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
			return produce(ctx)
		})
		if err != nil {
			return nil, err
		}
		return json.RawMessage(b), nil
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, viewKey string, set *page.RequestSet) {
	v := s.views.Get(viewKey)
	snap := v.Refresh(r.Context(), set)

	resp := pageResponse{
		Status:      snap.Status,
		Data:        snap.Data,
		Error:       snap.ErrorMessage,
		RefreshedAt: snap.RefreshedAt,
	}
	if snap.Status != view.StatusReady {
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/apex/log"

	"github.com/mingj7235/fc-strategy-sub001/internal/cache"
	"github.com/mingj7235/fc-strategy-sub001/internal/fcapi"
)

type purgePayload struct {
	MatchID   string `json:"matchid"`
	Ouid      string `json:"ouid"`
	Matchtype string `json:"matchtype"`
	Limit     int    `json:"limit"`
}

// handlePurge drops the cached entries for a match or an owner so the next
// page load refetches. Entries that do not exist are skipped silently.
func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	if r.Body == nil {
		http.Error(w, "body required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var payload purgePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	payload.MatchID = strings.TrimSpace(payload.MatchID)
	payload.Ouid = strings.TrimSpace(payload.Ouid)
	if payload.MatchID == "" && payload.Ouid == "" {
		http.Error(w, "matchid or ouid required", http.StatusBadRequest)
		return
	}

	keys := purgeKeys(payload)
	for _, key := range keys {
		if err := s.store.Delete(r.Context(), key); err != nil && !errors.Is(err, cache.ErrNotFound) {
			log.WithError(err).Errorf("purge failed for %s", key)
			http.Error(w, "purge failed", http.StatusBadGateway)
			return
		}
	}

	log.Infof("purged %d cache entries", len(keys))
	w.WriteHeader(http.StatusNoContent)
}

func purgeKeys(p purgePayload) []string {
	var keys []string
	if p.MatchID != "" {
		for _, part := range []string{"detail", "analysis", "heatmap"} {
			keys = append(keys, cache.MatchKey(p.MatchID, part))
		}
	}
	if p.Ouid != "" {
		matchtype := p.Matchtype
		if matchtype == "" {
			matchtype = defaultMatchtype
		}
		parts := []string{"tier", "formcycle", fcapi.BreakdownAssist, fcapi.BreakdownShot, fcapi.BreakdownPass, fcapi.BreakdownHeading}
		for _, part := range parts {
			keys = append(keys, cache.PlayerKey(p.Ouid, matchtype, part))
		}
		limit := p.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		keys = append(keys, cache.RankingsKey(p.Ouid, matchtype, limit))
	}
	return keys
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultMatchtype = "50"
	defaultLimit     = 20
	maxLimit         = 100
)

type rankingsParams struct {
	Ouid      string
	Matchtype string
	Limit     int
}

type playerParams struct {
	Ouid      string
	Matchtype string
}

func parseRankingsParams(r *http.Request) (rankingsParams, error) {
	ouid := strings.TrimSpace(r.URL.Query().Get("ouid"))
	if ouid == "" {
		return rankingsParams{}, errors.New("ouid required")
	}
	matchtype, err := parseMatchtype(r.URL.Query().Get("matchtype"))
	if err != nil {
		return rankingsParams{}, err
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		return rankingsParams{}, err
	}
	return rankingsParams{Ouid: ouid, Matchtype: matchtype, Limit: limit}, nil
}

func parsePlayerParams(r *http.Request) (playerParams, error) {
	ouid := strings.TrimSpace(r.PathValue("ouid"))
	if ouid == "" {
		return playerParams{}, errors.New("ouid required")
	}
	matchtype, err := parseMatchtype(r.URL.Query().Get("matchtype"))
	if err != nil {
		return playerParams{}, err
	}
	return playerParams{Ouid: ouid, Matchtype: matchtype}, nil
}

// parseMatchtype accepts the numeric match type codes used by the stats
// API ("50" official, "52" manager mode, etc).
func parseMatchtype(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultMatchtype, nil
	}
	if _, err := strconv.Atoi(v); err != nil {
		return "", fmt.Errorf("invalid matchtype %q", v)
	}
	return v, nil
}

func parseLimit(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}

package cache

import "strconv"

// Key builders. Every parameter that affects the upstream response must be
// part of the key.

func MatchKey(matchID, part string) string {
	return "match:" + matchID + ":" + part
}

func RankingsKey(ouid, matchtype string, limit int) string {
	return "rankings:" + ouid + ":" + matchtype + ":" + strconv.Itoa(limit)
}

func PlayerKey(ouid, matchtype, part string) string {
	return "player:" + ouid + ":" + matchtype + ":" + part
}

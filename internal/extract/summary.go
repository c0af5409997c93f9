package extract

import (
	"strings"
	"time"

	"match-overlay-service/internal/domain"
	"match-overlay-service/internal/timeutil"
	"match-overlay-service/internal/upstream"
)

// Fallback labels when no strategy can name the sides.
const (
	fallbackHomeName    = "Home"
	fallbackAwayName    = "Away"
	fallbackCompetition = "Sport"
)

// nameStrategy tries to pull home/away names out of one known raw shape. The
// table is ordered; providers mix shapes within a single response, so the order
// must not change without care.
type nameStrategy struct {
	name string
	fn   func(upstream.RawMatch) (home, away string, ok bool)
}

var nameStrategies = []nameStrategy{
	{"orig-teams", namesFromOrigTeams},
	{"game-title", namesFromGameTitle},
	{"explicit-fields", namesFromExplicitFields},
	{"participants", namesFromParticipants},
}

// TeamNames resolves the home and away display names for a raw record, falling
// back to fixed labels when every strategy misses.
func TeamNames(m upstream.RawMatch) (home, away string) {
	for _, strat := range nameStrategies {
		if h, a, ok := strat.fn(m); ok {
			return h, a
		}
	}
	return fallbackHomeName, fallbackAwayName
}

// MatchID prefers the universal id, which is stable across provider
// migrations, over the provider-local numeric id.
func MatchID(m upstream.RawMatch) string {
	if id := stringifyField(m, "universal_id", "universalId"); id != "" {
		return id
	}
	return stringifyField(m, "id", "game_id", "gameId")
}

// HasID reports whether any of the record's id fields equals the given id as a
// case-normalized string.
func HasID(m upstream.RawMatch, id string) bool {
	if id == "" {
		return false
	}
	for _, key := range []string{"universal_id", "universalId", "id", "game_id", "gameId"} {
		if v := stringify(m[key]); v != "" && strings.EqualFold(v, id) {
			return true
		}
	}
	return false
}

// Competition resolves a display name for the competition or sport.
func Competition(m upstream.RawMatch) string {
	if c := stringField(m, "sport", "league", "competition"); c != "" {
		return c
	}
	return fallbackCompetition
}

// RawDate returns the record's unparsed kickoff string, used both for kickoff
// normalization and for the today-filter prefix check.
func RawDate(m upstream.RawMatch) string {
	return stringField(m, "when", "date", "start_time", "kickoff")
}

// Summary normalizes one raw record into a directory-list item.
func Summary(m upstream.RawMatch, hourOffset int, now func() time.Time) domain.MatchSummary {
	home, away := TeamNames(m)
	return domain.MatchSummary{
		ID:          MatchID(m),
		HomeName:    home,
		AwayName:    away,
		Competition: Competition(m),
		KickoffTime: timeutil.ParseKickoff(RawDate(m), hourOffset, now),
	}
}

// SportDenied reports whether the record's sport or league matches any denylist
// term, case-insensitive substring. Providers are inconsistent about which
// field carries the category, so both are checked.
func SportDenied(m upstream.RawMatch, denylist []string) bool {
	for _, key := range []string{"sport", "league"} {
		category := strings.ToLower(stringField(m, key))
		if category == "" {
			continue
		}
		for _, term := range denylist {
			term = strings.ToLower(strings.TrimSpace(term))
			if term != "" && strings.Contains(category, term) {
				return true
			}
		}
	}
	return false
}

func namesFromOrigTeams(m upstream.RawMatch) (string, string, bool) {
	return splitVersus(stringField(m, "orig_teams", "origTeams"))
}

func namesFromGameTitle(m upstream.RawMatch) (string, string, bool) {
	return splitVersus(stringField(m, "game", "title", "name"))
}

func namesFromExplicitFields(m upstream.RawMatch) (string, string, bool) {
	home := stringField(m, "home_team", "homeTeam", "home")
	away := stringField(m, "away_team", "awayTeam", "away")
	if home == "" || away == "" {
		return "", "", false
	}
	return home, away, true
}

func namesFromParticipants(m upstream.RawMatch) (string, string, bool) {
	list, ok := listField(m, "participants", "teams")
	if !ok || len(list) < 2 {
		return "", "", false
	}
	home := participantName(list[0])
	away := participantName(list[1])
	if home == "" || away == "" {
		return "", "", false
	}
	return home, away, true
}

func participantName(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		return stringify(val["name"])
	}
	return ""
}

// splitVersus splits a "<home> vs <away>" title. Trailing comma-delimited
// metadata on the away side ("Arsenal vs Chelsea, Matchday 21") is stripped.
func splitVersus(title string) (string, string, bool) {
	if title == "" {
		return "", "", false
	}
	idx := strings.Index(strings.ToLower(title), " vs ")
	if idx < 0 {
		return "", "", false
	}
	home := strings.TrimSpace(title[:idx])
	away := strings.TrimSpace(title[idx+len(" vs "):])
	if comma := strings.Index(away, ","); comma >= 0 {
		away = strings.TrimSpace(away[:comma])
	}
	if home == "" || away == "" {
		return "", "", false
	}
	return home, away, true
}

package extract

import (
	"fmt"
	"sort"
	"strings"

	"match-overlay-service/internal/domain"
	"match-overlay-service/internal/state"
	"match-overlay-service/internal/upstream"
)

// ScoreDelta derives the poll-merge delta for a resolved raw record: names,
// score, status, crests, lineups and the recent-events ticker. Fields the
// record does not carry stay nil so the previous values survive the merge;
// crests and lineups are the exceptions and are always set, clearing leftovers
// from a previously tracked match.
func ScoreDelta(m upstream.RawMatch) state.Delta {
	var d state.Delta

	home, away := TeamNames(m)
	d.HomeName = state.String(home)
	d.AwayName = state.String(away)

	if homeScore, awayScore, ok := scoreValues(m); ok {
		d.HomeScore = state.Score(homeScore)
		d.AwayScore = state.Score(awayScore)
	}

	d.StatusLabel = state.String(statusLabel(m))

	if minute := stringifyField(m, "timer", "minute", "game_time"); minute != "" {
		d.GameTime = state.String(minute)
	}

	homeCrest := stringField(m, "home_badge", "home_crest", "home_logo")
	awayCrest := stringField(m, "away_badge", "away_crest", "away_logo")
	d.HomeCrestURL = state.String(homeCrest)
	d.AwayCrestURL = state.String(awayCrest)

	homeLineup, awayLineup := lineups(m)
	d.HomeLineup = &homeLineup
	d.AwayLineup = &awayLineup

	if events, found := collectEvents(m); found {
		d.RecentEvents = &events
	}

	return d
}

// scoreValues resolves the display scores. Structured full-time objects win
// over the flat "<home> - <away>" string; nulls default to 0. A record with no
// score field at all reports !ok so a transient fetch never resets the display.
func scoreValues(m upstream.RawMatch) (home, away string, ok bool) {
	for _, key := range []string{"scores", "score", "result"} {
		if obj, isMap := mapValue(m[key]); isMap {
			for _, ftKey := range []string{"ft", "fulltime", "full_time", "current"} {
				if inner, isInner := mapValue(obj[ftKey]); isInner {
					obj = inner
					break
				}
			}
			return scoreNumber(obj["home"]), scoreNumber(obj["away"]), true
		}
	}

	if raw := stringField(m, "score"); raw != "" {
		parts := strings.SplitN(raw, "-", 2)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
		}
	}
	return "", "", false
}

func scoreNumber(v any) string {
	if s := stringify(v); s != "" {
		return s
	}
	return "0"
}

// statusLabel maps the provider's status vocabulary onto the display one.
// Unknown labels pass through uppercased; a record with no status at all gets a
// sentinel based on whether a score is present.
func statusLabel(m upstream.RawMatch) string {
	raw := stringField(m, "status", "time_status", "state")
	if raw == "" {
		if _, _, ok := scoreValues(m); ok {
			return domain.StatusLive
		}
		return domain.StatusScheduled
	}

	switch strings.ToLower(raw) {
	case "live", "in progress", "inprogress", "playing", "1h", "2h", "1st half", "2nd half":
		return domain.StatusLive
	case "ht", "halftime", "half-time", "half time", "paused", "break":
		return domain.StatusHalftime
	case "finished", "ended", "ft", "final", "aet", "after extra time":
		return domain.StatusEnded
	case "ns", "not started", "scheduled", "upcoming":
		return domain.StatusScheduled
	default:
		return strings.ToUpper(raw)
	}
}

// lineups maps per-side lineup arrays to {number, name} pairs. Absence is the
// common case on free tiers and yields empty slices, never an error.
func lineups(m upstream.RawMatch) (home, away []domain.LineupPlayer) {
	home = []domain.LineupPlayer{}
	away = []domain.LineupPlayer{}

	if obj, ok := mapValue(m["lineups"]); ok {
		if list, isList := obj["home"].([]any); isList {
			home = lineupPlayers(list)
		}
		if list, isList := obj["away"].([]any); isList {
			away = lineupPlayers(list)
		}
		return home, away
	}

	if list, ok := listField(m, "home_lineup", "homeLineup"); ok {
		home = lineupPlayers(list)
	}
	if list, ok := listField(m, "away_lineup", "awayLineup"); ok {
		away = lineupPlayers(list)
	}
	return home, away
}

func lineupPlayers(list []any) []domain.LineupPlayer {
	players := make([]domain.LineupPlayer, 0, len(list))
	for _, entry := range list {
		obj, ok := mapValue(entry)
		if !ok {
			continue
		}
		name := stringify(obj["name"])
		if name == "" {
			name = stringify(obj["player"])
		}
		if name == "" {
			continue
		}
		players = append(players, domain.LineupPlayer{
			Number: stringify(obj["number"]),
			Name:   name,
		})
	}
	return players
}

// collectEvents gathers goal and card sub-records into the uniform ticker
// shape, sorted most-recent-first and truncated to the display cap. found is
// false when the record carries no event collections at all.
func collectEvents(m upstream.RawMatch) (events []domain.MatchEvent, found bool) {
	events = []domain.MatchEvent{}

	if list, ok := listField(m, "goals"); ok {
		found = true
		for _, entry := range list {
			if ev, ok := goalEvent(entry); ok {
				events = append(events, ev)
			}
		}
	}
	if list, ok := listField(m, "cards"); ok {
		found = true
		for _, entry := range list {
			if ev, ok := cardEvent(entry); ok {
				events = append(events, ev)
			}
		}
	}

	if !found {
		return nil, false
	}

	// Top 5 most recent, not first 5 emitted.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Minute > events[j].Minute
	})
	if len(events) > domain.MaxRecentEvents {
		events = events[:domain.MaxRecentEvents]
	}
	return events, true
}

func goalEvent(v any) (domain.MatchEvent, bool) {
	obj, ok := mapValue(v)
	if !ok {
		return domain.MatchEvent{}, false
	}
	minute, _ := intValue(obj["minute"])
	scorer := stringify(obj["scorer"])
	if scorer == "" {
		scorer = stringify(obj["player"])
	}
	if scorer == "" {
		scorer = "unknown"
	}
	return domain.MatchEvent{
		Minute: minute,
		Kind:   domain.EventGoal,
		Text:   fmt.Sprintf("%d' Goal by %s", minute, scorer),
	}, true
}

func cardEvent(v any) (domain.MatchEvent, bool) {
	obj, ok := mapValue(v)
	if !ok {
		return domain.MatchEvent{}, false
	}
	minute, _ := intValue(obj["minute"])
	player := stringify(obj["player"])
	if player == "" {
		player = "unknown"
	}
	color := strings.ToLower(stringify(obj["color"]))
	if color == "" {
		color = "yellow"
	}
	return domain.MatchEvent{
		Minute: minute,
		Kind:   domain.EventCard,
		Text:   fmt.Sprintf("%d' %s card for %s", minute, capitalize(color), player),
	}, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

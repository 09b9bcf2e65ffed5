// Package transcript derives per-move negotiation transcripts from the
// event log and owns the active-move selection policy: an external
// override wins outright, a manual pick sticks until cleared, and
// otherwise the view follows the most recently active move.
package transcript

import "github.com/rohan-g0re/stratdeck/internal/events"

// RoleCritic tags critic messages; every other role is one of the
// negotiator agents.
const RoleCritic = "critic"

// NegotiatorNames maps negotiator role tags to display names.
var NegotiatorNames = map[string]string{
	"D1": "Growth Strategist",
	"D2": "Operational Pragmatist",
	"D3": "Stakeholder Advocate",
}

// RoleName returns the display name for a role tag.
func RoleName(role string) string {
	if role == RoleCritic {
		return "Critic"
	}
	if name, ok := NegotiatorNames[role]; ok {
		return name
	}
	return role
}

// Entry is one transcript message for the active move. NewRound marks
// where a round divider belongs: the round changed relative to the
// previous entry of the filtered sequence.
type Entry struct {
	Role     string
	Content  string
	Round    int
	NewRound bool
}

// Selection resolves which move's transcript is shown. The zero value
// auto-follows the stream.
type Selection struct {
	external string
	manual   string
}

// SetExternal sets or clears the externally supplied override, which
// takes precedence over everything else while non-empty.
func (s *Selection) SetExternal(moveID string) {
	s.external = moveID
}

// Pick records a manual choice by the local viewer. It sticks until
// Clear, so the view stops chasing the newest move.
func (s *Selection) Pick(moveID string) {
	s.manual = moveID
}

// Clear drops the manual pick, returning to auto-follow.
func (s *Selection) Clear() {
	s.manual = ""
}

// Manual reports whether a sticky manual pick is in effect.
func (s *Selection) Manual() bool {
	return s.manual != ""
}

// Active returns the move whose transcript should be shown, or "" if
// no move has produced any rounds yet.
func (s *Selection) Active(log events.Log) string {
	if s.external != "" {
		return s.external
	}
	if s.manual != "" {
		return s.manual
	}
	return Latest(log)
}

// Latest returns the move referenced by the newest negotiation_round
// event, scanning from the end of the log.
func Latest(log events.Log) string {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].Kind == events.KindNegotiationRound {
			return log[i].Move
		}
	}
	return ""
}

// Messages returns the ordered transcript for one move: the message
// lists of its negotiation_round events concatenated in arrival order.
func Messages(log events.Log, moveID string) []Entry {
	var out []Entry
	for _, e := range log {
		if e.Kind != events.KindNegotiationRound || e.Move != moveID {
			continue
		}
		for _, m := range e.Messages {
			round := m.Round
			if round == 0 {
				round = e.Round
			}
			newRound := len(out) == 0 || out[len(out)-1].Round != round
			out = append(out, Entry{Role: m.Role, Content: m.Content, Round: round, NewRound: newRound})
		}
	}
	return out
}

// MoveIDs returns every move with any transcript, in first-seen order.
func MoveIDs(log events.Log) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range log {
		if e.Kind == events.KindNegotiationRound && !seen[e.Move] {
			seen[e.Move] = true
			ids = append(ids, e.Move)
		}
	}
	return ids
}

// Scores returns the final score per move, for selector badges.
func Scores(log events.Log) map[string]int {
	scores := make(map[string]int)
	for _, e := range log {
		if e.Kind == events.KindMoveScored && e.Score != nil {
			scores[e.Move] = *e.Score
		}
	}
	return scores
}

// CurrentRound returns the round of the newest entry, or 0 for an
// empty transcript.
func CurrentRound(entries []Entry) int {
	if len(entries) == 0 {
		return 0
	}
	return entries[len(entries)-1].Round
}

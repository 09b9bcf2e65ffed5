// Package leaderboard folds move lifecycle events into a ranked table
// of negotiated moves. The fold and the sort are pure; the position
// cache is the one intentionally stateful piece, because rank deltas
// are only meaningful relative to the last displayed snapshot.
package leaderboard

import (
	"sort"

	"github.com/rohan-g0re/stratdeck/internal/events"
)

// MoveStatus is the lifecycle state of a move on the leaderboard.
type MoveStatus string

const (
	StatusNegotiating MoveStatus = "negotiating"
	StatusScored      MoveStatus = "scored"
	StatusSkipped     MoveStatus = "skipped"
)

// MaxScore is the scoring ceiling: three agents, four metrics, ten
// points each.
const MaxScore = 120

const defaultMaxRounds = 3

// Move is one leaderboard entry. Created lazily on first reference,
// never removed.
type Move struct {
	ID           string
	Title        string
	Persona      string
	RiskLevel    string
	Status       MoveStatus
	CurrentRound int
	MaxRounds    int
	Score        *int
	Breakdown    map[string]map[string]any
}

// Reduce folds the event log into the known moves, in first-seen
// order. Static fields are first-write-wins; rounds never regress on
// duplicates.
func Reduce(log events.Log) []Move {
	byID := make(map[string]*Move)
	var order []string

	get := func(id string) *Move {
		if m, ok := byID[id]; ok {
			return m
		}
		m := &Move{ID: id, Title: id, RiskLevel: "unknown", Status: StatusNegotiating, MaxRounds: defaultMaxRounds}
		byID[id] = m
		order = append(order, id)
		return m
	}

	for _, e := range log {
		switch e.Kind {
		case events.KindMoveNegotiationStart:
			if _, seen := byID[e.Move]; seen {
				continue
			}
			m := get(e.Move)
			if e.Title != "" {
				m.Title = e.Title
			}
			if e.RiskLevel != "" {
				m.RiskLevel = e.RiskLevel
			}
			m.Persona = e.Persona
			if e.MaxRounds > 0 {
				m.MaxRounds = e.MaxRounds
			}

		case events.KindNegotiationRound:
			m := get(e.Move)
			if e.Round > m.CurrentRound {
				m.CurrentRound = e.Round
			}

		case events.KindMoveScored:
			if e.Score == nil {
				continue
			}
			m := get(e.Move)
			m.Status = StatusScored
			score := *e.Score
			m.Score = &score
			if e.Breakdown != nil {
				m.Breakdown = e.Breakdown
			}
			if e.Title != "" {
				m.Title = e.Title
			}

		case events.KindMoveSkipped:
			get(e.Move).Status = StatusSkipped
		}
	}

	moves := make([]Move, 0, len(order))
	for _, id := range order {
		moves = append(moves, *byID[id])
	}
	return moves
}

// Rank returns the derived display order: scored moves by descending
// score, then negotiating moves by descending current round, then
// skipped moves. Ties keep first-seen order.
func Rank(moves []Move) []Move {
	var scored, negotiating, skipped []Move
	for _, m := range moves {
		switch m.Status {
		case StatusScored:
			scored = append(scored, m)
		case StatusSkipped:
			skipped = append(skipped, m)
		default:
			negotiating = append(negotiating, m)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scoreOf(scored[i]) > scoreOf(scored[j])
	})
	sort.SliceStable(negotiating, func(i, j int) bool {
		return negotiating[i].CurrentRound > negotiating[j].CurrentRound
	})

	ranked := make([]Move, 0, len(moves))
	ranked = append(ranked, scored...)
	ranked = append(ranked, negotiating...)
	ranked = append(ranked, skipped...)
	return ranked
}

// ScoredCount returns how many ranked moves carry a final score.
func ScoredCount(moves []Move) int {
	n := 0
	for _, m := range moves {
		if m.Status == StatusScored {
			n++
		}
	}
	return n
}

// AverageScore returns the mean final score across scored moves, or 0
// if nothing is scored yet.
func AverageScore(moves []Move) int {
	sum, n := 0, 0
	for _, m := range moves {
		if m.Status == StatusScored && m.Score != nil {
			sum += *m.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

func scoreOf(m Move) int {
	if m.Score == nil {
		return 0
	}
	return *m.Score
}

// PositionCache remembers where each move ranked in the previously
// recorded snapshot so the view can show rank-change arrows.
type PositionCache struct {
	prev map[string]int
	cur  map[string]int
}

// NewPositionCache returns an empty cache: no move has a delta until
// two snapshots have been recorded.
func NewPositionCache() *PositionCache {
	return &PositionCache{}
}

// RecordPositions shifts the current snapshot into the previous slot
// and records the new ranking. Call once per rendered recomputation.
func (c *PositionCache) RecordPositions(ranked []Move) {
	c.prev = c.cur
	c.cur = make(map[string]int, len(ranked))
	for i, m := range ranked {
		c.cur[m.ID] = i
	}
}

// DeltaFor returns previousPosition - currentPosition for the move,
// positive when it climbed. known is false when the move has no
// position in either snapshot.
func (c *PositionCache) DeltaFor(moveID string) (delta int, known bool) {
	prev, okPrev := c.prev[moveID]
	cur, okCur := c.cur[moveID]
	if !okPrev || !okCur {
		return 0, false
	}
	return prev - cur, true
}

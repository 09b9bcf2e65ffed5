// Package events defines the closed vocabulary of pipeline stream
// events and the defensive decoder that turns raw SSE payloads into
// typed entries of the append-only event log.
package events

import "encoding/json"

// Event kinds recognized by the decoder. Anything else is dropped.
const (
	KindStageStart           = "stage_start"
	KindStageComplete        = "stage_complete"
	KindAgentComplete        = "agent_complete"
	KindMoveNegotiationStart = "move_negotiation_start"
	KindNegotiationRound     = "negotiation_round"
	KindMoveScored           = "move_scored"
	KindMoveSkipped          = "move_skipped"
	KindPipelineComplete     = "pipeline_complete"
	KindPipelineError        = "pipeline_error"
)

// SentinelAgentID stands in for agent_complete events that arrive
// without an agent id.
const SentinelAgentID = "unknown"

// Message is a single transcript message carried by a
// negotiation_round event.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Round   int    `json:"round"`
}

// Event is one decoded stream event. The kind determines which fields
// are meaningful; everything else is left at its zero value.
type Event struct {
	Kind       string                    `json:"event"`
	Stage      *int                      `json:"stage,omitempty"`
	AgentID    string                    `json:"agent_id,omitempty"`
	Persona    string                    `json:"persona,omitempty"`
	Move       string                    `json:"move,omitempty"`
	Title      string                    `json:"title,omitempty"`
	RiskLevel  string                    `json:"risk_level,omitempty"`
	MaxRounds  int                       `json:"max_rounds,omitempty"`
	Round      int                       `json:"round,omitempty"`
	Score      *int                      `json:"score,omitempty"`
	Breakdown  map[string]map[string]any `json:"breakdown,omitempty"`
	Messages   []Message                 `json:"messages,omitempty"`
	TotalMoves int                       `json:"total_moves,omitempty"`
}

// Log is the append-only, ordered sequence of observed events. All
// derived state is a pure function of a Log; consumers never mutate
// entries after appending.
type Log []Event

// Append returns the log extended with e. The original slice is not
// shared past its length, so earlier snapshots stay valid.
func (l Log) Append(e Event) Log {
	return append(l, e)
}

// Parse decodes a raw event payload. It returns ok=false for malformed
// JSON, unrecognized kinds, and events missing fields their kind
// requires; the stream must tolerate schema drift, so none of those
// are errors.
func Parse(data []byte) (Event, bool) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, false
	}

	switch e.Kind {
	case KindStageStart, KindStageComplete:
		if e.Stage == nil {
			return Event{}, false
		}
	case KindAgentComplete:
		if e.Stage == nil {
			return Event{}, false
		}
		if e.AgentID == "" {
			e.AgentID = SentinelAgentID
		}
	case KindMoveNegotiationStart, KindMoveSkipped:
		if e.Move == "" {
			return Event{}, false
		}
	case KindNegotiationRound:
		if e.Move == "" || e.Round <= 0 {
			return Event{}, false
		}
	case KindMoveScored:
		if e.Move == "" || e.Score == nil {
			return Event{}, false
		}
	case KindPipelineComplete, KindPipelineError:
		// No required fields.
	default:
		return Event{}, false
	}

	return e, true
}

// StageIndex returns the event's stage index, or -1 if it has none.
func (e Event) StageIndex() int {
	if e.Stage == nil {
		return -1
	}
	return *e.Stage
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Kind == KindPipelineComplete || e.Kind == KindPipelineError
}

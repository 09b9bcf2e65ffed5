// Package pipeline derives the four-stage pipeline model from the
// event log. Reduce is a pure fold: replaying the same log always
// yields the same stages, regardless of when the events arrived.
package pipeline

import (
	"fmt"
	"math"

	"github.com/rohan-g0re/stratdeck/internal/events"
)

// Status is the lifecycle state of a stage or an agent.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// NegotiationStage is the index of the stage whose move lifecycle
// events feed the leaderboard and transcripts.
const NegotiationStage = 3

// Progress nudges applied by move lifecycle events. Capped below 100
// so stage_complete stays the only path to a full bar.
const (
	nudgeCap       = 95
	nudgeMoveStart = 1
	nudgeRound     = 2
)

// Agent is a participant within a stage. Created on first reference,
// never removed.
type Agent struct {
	ID     string
	Name   string
	Status Status
}

// Document is display content attached to a stage, either announced by
// the stream or synthesized from the result snapshot. Immutable once
// appended.
type Document struct {
	ID      string
	Title   string
	Type    string
	Content string
}

// Stage is one of the four fixed pipeline stages.
type Stage struct {
	ID          string
	Name        string
	Description string
	Status      Status
	Progress    int
	AgentCount  int
	Agents      []Agent
	Documents   []Document
}

var stageConfig = [4]Stage{
	{ID: "stage0", Name: "Data Gathering", Description: "Synthesizing financial & news data", AgentCount: 2},
	{ID: "stage1", Name: "Inference", Description: "Deriving insights from raw data", AgentCount: 2},
	{ID: "stage2", Name: "Analysis", Description: "Generating strategic moves", AgentCount: 5},
	{ID: "stage3", Name: "Negotiation", Description: "Negotiation & scoring of strategic moves", AgentCount: 3},
}

// NewStages returns the four stages in their initial idle state.
func NewStages() []Stage {
	stages := make([]Stage, len(stageConfig))
	for i, cfg := range stageConfig {
		stages[i] = cfg
		stages[i].Status = StatusIdle
	}
	return stages
}

// Reduce folds the event log into the four stage records, applying the
// rules of each event kind in log order. Events referencing stages out
// of range are ignored.
func Reduce(log events.Log) []Stage {
	stages := NewStages()

	for _, e := range log {
		switch e.Kind {
		case events.KindStageStart:
			if s := stageAt(stages, e.StageIndex()); s != nil && !s.terminal() {
				s.Status = StatusRunning
				s.Progress = 0
			}

		case events.KindStageComplete:
			if s := stageAt(stages, e.StageIndex()); s != nil {
				s.Status = StatusDone
				s.Progress = 100
			}

		case events.KindAgentComplete:
			if s := stageAt(stages, e.StageIndex()); s != nil {
				name := e.Persona
				if name == "" {
					name = e.AgentID
				}
				s.upsertAgent(e.AgentID, name)
				s.recomputeProgress()
			}

		case events.KindMoveNegotiationStart:
			nudge(stages, nudgeMoveStart)

		case events.KindNegotiationRound:
			nudge(stages, nudgeRound)

		case events.KindMoveScored:
			if s := negotiation(stages); s != nil && e.Score != nil {
				nudge(stages, 0)
				s.upsertAgent(e.Move, fmt.Sprintf("%s (Score: %d/120)", e.Move, *e.Score))
			}

		case events.KindMoveSkipped:
			if s := negotiation(stages); s != nil {
				nudge(stages, 0)
				s.upsertAgent(e.Move, fmt.Sprintf("%s (Skipped)", e.Move))
			}

		case events.KindPipelineComplete:
			for i := range stages {
				if stages[i].Status == StatusRunning {
					stages[i].Status = StatusDone
					stages[i].Progress = 100
				}
			}

		case events.KindPipelineError:
			for i := range stages {
				if stages[i].Status == StatusRunning {
					// Progress stays frozen where it was.
					stages[i].Status = StatusError
				}
			}
		}
	}

	return stages
}

// OverallProgress combines the stage states into a single pipeline
// percentage: each done stage contributes an equal share, and the
// running stage contributes its fraction of one share.
func OverallProgress(stages []Stage) int {
	if len(stages) == 0 {
		return 0
	}
	share := 100.0 / float64(len(stages))
	total := 0.0
	for _, s := range stages {
		switch s.Status {
		case StatusDone:
			total += share
		case StatusRunning:
			total += float64(s.Progress) / 100 * share
		}
	}
	return int(math.Round(total))
}

func stageAt(stages []Stage, idx int) *Stage {
	if idx < 0 || idx >= len(stages) {
		return nil
	}
	return &stages[idx]
}

func negotiation(stages []Stage) *Stage {
	return stageAt(stages, NegotiationStage)
}

// nudge marks the negotiation stage running and bumps its progress,
// unless the stage already reached a terminal status.
func nudge(stages []Stage, increment int) {
	s := negotiation(stages)
	if s == nil || s.terminal() {
		return
	}
	s.Status = StatusRunning
	if p := s.Progress + increment; p < nudgeCap {
		s.Progress = p
	} else {
		s.Progress = nudgeCap
	}
}

func (s *Stage) terminal() bool {
	return s.Status == StatusDone || s.Status == StatusError
}

// upsertAgent adds the agent on first sight and marks it done.
// Re-observing an id is a no-op on the roster.
func (s *Stage) upsertAgent(id, name string) {
	if name == "" {
		name = "Agent"
	}
	for i := range s.Agents {
		if s.Agents[i].ID == id {
			s.Agents[i].Status = StatusDone
			return
		}
	}
	s.Agents = append(s.Agents, Agent{ID: id, Name: name, Status: StatusDone})
}

// recomputeProgress derives progress from the done-agent ratio. A zero
// declared count leaves progress untouched, and the recompute never
// lowers a value already raised by round nudges.
func (s *Stage) recomputeProgress() {
	if s.AgentCount <= 0 || s.Status == StatusError {
		return
	}
	done := 0
	for _, a := range s.Agents {
		if a.Status == StatusDone {
			done++
		}
	}
	p := int(math.Round(float64(done) / float64(s.AgentCount) * 100))
	if p > 100 {
		p = 100
	}
	if p > s.Progress {
		s.Progress = p
	}
}

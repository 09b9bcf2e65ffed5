package events

import "testing"

func TestParseValidEvents(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		kind string
	}{
		{"stage start", `{"event":"stage_start","stage":0}`, KindStageStart},
		{"stage zero is valid", `{"event":"stage_complete","stage":0}`, KindStageComplete},
		{"agent complete", `{"event":"agent_complete","stage":2,"agent_id":"a1","persona":"Quant"}`, KindAgentComplete},
		{"negotiation start", `{"event":"move_negotiation_start","move":"m1","title":"Buy the dip","risk_level":"high","max_rounds":3}`, KindMoveNegotiationStart},
		{"round", `{"event":"negotiation_round","move":"m1","round":2,"messages":[{"role":"D1","content":"hi","round":2}]}`, KindNegotiationRound},
		{"scored", `{"event":"move_scored","move":"m1","score":95}`, KindMoveScored},
		{"skipped", `{"event":"move_skipped","move":"m2"}`, KindMoveSkipped},
		{"complete", `{"event":"pipeline_complete"}`, KindPipelineComplete},
		{"error", `{"event":"pipeline_error"}`, KindPipelineError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := Parse([]byte(tc.raw))
			if !ok {
				t.Fatalf("Parse(%s) not ok", tc.raw)
			}
			if e.Kind != tc.kind {
				t.Errorf("kind = %q, want %q", e.Kind, tc.kind)
			}
		})
	}
}

func TestParseDropsBadEvents(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"event":`},
		{"unknown kind", `{"event":"heartbeat"}`},
		{"missing kind", `{"stage":1}`},
		{"stage start without stage", `{"event":"stage_start"}`},
		{"round without move", `{"event":"negotiation_round","round":1}`},
		{"round zero", `{"event":"negotiation_round","move":"m1","round":0}`},
		{"scored without score", `{"event":"move_scored","move":"m1"}`},
		{"skipped without move", `{"event":"move_skipped"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := Parse([]byte(tc.raw)); ok {
				t.Errorf("Parse(%s) ok, want dropped", tc.raw)
			}
		})
	}
}

func TestParseAgentCompleteSentinel(t *testing.T) {
	e, ok := Parse([]byte(`{"event":"agent_complete","stage":1}`))
	if !ok {
		t.Fatal("Parse not ok")
	}
	if e.AgentID != SentinelAgentID {
		t.Errorf("AgentID = %q, want sentinel %q", e.AgentID, SentinelAgentID)
	}
}

func TestParseZeroScoreIsValid(t *testing.T) {
	e, ok := Parse([]byte(`{"event":"move_scored","move":"m1","score":0}`))
	if !ok {
		t.Fatal("score 0 should parse")
	}
	if e.Score == nil || *e.Score != 0 {
		t.Errorf("Score = %v, want 0", e.Score)
	}
}

func TestAppendSnapshotStable(t *testing.T) {
	base := make(Log, 0, 4)
	base = base.Append(Event{Kind: KindPipelineComplete})
	snapshot := base

	base = base.Append(Event{Kind: KindPipelineError})

	if len(snapshot) != 1 {
		t.Fatalf("snapshot length changed to %d", len(snapshot))
	}
	if snapshot[0].Kind != KindPipelineComplete {
		t.Errorf("snapshot[0] = %q, want pipeline_complete", snapshot[0].Kind)
	}
	if len(base) != 2 {
		t.Errorf("log length = %d, want 2", len(base))
	}
}

func TestStageIndex(t *testing.T) {
	if got := (Event{}).StageIndex(); got != -1 {
		t.Errorf("StageIndex without stage = %d, want -1", got)
	}
	stage := 3
	if got := (Event{Stage: &stage}).StageIndex(); got != 3 {
		t.Errorf("StageIndex = %d, want 3", got)
	}
}

func TestTerminal(t *testing.T) {
	if !(Event{Kind: KindPipelineComplete}).Terminal() {
		t.Error("pipeline_complete should be terminal")
	}
	if !(Event{Kind: KindPipelineError}).Terminal() {
		t.Error("pipeline_error should be terminal")
	}
	if (Event{Kind: KindStageStart}).Terminal() {
		t.Error("stage_start should not be terminal")
	}
}

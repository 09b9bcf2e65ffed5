package transcript

import (
	"testing"

	"github.com/rohan-g0re/stratdeck/internal/events"
)

func round(move string, n int, msgs ...events.Message) events.Event {
	return events.Event{Kind: events.KindNegotiationRound, Move: move, Round: n, Messages: msgs}
}

func msg(role, content string, round int) events.Message {
	return events.Message{Role: role, Content: content, Round: round}
}

func TestActiveFollowsLatestRound(t *testing.T) {
	var s Selection
	log := events.Log{
		round("m1", 1, msg("D1", "a", 1)),
		round("m2", 1, msg("D2", "b", 1)),
	}
	if got := s.Active(log); got != "m2" {
		t.Errorf("Active = %q, want m2", got)
	}

	log = log.Append(round("m1", 2, msg("D1", "c", 2)))
	if got := s.Active(log); got != "m1" {
		t.Errorf("Active = %q, want m1 after its newer round", got)
	}
}

func TestActiveEmptyWithoutRounds(t *testing.T) {
	var s Selection
	log := events.Log{{Kind: events.KindMoveNegotiationStart, Move: "m1"}}
	if got := s.Active(log); got != "" {
		t.Errorf("Active = %q, want empty before any round", got)
	}
}

func TestManualPickSticks(t *testing.T) {
	var s Selection
	log := events.Log{round("m1", 1, msg("D1", "a", 1))}

	s.Pick("m1")
	log = log.Append(round("m2", 1, msg("D2", "b", 1)))

	if got := s.Active(log); got != "m1" {
		t.Errorf("Active = %q, want pinned m1", got)
	}
	if !s.Manual() {
		t.Error("Manual should report true")
	}

	s.Clear()
	if got := s.Active(log); got != "m2" {
		t.Errorf("Active = %q after Clear, want m2", got)
	}
}

func TestExternalOverrideWins(t *testing.T) {
	var s Selection
	log := events.Log{round("m1", 1, msg("D1", "a", 1))}

	s.Pick("m1")
	s.SetExternal("m9")
	if got := s.Active(log); got != "m9" {
		t.Errorf("Active = %q, want external m9", got)
	}

	s.SetExternal("")
	if got := s.Active(log); got != "m1" {
		t.Errorf("Active = %q after override cleared, want manual m1", got)
	}
}

func TestMessagesFiltersAndMarksRounds(t *testing.T) {
	log := events.Log{
		round("m1", 1, msg("D1", "open", 1), msg(RoleCritic, "pushback", 1)),
		round("m2", 1, msg("D2", "noise", 1)),
		round("m1", 2, msg("D1", "revised", 2)),
	}
	entries := Messages(log, "m1")
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if !entries[0].NewRound {
		t.Error("first entry should start a round")
	}
	if entries[1].NewRound {
		t.Error("second entry continues round 1")
	}
	if !entries[2].NewRound || entries[2].Round != 2 {
		t.Errorf("third entry = round %d newRound %v, want 2/true", entries[2].Round, entries[2].NewRound)
	}
	for _, e := range entries {
		if e.Content == "noise" {
			t.Error("entry from another move leaked in")
		}
	}
}

func TestMessagesFallBackToEventRound(t *testing.T) {
	log := events.Log{round("m1", 3, events.Message{Role: "D1", Content: "x"})}
	entries := Messages(log, "m1")
	if entries[0].Round != 3 {
		t.Errorf("Round = %d, want event round 3", entries[0].Round)
	}
}

func TestRoleName(t *testing.T) {
	cases := map[string]string{
		"D1":     "Growth Strategist",
		"D2":     "Operational Pragmatist",
		"D3":     "Stakeholder Advocate",
		"critic": "Critic",
		"D7":     "D7",
	}
	for role, want := range cases {
		if got := RoleName(role); got != want {
			t.Errorf("RoleName(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestMoveIDsFirstSeenOrder(t *testing.T) {
	log := events.Log{
		round("b", 1, msg("D1", "x", 1)),
		round("a", 1, msg("D1", "y", 1)),
		round("b", 2, msg("D1", "z", 2)),
	}
	ids := MoveIDs(log)
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("MoveIDs = %v, want [b a]", ids)
	}
}

func TestScoresAndCurrentRound(t *testing.T) {
	score := 95
	log := events.Log{
		round("m1", 1, msg("D1", "a", 1)),
		{Kind: events.KindMoveScored, Move: "m1", Score: &score},
	}
	if got := Scores(log)["m1"]; got != 95 {
		t.Errorf("Scores[m1] = %d, want 95", got)
	}
	if got := CurrentRound(Messages(log, "m1")); got != 1 {
		t.Errorf("CurrentRound = %d, want 1", got)
	}
	if got := CurrentRound(nil); got != 0 {
		t.Errorf("CurrentRound(nil) = %d, want 0", got)
	}
}

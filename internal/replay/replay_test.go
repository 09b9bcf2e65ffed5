package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohan-g0re/stratdeck/internal/events"
	"github.com/rohan-g0re/stratdeck/internal/pubsub"
	"github.com/rohan-g0re/stratdeck/internal/stream"
)

func TestWriterLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	payloads := []string{
		`{"event":"stage_start","stage":0}`,
		`{"event":"move_scored","move":"m1","score":95}`,
		`{"event":"pipeline_complete"}`,
	}
	for _, p := range payloads {
		if _, err := w.Write([]byte(p + "\n")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	eventLog, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(eventLog) != 3 {
		t.Fatalf("loaded %d events, want 3", len(eventLog))
	}
	if eventLog[1].Kind != events.KindMoveScored || *eventLog[1].Score != 95 {
		t.Errorf("event 1 = %+v", eventLog[1])
	}
}

func TestLoadSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	content := "not json\n" +
		`{"event":"unknown_kind"}` + "\n" +
		"\n" +
		`{"event":"stage_complete","stage":1}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	eventLog, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(eventLog) != 1 || eventLog[0].Kind != events.KindStageComplete {
		t.Errorf("log = %+v, want one stage_complete", eventLog)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("want error for missing file")
	}
}

func TestFollowPublishesExistingAndAppended(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.jsonl")
	if err := os.WriteFile(path, []byte(`{"event":"stage_start","stage":0}`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	broker := pubsub.NewBroker[stream.Signal]()
	defer broker.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch := broker.Subscribe(ctx)

	done := make(chan error, 1)
	go func() { done <- Follow(ctx, path, broker) }()

	waitKind := func(want string) {
		t.Helper()
		deadline := time.After(3 * time.Second)
		for {
			select {
			case sig := <-ch:
				if sig.Event != nil && sig.Event.Kind == want {
					return
				}
			case <-deadline:
				t.Fatalf("never saw %s", want)
			}
		}
	}

	waitKind(events.KindStageStart)

	// Append while following.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString(`{"event":"pipeline_complete"}` + "\n")
	f.Close()

	waitKind(events.KindPipelineComplete)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Follow returned %v, want nil on terminal", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Follow did not return after terminal event")
	}
}

func TestFollowStopsAtTerminalInExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.jsonl")
	content := `{"event":"stage_complete","stage":0}` + "\n" +
		`{"event":"pipeline_error"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	broker := pubsub.NewBroker[stream.Signal]()
	defer broker.Close()
	ch := broker.Subscribe(context.Background())

	if err := Follow(context.Background(), path, broker); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	var last stream.Signal
	for {
		select {
		case sig := <-ch:
			last = sig
			continue
		default:
		}
		break
	}
	if last.Status != stream.StatusError {
		t.Errorf("final status = %q, want error", last.Status)
	}
}

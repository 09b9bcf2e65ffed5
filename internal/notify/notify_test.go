package notify

import (
	"strings"
	"testing"
)

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	got []Notification
}

func (r *recordingNotifier) Notify(n Notification) error {
	r.got = append(r.got, n)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

func TestManagerFanOut(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}
	manager := NewManager(a, b)

	if err := manager.NotifyAnalysisComplete("TSLA", 4); err != nil {
		t.Fatalf("NotifyAnalysisComplete failed: %v", err)
	}

	for name, r := range map[string]*recordingNotifier{"a": a, "b": b} {
		if len(r.got) != 1 {
			t.Fatalf("notifier %s: expected 1 notification, got %d", name, len(r.got))
		}
		n := r.got[0]
		if n.Type != NotificationTypeComplete {
			t.Errorf("notifier %s: expected type %q, got %q", name, NotificationTypeComplete, n.Type)
		}
		if !strings.Contains(n.Message, "TSLA") || !strings.Contains(n.Message, "4 moves") {
			t.Errorf("notifier %s: unexpected message %q", name, n.Message)
		}
		if n.Timestamp.IsZero() {
			t.Errorf("notifier %s: timestamp not set", name)
		}
	}
}

func TestNotifyAnalysisError(t *testing.T) {
	r := &recordingNotifier{}
	manager := NewManager(r)

	if err := manager.NotifyAnalysisError("AAPL", "stream disconnected"); err != nil {
		t.Fatalf("NotifyAnalysisError failed: %v", err)
	}
	if len(r.got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(r.got))
	}
	if r.got[0].Type != NotificationTypeError {
		t.Errorf("expected error type, got %q", r.got[0].Type)
	}
}

func TestBellNotifierWrites(t *testing.T) {
	var sb strings.Builder
	bell := &BellNotifier{w: &sb}

	if err := bell.Notify(Notification{}); err != nil {
		t.Fatalf("bell notify failed: %v", err)
	}
	if sb.String() != "\a" {
		t.Errorf("expected bell character, got %q", sb.String())
	}
}

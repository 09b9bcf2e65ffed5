package notify

import (
	"fmt"
	"io"
	"os"
)

// BellNotifier rings the terminal bell. Works everywhere a terminal
// does, which is why it is the default backend.
type BellNotifier struct {
	w io.Writer
}

// NewBellNotifier creates a bell notifier writing to stderr
func NewBellNotifier() *BellNotifier {
	return &BellNotifier{w: os.Stderr}
}

// Notify rings the bell
func (b *BellNotifier) Notify(Notification) error {
	_, err := fmt.Fprint(b.w, "\a")
	return err
}

// Close cleans up resources (no-op for bell notifier)
func (b *BellNotifier) Close() error {
	return nil
}

// Package replay captures the raw event log as JSON lines and plays
// captured logs back. Because every derived view is a pure fold of the
// log, replaying a capture reproduces the exact dashboard state of the
// original session.
package replay

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/rohan-g0re/stratdeck/internal/events"
	"github.com/rohan-g0re/stratdeck/internal/log"
	"github.com/rohan-g0re/stratdeck/internal/pubsub"
	"github.com/rohan-g0re/stratdeck/internal/stream"
)

// Writer appends raw event payloads to a capture file, one JSON object
// per line, in log order.
type Writer struct {
	mu sync.Mutex
	f  *os.File
}

// NewWriter opens (or creates) the capture file for appending.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create capture directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	return &Writer{f: f}, nil
}

// Write implements io.Writer for the stream client's capture hook.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Write(p)
}

// Close closes the capture file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// Load reads a captured log. Lines that fail to decode are skipped,
// mirroring how the live stream treats unrecognized events.
func Load(path string) (events.Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	var eventLog events.Log
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if e, ok := events.Parse(line); ok {
			eventLog = eventLog.Append(e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}
	return eventLog, nil
}

// Follow publishes the capture's existing events, then tails the file
// and publishes lines as they are appended, feeding the same broker
// path the live stream uses. It returns on a terminal event or when
// ctx is cancelled.
func Follow(ctx context.Context, path string, broker *pubsub.Broker[stream.Signal]) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: the file may be replaced or still growing.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch capture directory: %w", err)
	}

	broker.Publish(stream.Signal{Status: stream.StatusConnected})

	var pending []byte
	buf := make([]byte, 32*1024)

	drain := func() bool {
		for {
			n, err := f.Read(buf)
			if n > 0 {
				pending = append(pending, buf[:n]...)
				for {
					i := bytes.IndexByte(pending, '\n')
					if i < 0 {
						break
					}
					line := bytes.TrimSpace(pending[:i])
					pending = append([]byte(nil), pending[i+1:]...)
					if len(line) == 0 {
						continue
					}
					if terminal := publish(line, broker); terminal {
						return true
					}
				}
			}
			if err != nil {
				if err != io.EOF {
					log.Warn("replay", "read capture: %v", err)
				}
				return false
			}
		}
	}

	if drain() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if drain() {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("replay", "watcher error: %v", err)
		}
	}
}

func publish(line []byte, broker *pubsub.Broker[stream.Signal]) bool {
	e, ok := events.Parse(line)
	if !ok {
		return false
	}
	switch e.Kind {
	case events.KindPipelineComplete:
		broker.Publish(stream.Signal{Status: stream.StatusDone, Event: &e})
		return true
	case events.KindPipelineError:
		broker.Publish(stream.Signal{Status: stream.StatusError, Event: &e})
		return true
	default:
		broker.Publish(stream.Signal{Event: &e})
		return false
	}
}

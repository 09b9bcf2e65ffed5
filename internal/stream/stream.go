// Package stream consumes the server-sent event stream for one
// analysis. It owns connect/parse/reconnect; decoded events and
// connection status changes are published on a broker and folded by
// the consumer, which keeps the append-only log.
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rohan-g0re/stratdeck/internal/events"
	"github.com/rohan-g0re/stratdeck/internal/log"
	"github.com/rohan-g0re/stratdeck/internal/pubsub"
)

// Status is the connection state of the stream.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusConnected  Status = "connected"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Signal is one broker message: a status change, a decoded event, or
// both (terminal events arrive together with their final status).
type Signal struct {
	Status Status
	Event  *events.Event
}

// Client reads one analysis stream. The zero value is not usable; fill
// in URL and call Run.
type Client struct {
	// URL is the SSE endpoint for the analysis.
	URL string

	// MaxRetries bounds reconnection attempts after transport
	// failures. Retries reset whenever a connection delivers an event.
	MaxRetries int

	// InitialBackoff is the first reconnect delay; it doubles per
	// consecutive failure, capped at 30s.
	InitialBackoff time.Duration

	// Capture, when non-nil, receives every accepted raw event payload
	// followed by a newline, preserving log order for later replay.
	Capture io.Writer

	// HTTPClient defaults to a client with no overall timeout, since
	// the stream is long-lived.
	HTTPClient *http.Client
}

const maxEventSize = 1 << 20

// Run consumes the stream until a terminal event, an exhausted retry
// budget, or context cancellation. Status transitions and events are
// published to broker as they happen.
func (c *Client) Run(ctx context.Context, broker *pubsub.Broker[Signal]) error {
	httpc := c.HTTPClient
	if httpc == nil {
		httpc = &http.Client{}
	}
	retries := c.MaxRetries
	if retries <= 0 {
		retries = 5
	}
	backoff := c.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	attempt := 0
	delay := backoff
	for {
		broker.Publish(Signal{Status: StatusConnecting})

		terminal, delivered, err := c.consume(ctx, httpc, broker)
		if terminal || ctx.Err() != nil {
			return ctx.Err()
		}

		// Transient disconnect. A connection that made progress earns
		// a fresh retry budget.
		if delivered {
			attempt = 0
			delay = backoff
		}
		attempt++
		if attempt > retries {
			log.Error("stream", "giving up after %d attempts: %v", retries, err)
			broker.Publish(Signal{Status: StatusError})
			return fmt.Errorf("stream: giving up after %d attempts: %w", retries, err)
		}

		log.Warn("stream", "disconnected (attempt %d/%d), retrying in %s: %v", attempt, retries, delay, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > 30*time.Second {
			delay = 30 * time.Second
		}
	}
}

// consume runs a single connection. terminal reports that the stream
// ended cleanly with pipeline_complete/pipeline_error; delivered
// reports that at least one event was decoded before disconnect.
func (c *Client) consume(ctx context.Context, httpc *http.Client, broker *pubsub.Broker[Signal]) (terminal, delivered bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return false, false, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := httpc.Do(req)
	if err != nil {
		return false, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, false, fmt.Errorf("backend returned %s", resp.Status)
	}

	broker.Publish(Signal{Status: StatusConnected})
	log.Info("stream", "connected to %s", c.URL)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			// Blank line ends one SSE event.
			if len(data) > 0 {
				payload := strings.Join(data, "\n")
				data = data[:0]
				if done := c.dispatch(payload, broker); done {
					return true, true, nil
				}
				delivered = true
			}
		case strings.HasPrefix(line, ":"):
			// Keepalive comment.
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// Other SSE fields (event:, id:, retry:) are unused here.
		}
	}

	if err := scanner.Err(); err != nil {
		return false, delivered, err
	}
	return false, delivered, io.ErrUnexpectedEOF
}

// dispatch decodes and publishes one payload, returning true on a
// terminal event.
func (c *Client) dispatch(payload string, broker *pubsub.Broker[Signal]) bool {
	e, ok := events.Parse([]byte(payload))
	if !ok {
		log.Debug("stream", "ignoring unrecognized event: %.120s", payload)
		return false
	}

	if c.Capture != nil {
		if _, err := io.WriteString(c.Capture, payload+"\n"); err != nil {
			log.Warn("stream", "capture write failed: %v", err)
		}
	}

	switch e.Kind {
	case events.KindPipelineComplete:
		broker.Publish(Signal{Status: StatusDone, Event: &e})
		return true
	case events.KindPipelineError:
		broker.Publish(Signal{Status: StatusError, Event: &e})
		return true
	default:
		broker.Publish(Signal{Event: &e})
		return false
	}
}

// Package tui renders the live analysis dashboard: four stage cards,
// per-stage agents and documents, and the negotiation leaderboard with
// its chat transcripts. All derived state is recomputed from the
// append-only event log inside the single-threaded update loop.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rohan-g0re/stratdeck/internal/api"
	"github.com/rohan-g0re/stratdeck/internal/enrich"
	"github.com/rohan-g0re/stratdeck/internal/events"
	"github.com/rohan-g0re/stratdeck/internal/leaderboard"
	"github.com/rohan-g0re/stratdeck/internal/log"
	"github.com/rohan-g0re/stratdeck/internal/notify"
	"github.com/rohan-g0re/stratdeck/internal/pipeline"
	"github.com/rohan-g0re/stratdeck/internal/pubsub"
	"github.com/rohan-g0re/stratdeck/internal/stream"
	"github.com/rohan-g0re/stratdeck/internal/transcript"
)

// Options configures the dashboard.
type Options struct {
	Ticker     string
	AnalysisID string

	// Client fetches result snapshots. Nil when replaying a capture
	// without a backend; enrichment is skipped.
	Client *api.Client

	// Signals feeds live stream events. Nil when rendering a static
	// log.
	Signals <-chan stream.Signal

	// InitialLog seeds the model, used by replay.
	InitialLog events.Log

	// FocusMove pins the transcript to one move, overriding both
	// auto-follow and manual picks.
	FocusMove string

	// Notifier announces terminal pipeline states. May be nil.
	Notifier *notify.Manager
}

// overview is the zoom state showing all four stage cards.
const overview = -1

// resultsMsg carries a fetched result snapshot back into the update
// loop.
type resultsMsg struct {
	status *api.AnalysisStatus
	err    error
}

// Model is the dashboard state.
type Model struct {
	opts Options
	ctx  context.Context

	// Append-only event log and the views derived from it.
	eventLog events.Log
	stages   []pipeline.Stage
	ranked   []leaderboard.Move
	entries  []transcript.Entry

	status    stream.Status
	positions *leaderboard.PositionCache
	selection transcript.Selection

	// Result-snapshot enrichment.
	enriched     map[int][]pipeline.Document
	fetchedCount int
	fetching     bool

	notified bool

	// UI state.
	width      int
	height     int
	zoomed     int
	showDocs   bool
	moveCursor int
	docCursor  int
	viewingDoc bool
	docTitle   string
	viewport   viewport.Model
	spinner    spinner.Model
	progress   progress.Model
}

// New creates the dashboard model.
func New(ctx context.Context, opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipglossSpinnerStyle

	m := Model{
		opts:      opts,
		ctx:       ctx,
		eventLog:  opts.InitialLog,
		status:    stream.StatusConnecting,
		positions: leaderboard.NewPositionCache(),
		zoomed:    overview,
		spinner:   sp,
		progress:  progress.New(progress.WithDefaultGradient()),
	}
	if opts.Signals == nil {
		// Static log: whatever the log says is final.
		m.status = stream.StatusDone
	}
	m.selection.SetExternal(opts.FocusMove)
	m.recompute()
	return m
}

// Run starts the dashboard and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.opts.Signals != nil {
		cmds = append(cmds, pubsub.ListenCmd(m.ctx, m.opts.Signals))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stream.Signal:
		return m.handleSignal(msg)

	case resultsMsg:
		m.fetching = false
		if msg.err != nil {
			log.Warn("enrich", "result fetch failed: %v", msg.err)
			return m, nil
		}
		if msg.status != nil && msg.status.Result != nil {
			m.enriched = enrich.Documents(msg.status.Result)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleSignal folds a stream signal into the log and kicks off
// whatever the new log state calls for.
func (m Model) handleSignal(sig stream.Signal) (tea.Model, tea.Cmd) {
	if sig.Status != "" {
		// A transport that gave up is equivalent to pipeline_error for
		// the stage fold.
		if sig.Status == stream.StatusError && sig.Event == nil {
			m.eventLog = m.eventLog.Append(events.Event{Kind: events.KindPipelineError})
		}
		m.status = sig.Status
	}
	if sig.Event != nil {
		m.eventLog = m.eventLog.Append(*sig.Event)
	}
	m.recompute()

	var cmds []tea.Cmd
	if m.opts.Signals != nil {
		cmds = append(cmds, pubsub.ListenCmd(m.ctx, m.opts.Signals))
	}
	if cmd := m.maybeFetchResults(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.maybeNotify()
	return m, tea.Batch(cmds...)
}

// recompute replays the whole log through every reducer. Atomic per
// pass: no partial state is ever visible to View.
func (m *Model) recompute() {
	m.stages = pipeline.Reduce(m.eventLog)
	m.ranked = leaderboard.Rank(leaderboard.Reduce(m.eventLog))
	m.positions.RecordPositions(m.ranked)
	m.entries = transcript.Messages(m.eventLog, m.selection.Active(m.eventLog))
	if m.moveCursor >= len(m.ranked) {
		m.moveCursor = max(0, len(m.ranked)-1)
	}
}

// maybeFetchResults issues a snapshot fetch when the number of
// completed stages has grown since the last fetch.
func (m *Model) maybeFetchResults() tea.Cmd {
	if m.opts.Client == nil || m.fetching {
		return nil
	}
	count := enrich.CompletedStages(m.eventLog)
	if count <= m.fetchedCount {
		return nil
	}
	m.fetchedCount = count
	m.fetching = true

	client, id, ctx := m.opts.Client, m.opts.AnalysisID, m.ctx
	return func() tea.Msg {
		status, err := client.GetResults(ctx, id)
		return resultsMsg{status: status, err: err}
	}
}

func (m *Model) maybeNotify() {
	if m.notified || m.opts.Notifier == nil {
		return
	}
	switch m.status {
	case stream.StatusDone:
		m.notified = true
		if err := m.opts.Notifier.NotifyAnalysisComplete(m.opts.Ticker, leaderboard.ScoredCount(m.ranked)); err != nil {
			log.Warn("notify", "completion notification failed: %v", err)
		}
	case stream.StatusError:
		m.notified = true
		if err := m.opts.Notifier.NotifyAnalysisError(m.opts.Ticker, "pipeline failed"); err != nil {
			log.Warn("notify", "error notification failed: %v", err)
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.viewingDoc {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.viewingDoc = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "1", "2", "3", "4":
		m.zoomed = int(msg.String()[0]-'0') - 1
		m.showDocs = false
		m.docCursor = 0
		return m, nil

	case "esc":
		m.zoomed = overview
		return m, nil

	case "tab":
		if m.zoomed == pipeline.NegotiationStage {
			m.showDocs = !m.showDocs
			m.docCursor = 0
		}
		return m, nil

	case "j", "down":
		m.moveCursorDown()
		return m, nil

	case "k", "up":
		m.moveCursorUp()
		return m, nil

	case "enter":
		return m.handleEnter()

	case "c":
		if m.selection.Manual() {
			m.selection.Clear()
			m.recompute()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) moveCursorDown() {
	if m.zoomed == pipeline.NegotiationStage && !m.showDocs {
		if m.moveCursor < len(m.ranked)-1 {
			m.moveCursor++
		}
		return
	}
	if m.zoomed != overview {
		if m.docCursor < len(m.docsFor(m.zoomed))-1 {
			m.docCursor++
		}
	}
}

func (m *Model) moveCursorUp() {
	if m.zoomed == pipeline.NegotiationStage && !m.showDocs {
		if m.moveCursor > 0 {
			m.moveCursor--
		}
		return
	}
	if m.zoomed != overview && m.docCursor > 0 {
		m.docCursor--
	}
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.zoomed == overview {
		return m, nil
	}

	// Negotiation view: enter pins the chat to the selected move.
	if m.zoomed == pipeline.NegotiationStage && !m.showDocs {
		if m.moveCursor < len(m.ranked) {
			m.selection.Pick(m.ranked[m.moveCursor].ID)
			m.recompute()
		}
		return m, nil
	}

	docs := m.docsFor(m.zoomed)
	if m.docCursor < len(docs) {
		doc := docs[m.docCursor]
		m.docTitle = doc.Title
		m.viewport.SetContent(renderMarkdown(doc.Content, m.contentWidth()))
		m.viewport.GotoTop()
		m.viewingDoc = true
	}
	return m, nil
}

// docsFor returns a stage's documents: those derived from the event
// log followed by any synthesized from the result snapshot.
func (m Model) docsFor(idx int) []pipeline.Document {
	if idx < 0 || idx >= len(m.stages) {
		return nil
	}
	docs := make([]pipeline.Document, 0, len(m.stages[idx].Documents)+len(m.enriched[idx]))
	docs = append(docs, m.stages[idx].Documents...)
	docs = append(docs, m.enriched[idx]...)
	return docs
}

func (m Model) contentWidth() int {
	if m.width <= 4 {
		return 96
	}
	return m.width - 4
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/rohan-g0re/stratdeck/internal/leaderboard"
	"github.com/rohan-g0re/stratdeck/internal/pipeline"
	"github.com/rohan-g0re/stratdeck/internal/stream"
	"github.com/rohan-g0re/stratdeck/internal/transcript"
)

func (m Model) View() string {
	if m.viewingDoc {
		return m.docView()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if m.zoomed == overview {
		b.WriteString(m.overviewView())
	} else if m.zoomed == pipeline.NegotiationStage {
		b.WriteString(m.negotiationView())
	} else {
		b.WriteString(m.stageDetailView(m.zoomed))
	}

	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) header() string {
	title := titleStyle.Render("STRATDECK")
	ticker := labelStyle.Render(strings.ToUpper(m.opts.Ticker))

	var status string
	switch m.status {
	case stream.StatusConnecting:
		status = m.spinner.View() + mutedStyle.Render(" connecting")
	case stream.StatusConnected:
		status = m.spinner.View() + mutedStyle.Render(" live")
	case stream.StatusDone:
		status = statusStyle(pipeline.StatusDone).Render("✓ complete")
	case stream.StatusError:
		status = errorStyle.Render("✗ failed")
	}

	pct := pipeline.OverallProgress(m.stages)
	bar := m.progress.ViewAs(float64(pct) / 100)

	left := fmt.Sprintf("%s %s %s  %s", title, mutedStyle.Render("▸"), ticker, status)
	right := fmt.Sprintf("%s %s", bar, mutedStyle.Render(fmt.Sprintf("%3d%%", pct)))
	return lipgloss.JoinHorizontal(lipgloss.Center, left, "  ", right)
}

func (m Model) overviewView() string {
	cards := make([]string, 0, len(m.stages))
	for i, st := range m.stages {
		cards = append(cards, m.stageCard(i, st))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) stageCard(idx int, st pipeline.Stage) string {
	width := m.cardWidth()

	var b strings.Builder
	glyph := statusStyle(st.Status).Render(statusGlyph(st.Status))
	b.WriteString(fmt.Sprintf("%s %s %s\n", keyStyle.Render(fmt.Sprintf("[%d]", idx+1)), glyph, titleStyle.Render(st.Name)))
	b.WriteString(mutedStyle.Render(wordwrap.String(st.Description, width)))
	b.WriteString("\n\n")

	pb := m.progress
	pb.Width = width
	b.WriteString(pb.ViewAs(float64(st.Progress) / 100))
	b.WriteString("\n")

	done := 0
	for _, a := range st.Agents {
		if a.Status == pipeline.StatusDone {
			done++
		}
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("agents %d/%d", done, st.AgentCount)))
	if n := len(st.Documents) + len(m.enriched[idx]); n > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  docs %d", n)))
	}
	b.WriteString("\n")

	// Roster, capped so late negotiation rows don't blow up the card.
	const maxRoster = 4
	for i, a := range st.Agents {
		if i == maxRoster {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  +%d more", len(st.Agents)-maxRoster)))
			break
		}
		name := a.Name
		if limit := width - 4; limit > 4 && len(name) > limit {
			name = name[:limit-1] + "…"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", statusStyle(a.Status).Render(statusGlyph(a.Status)), name))
	}

	style := cardStyle
	if st.Status == pipeline.StatusRunning {
		style = cardActiveStyle
	}
	return style.Width(width + 2).Render(b.String())
}

func (m Model) stageDetailView(idx int) string {
	st := m.stages[idx]

	var b strings.Builder
	glyph := statusStyle(st.Status).Render(statusGlyph(st.Status))
	b.WriteString(fmt.Sprintf("%s %s  %s\n", glyph, titleStyle.Render(st.Name), mutedStyle.Render(st.Description)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Agents"))
	b.WriteString("\n")
	if len(st.Agents) == 0 {
		b.WriteString(mutedStyle.Render("  waiting...\n"))
	}
	for _, a := range st.Agents {
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyle(a.Status).Render(statusGlyph(a.Status)), a.Name))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Documents"))
	b.WriteString("\n")
	docs := m.docsFor(idx)
	if len(docs) == 0 {
		b.WriteString(mutedStyle.Render("  none yet\n"))
	}
	for i, d := range docs {
		line := fmt.Sprintf("  %s %s", mutedStyle.Render("▪"), d.Title)
		if i == m.docCursor {
			line = selectedRowStyle.Render("▸ " + d.Title)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return panelStyle.Width(m.contentWidth()).Render(b.String())
}

// negotiationView splits the screen into the move leaderboard on the
// left and the active move's transcript on the right. Tab swaps the
// right panel for the stage documents.
func (m Model) negotiationView() string {
	leftWidth := m.contentWidth() * 2 / 5
	rightWidth := m.contentWidth() - leftWidth - 4

	left := panelStyle.Width(leftWidth).Render(m.leaderboardView(leftWidth - 2))

	var right string
	if m.showDocs {
		right = panelStyle.Width(rightWidth).Render(m.negotiationDocsView())
	} else {
		right = panelStyle.Width(rightWidth).Render(m.chatView(rightWidth - 2))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) leaderboardView(width int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Leaderboard"))
	if leaderboard.ScoredCount(m.ranked) > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  avg %d/%d", leaderboard.AverageScore(m.ranked), leaderboard.MaxScore)))
	}
	b.WriteString("\n\n")

	if len(m.ranked) == 0 {
		b.WriteString(mutedStyle.Render("no moves yet"))
		return b.String()
	}

	active := m.selection.Active(m.eventLog)
	for i, mv := range m.ranked {
		row := m.leaderboardRow(i, mv, width)
		switch {
		case i == m.moveCursor:
			row = selectedRowStyle.Render(row)
		case mv.ID == active:
			row = titleStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) leaderboardRow(rank int, mv leaderboard.Move, width int) string {
	arrow := "  "
	if delta, known := m.positions.DeltaFor(mv.ID); known && delta != 0 {
		if delta > 0 {
			arrow = deltaStyle(delta).Render(fmt.Sprintf("▲%d", delta))
		} else {
			arrow = deltaStyle(delta).Render(fmt.Sprintf("▼%d", -delta))
		}
	}

	var tail string
	switch mv.Status {
	case leaderboard.StatusScored:
		tail = scoreStyle(*mv.Score).Render(fmt.Sprintf("%d/%d", *mv.Score, leaderboard.MaxScore))
	case leaderboard.StatusSkipped:
		tail = mutedStyle.Render("skipped")
	default:
		tail = mutedStyle.Render(fmt.Sprintf("R%d/%d", mv.CurrentRound, mv.MaxRounds))
	}

	title := mv.Title
	if limit := width - 16; limit > 8 && len(title) > limit {
		title = title[:limit-1] + "…"
	}
	risk := "?"
	if mv.RiskLevel != "" {
		risk = strings.ToUpper(mv.RiskLevel[:1])
	}
	risk = riskStyle(mv.RiskLevel).Render(risk)
	return fmt.Sprintf("%2d %s %s %s %s", rank+1, arrow, title, risk, tail)
}

func (m Model) chatView(width int) string {
	var b strings.Builder
	active := m.selection.Active(m.eventLog)
	if active == "" {
		return mutedStyle.Render("waiting for negotiation...")
	}

	header := labelStyle.Render("Negotiation") + mutedStyle.Render("  "+active)
	if m.selection.Manual() {
		header += mutedStyle.Render("  (pinned)")
	}
	b.WriteString(header)
	b.WriteString("\n")

	for _, e := range m.entries {
		if e.NewRound {
			b.WriteString(dividerStyle.Render(fmt.Sprintf("── Round %d %s", e.Round, strings.Repeat("─", max(0, width-12)))))
			b.WriteString("\n")
		}
		b.WriteString(roleStyle(e.Role).Render(transcript.RoleName(e.Role) + ":"))
		b.WriteString("\n")
		b.WriteString(wordwrap.String(e.Content, width))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m Model) negotiationDocsView() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Documents"))
	b.WriteString("\n\n")
	docs := m.docsFor(pipeline.NegotiationStage)
	if len(docs) == 0 {
		b.WriteString(mutedStyle.Render("none yet"))
		return b.String()
	}
	for i, d := range docs {
		line := fmt.Sprintf("  %s %s", mutedStyle.Render("▪"), d.Title)
		if i == m.docCursor {
			line = selectedRowStyle.Render("▸ " + d.Title)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) docView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.docTitle))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k scroll · esc back · q quit"))
	return b.String()
}

func (m Model) helpView() string {
	if m.zoomed == overview {
		return helpStyle.Render("1-4 stage detail · q quit")
	}
	if m.zoomed == pipeline.NegotiationStage {
		if m.showDocs {
			return helpStyle.Render("j/k navigate · enter open · tab chat · esc overview · q quit")
		}
		help := "j/k navigate · enter pin chat · tab docs · esc overview · q quit"
		if m.selection.Manual() {
			help = "j/k navigate · enter pin chat · c unpin · tab docs · esc overview · q quit"
		}
		return helpStyle.Render(help)
	}
	return helpStyle.Render("j/k navigate · enter open · esc overview · q quit")
}

func (m Model) cardWidth() int {
	if m.width <= 0 {
		return 24
	}
	w := (m.width - 16) / 4
	if w < 18 {
		w = 18
	}
	return w
}

// Package enrich turns the point-in-time result snapshot into
// synthesized stage documents. It only ever adds display content; the
// reducers' stage, agent, and leaderboard state is never touched.
package enrich

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rohan-g0re/stratdeck/internal/api"
	"github.com/rohan-g0re/stratdeck/internal/events"
	"github.com/rohan-g0re/stratdeck/internal/pipeline"
)

// CompletedStages counts the stage_complete events observed so far.
// A strict increase is the signal to refetch the result snapshot.
func CompletedStages(log events.Log) int {
	n := 0
	for _, e := range log {
		if e.Kind == events.KindStageComplete {
			n++
		}
	}
	return n
}

// Documents synthesizes per-stage documents from whatever the snapshot
// has so far. Keys are stage indexes; stages with nothing to show are
// absent.
func Documents(result *api.AnalysisResult) map[int][]pipeline.Document {
	if result == nil {
		return nil
	}
	docs := make(map[int][]pipeline.Document)

	if result.FinancialDataRaw != "" {
		docs[0] = append(docs[0], pipeline.Document{
			ID: "financial_data_raw", Title: "Financial Data (Raw)", Type: "data", Content: result.FinancialDataRaw,
		})
	}
	if result.NewsDataRaw != "" {
		docs[0] = append(docs[0], pipeline.Document{
			ID: "news_data_raw", Title: "News Data (Raw)", Type: "data", Content: result.NewsDataRaw,
		})
	}

	if result.F1 != "" {
		docs[1] = append(docs[1], pipeline.Document{
			ID: "f1", Title: "Financial Inference (F1)", Type: "report", Content: result.F1,
		})
	}
	if result.F2 != "" {
		docs[1] = append(docs[1], pipeline.Document{
			ID: "f2", Title: "Trend Inference (F2)", Type: "report", Content: result.F2,
		})
	}

	for _, move := range result.MoveSuggestions {
		docs[2] = append(docs[2], suggestionDocument(move))
	}

	for _, entry := range result.RecommendedMoves {
		docs[3] = append(docs[3], recommendedDocument(entry))
	}
	for _, entry := range result.OtherMoves {
		docs[3] = append(docs[3], otherDocument(entry))
	}
	for _, log := range result.ConversationLogs {
		docs[3] = append(docs[3], conversationDocument(log))
	}

	return docs
}

func suggestionDocument(move api.MoveSuggestion) pipeline.Document {
	id := move.MoveID
	if id == "" {
		id = "move"
	}
	title := move.Title
	if title == "" {
		title = id
	}

	var header []string
	if move.Persona != "" {
		header = append(header, "Persona: "+move.Persona)
	}
	if move.RiskLevel != "" {
		header = append(header, "Risk: "+move.RiskLevel)
	}
	content := move.Content
	if len(header) > 0 {
		content = strings.Join(header, " | ") + "\n\n" + content
	}

	return pipeline.Document{ID: id, Title: title, Type: "move", Content: content}
}

func recommendedDocument(entry api.MoveResult) pipeline.Document {
	title := entry.MoveDocument.Title
	if title == "" {
		title = entry.MoveID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Score: %d/120** | **Recommended**\n\n", entry.TotalScore)

	for _, agentID := range sortedKeys(entry.ScoresByAgent) {
		scores := entry.ScoresByAgent[agentID]
		fmt.Fprintf(&b, "### %s (%d/40)\n", agentID, agentSubtotal(scores))
		for _, metric := range sortedKeys(scores) {
			if metric == "reasoning" {
				continue
			}
			if v, ok := numeric(scores[metric]); ok {
				fmt.Fprintf(&b, "- %s: %d/10\n", metric, v)
			}
		}
		if reasoning, ok := scores["reasoning"].(string); ok && reasoning != "" {
			fmt.Fprintf(&b, "\n*%s*\n\n", reasoning)
		}
	}

	return pipeline.Document{
		ID:      "rec-" + entry.MoveID,
		Title:   fmt.Sprintf("%s: %s", entry.MoveID, title),
		Type:    "recommended",
		Content: b.String(),
	}
}

func otherDocument(entry api.MoveResult) pipeline.Document {
	title := entry.MoveDocument.Title
	if title == "" {
		title = entry.MoveID
	}
	suffix := ""
	content := fmt.Sprintf("**Score: %d/120**", entry.TotalScore)
	if entry.Skipped {
		suffix = " (Skipped)"
		content += " | Skipped"
	}
	return pipeline.Document{
		ID:      "other-" + entry.MoveID,
		Title:   fmt.Sprintf("%s: %s%s", entry.MoveID, title, suffix),
		Type:    "scored",
		Content: content,
	}
}

func conversationDocument(log api.ConversationLog) pipeline.Document {
	var b strings.Builder
	fmt.Fprintf(&b, "# Negotiation: %s\n\n", log.MoveID)
	for _, entry := range log.Conversation {
		role := "CRITIC"
		if entry.Role != "critic" {
			role = fmt.Sprintf("DECISION MAKER (%s)", entry.Role)
		}
		fmt.Fprintf(&b, "**[Round %d] %s:**\n%s\n\n---\n\n", entry.Round, role, entry.Content)
	}
	return pipeline.Document{
		ID:      "conv-" + log.MoveID,
		Title:   "Negotiation: " + log.MoveID,
		Type:    "conversation",
		Content: b.String(),
	}
}

// agentSubtotal sums the numeric metrics of one agent's breakdown,
// skipping the free-text reasoning field.
func agentSubtotal(scores map[string]any) int {
	total := 0
	for metric, v := range scores {
		if metric == "reasoning" {
			continue
		}
		if n, ok := numeric(v); ok {
			total += n
		}
	}
	return total
}

// numeric accepts the int/float ambiguity of decoded JSON numbers.
func numeric(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

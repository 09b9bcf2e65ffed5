package api

// AnalyzeResponse is the body returned by POST /api/analyze.
type AnalyzeResponse struct {
	AnalysisID string `json:"analysis_id"`
	Ticker     string `json:"ticker"`
	Status     string `json:"status"`
	SSEURL     string `json:"sse_url"`
}

// MoveDocument is the full proposal document behind a scored move.
type MoveDocument struct {
	MoveID    string `json:"move_id"`
	AgentID   string `json:"agent_id"`
	Persona   string `json:"persona"`
	RiskLevel string `json:"risk_level"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Ticker    string `json:"ticker"`
}

// MoveResult is one scored (or skipped) move in the final output.
type MoveResult struct {
	MoveID        string                    `json:"move_id"`
	TotalScore    int                       `json:"total_score"`
	ScoresByAgent map[string]map[string]any `json:"scores_by_agent"`
	MoveDocument  MoveDocument              `json:"move_document"`
	Skipped       bool                      `json:"skipped"`
	Reason        string                    `json:"reason"`
}

// MoveSuggestion is an unscored move proposal from the analysis stage.
type MoveSuggestion struct {
	MoveID    string `json:"move_id"`
	Title     string `json:"title"`
	Persona   string `json:"persona"`
	RiskLevel string `json:"risk_level"`
	Content   string `json:"content"`
}

// ConversationEntry is one message of a recorded negotiation.
type ConversationEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Round   int    `json:"round"`
}

// ConversationLog is the full recorded negotiation for one move.
type ConversationLog struct {
	MoveID       string              `json:"move_id"`
	Conversation []ConversationEntry `json:"conversation"`
}

// AnalysisResult is the point-in-time result snapshot, populated
// incrementally on the backend as stages complete. Fields for stages
// that have not finished are empty.
type AnalysisResult struct {
	RecommendedMoves []MoveResult      `json:"recommended_moves"`
	OtherMoves       []MoveResult      `json:"other_moves"`
	F1               string            `json:"f1"`
	F2               string            `json:"f2"`
	MoveSuggestions  []MoveSuggestion  `json:"move_suggestions"`
	ConversationLogs []ConversationLog `json:"conversation_logs"`
	FinancialDataRaw string            `json:"financial_data_raw"`
	NewsDataRaw      string            `json:"news_data_raw"`
}

// AnalysisStatus is the body returned by GET /api/results/{id}.
type AnalysisStatus struct {
	AnalysisID string          `json:"analysis_id"`
	Ticker     string          `json:"ticker"`
	Status     string          `json:"status"`
	Result     *AnalysisResult `json:"result"`
}

package dto

type ChatRequest struct {
	SessionId string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required"`
}

// ActionReport records what happened to one extracted task so the user
// sees confirmations and conflicts alongside the model's reply.
type ActionReport struct {
	Action  string `json:"action"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

type ChatResponse struct {
	SessionId string         `json:"session_id"`
	Reply     string         `json:"reply"`
	Actions   []ActionReport `json:"actions,omitempty"`
}

// ChatHistoryItem is the outward shape of one remembered message.
type ChatHistoryItem struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	Importance string `json:"importance"`
	Timestamp  string `json:"timestamp"`
	Summary    bool   `json:"summary,omitempty"`
}

type MemoryStats struct {
	TotalMessages     int    `json:"total_messages"`
	SummaryMessages   int    `json:"summary_messages"`
	HighImportance    int    `json:"high_importance"`
	ProfileKnownName  bool   `json:"profile_known_name"`
	OldestMessageTime string `json:"oldest_message_time,omitempty"`
	NewestMessageTime string `json:"newest_message_time,omitempty"`
}

package store

// Session is the per-conversation scratch state kept in process memory.
// Durable facts live in the conversation memory document; this only holds
// what the dispatcher needs between adjacent turns.
type Session struct {
	ID        string `json:"id"`
	TurnCount int    `json:"turn_count"`
	LastQuery string `json:"last_query"`
	LastReply string `json:"last_reply"`
}

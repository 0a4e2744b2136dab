package domain

import "time"

type ConversationTurn struct {
	ID        int64
	UserID    int64
	Message   string
	IsBot     bool
	Intent    string
	CreatedAt time.Time
}

// KnowledgeEntry is one row of the keyword knowledge base.
type KnowledgeEntry struct {
	ID       int64
	Category string
	Keywords string
	Content  string
}

// KnowledgeSnippet is a scored hit from the keyword knowledge base.
type KnowledgeSnippet struct {
	Category string
	Content  string
	Score    int
}

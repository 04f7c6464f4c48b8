package domain

import "time"

// Message is one entry in a two-party conversation. Append-only; the
// backend orders messages by creation time ascending and the client never
// re-sorts.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationSummary is one row of the conversations list: the counterpart
// plus the latest message exchanged with them.
type ConversationSummary struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar,omitempty"`
	LastMessage string    `json:"lastMessage"`
	LastAt      time.Time `json:"lastAt"`
	Unread      int       `json:"unread,omitempty"`
}

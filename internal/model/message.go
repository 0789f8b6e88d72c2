package model

import "time"

// Message is one entry of the append-only per-request chat log.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	RequestID int64     `json:"request_id" db:"request_id"`
	SenderID  int64     `json:"sender_id" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatChannel identifies one claimed request the user may chat on.
type ChatChannel struct {
	RequestID int64  `json:"request_id" db:"request_id"`
	Label     string `json:"label" db:"label"`
}

// SendMessageRequest represents message submission parameters
type SendMessageRequest struct {
	Content string `json:"content"`
}

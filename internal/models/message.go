package models

import (
	"time"
)

// AttachmentType represents the kind of a chat attachment
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentAudio AttachmentType = "audio"
)

// ChatMessage represents a message between users. Messages are append-only
// and ordered by timestamp ascending per conversation. A missing recipient id
// means the message is addressed to the AI assistant.
type ChatMessage struct {
	ID             string         `json:"id"`
	SenderID       string         `json:"senderId"`
	RecipientID    string         `json:"recipientId,omitempty"`
	SenderName     string         `json:"senderName"`
	Content        string         `json:"content"`
	Timestamp      time.Time      `json:"timestamp"`
	IsAI           bool           `json:"isAi,omitempty"`
	AttachmentURL  string         `json:"attachmentUrl,omitempty"`
	AttachmentType AttachmentType `json:"attachmentType,omitempty"`
}

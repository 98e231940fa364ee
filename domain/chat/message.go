package chat

import (
	"time"

	"meetgraph/pkg/errors"
)

const maxMessageLength = 2000

// Message is one chat message between two connected users. Delivery is
// handled by the realtime layer outside this service; this type only
// covers persistence and thread reads.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sentAt"`
}

// NewMessage validates and builds a chat message
func NewMessage(id, senderID, recipientID, text string) (*Message, error) {
	if senderID == "" || recipientID == "" {
		return nil, errors.NewValidationError("sender and recipient are required")
	}
	if senderID == recipientID {
		return nil, errors.NewValidationError("cannot message yourself")
	}
	if text == "" {
		return nil, errors.NewValidationError("message text is required")
	}
	if len(text) > maxMessageLength {
		return nil, errors.NewValidationError("message text is too long")
	}

	return &Message{
		ID:          id,
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		SentAt:      time.Now(),
	}, nil
}

// ThreadKey returns the order-independent key identifying the conversation
// between two users.
func ThreadKey(userID1, userID2 string) string {
	if userID1 < userID2 {
		return userID1 + "#" + userID2
	}
	return userID2 + "#" + userID1
}

package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MessageStatusSent = "sent"
	MessageStatusRead = "read"
)

// Message is one chat message between two users, optionally scoped to a
// project/booking. The body is stored after the redaction filter has run and
// is immutable from then on.
type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversationID" gorm:"index"`
	SenderID       uint   `json:"senderID" gorm:"not null;index"`
	ReceiverID     uint   `json:"receiverID" gorm:"not null;index"`
	ProjectID      *uint  `json:"projectID" gorm:"index"`
	BookingID      *uint  `json:"bookingID" gorm:"index"`
	ReplyToID      *uint  `json:"replyToID" gorm:"index"`
	Body           string `json:"body" gorm:"type:text"`
	Redacted       bool   `json:"redacted" gorm:"default:false"`
	// Delivery state
	DeliveryStatus string     `json:"deliveryStatus" gorm:"type:varchar(8);default:sent;index"` // sent, read
	ReadAt         *time.Time `json:"readAt"`

	// Echoed back to the sender for optimistic-append reconciliation,
	// never stored.
	ClientTempID string `json:"clientTempID,omitempty" gorm:"-"`
}

// Conversation is the read-side projection of the message stream between two
// users, keyed by the unordered user pair (UserLowID < UserHighID) plus an
// optional project scope. It is updated incrementally on every send and
// markRead, never rebuilt by regrouping the message table.
type Conversation struct {
	gorm.Model
	UserLowID  uint  `json:"userLowID" gorm:"not null;uniqueIndex:idx_conv_pair"`
	UserHighID uint  `json:"userHighID" gorm:"not null;uniqueIndex:idx_conv_pair"`
	ProjectID  *uint `json:"projectID" gorm:"uniqueIndex:idx_conv_pair"`

	LastMessageID uint      `json:"lastMessageID"`
	LastBody      string    `json:"lastBody" gorm:"size:500"`
	LastSenderID  uint      `json:"lastSenderID"`
	LastAt        time.Time `json:"lastAt" gorm:"index"`
	// Unread counters, one per side of the pair.
	UnreadLow  int `json:"unreadLow" gorm:"default:0"`
	UnreadHigh int `json:"unreadHigh" gorm:"default:0"`
}

// Participants returns both user ids of the pair.
func (c *Conversation) Participants() (uint, uint) {
	return c.UserLowID, c.UserHighID
}

// UnreadFor returns the unread count for the given participant.
func (c *Conversation) UnreadFor(userID uint) int {
	if userID == c.UserLowID {
		return c.UnreadLow
	}
	if userID == c.UserHighID {
		return c.UnreadHigh
	}
	return 0
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"

	"gorm.io/gorm"
)

// ConversationChannel is the Redis pub/sub channel for a user pair. Both
// participants subscribe to the same name regardless of who is sending, so
// the key uses the unordered pair, with the optional project scope appended.
func ConversationChannel(userA, userB uint, projectID *uint) string {
	low, high := orderPair(userA, userB)
	if projectID != nil {
		return fmt.Sprintf("conv:%d:%d:p%d", low, high, *projectID)
	}
	return fmt.Sprintf("conv:%d:%d", low, high)
}

func orderPair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// SendMessageInput is everything a send needs beyond the authenticated
// sender.
type SendMessageInput struct {
	SenderID     uint
	ReceiverID   uint
	Body         string
	ReplyToID    *uint
	ProjectID    *uint
	BookingID    *uint
	ClientTempID string
}

// SendResult reports the persisted message and whether the body was
// redacted. Redaction is a warning for the sender, not a failure.
type SendResult struct {
	Message     models.Message `json:"message"`
	WasRedacted bool           `json:"wasRedacted"`
}

// SendMessage runs the redaction filter, persists the message, updates the
// conversation projection for both sides, and publishes the persisted
// message on the pair's channel. Only persistence and the filter run on the
// caller's clock; live propagation is fire-and-forget.
func SendMessage(ctx context.Context, input SendMessageInput) (*SendResult, error) {
	if input.SenderID == input.ReceiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}
	if input.Body == "" {
		return nil, fmt.Errorf("%w: message body is empty", ErrValidation)
	}

	projectType, state, err := redactionScope(input.ProjectID, input.BookingID)
	if err != nil {
		return nil, err
	}
	body, wasRedacted := Redact(input.Body, projectType, state)

	message := models.Message{
		SenderID:       input.SenderID,
		ReceiverID:     input.ReceiverID,
		ProjectID:      input.ProjectID,
		BookingID:      input.BookingID,
		ReplyToID:      input.ReplyToID,
		Body:           body,
		Redacted:       wasRedacted,
		DeliveryStatus: models.MessageStatusSent,
		ClientTempID:   input.ClientTempID,
	}

	conv, err := upsertConversation(&message)
	if err != nil {
		return nil, err
	}
	message.ConversationID = conv.ID
	if err := storage.DB.Create(&message).Error; err != nil {
		return nil, err
	}
	if err := touchConversation(conv, &message); err != nil {
		log.Printf("conversation: projection update failed for conv %d: %v", conv.ID, err)
	}

	go publishMessage(message, input.ProjectID)
	go NewNotificationService().SendNewMessageNotification(input.ReceiverID, input.SenderID, message.ID)

	return &SendResult{Message: message, WasRedacted: wasRedacted}, nil
}

// redactionScope resolves the project type and payment state the filter runs
// against. A booking scope wins over a bare project scope; with neither, or
// with a paid project and no payments, the filter stays on.
func redactionScope(projectID, bookingID *uint) (string, PaymentState, error) {
	if bookingID != nil {
		view, err := LedgerForBooking(*bookingID)
		if err != nil {
			return "", PaymentStateNone, err
		}
		return view.Booking.Project.Type, view.State, nil
	}
	if projectID != nil {
		var project models.Project
		if err := storage.DB.First(&project, *projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", PaymentStateNone, ErrNotFound
			}
			return "", PaymentStateNone, err
		}
		return project.Type, PaymentStateNone, nil
	}
	return models.ProjectTypePaid, PaymentStateNone, nil
}

func upsertConversation(message *models.Message) (*models.Conversation, error) {
	low, high := orderPair(message.SenderID, message.ReceiverID)

	var conv models.Conversation
	q := storage.DB.Where("user_low_id = ? AND user_high_id = ?", low, high)
	if message.ProjectID != nil {
		q = q.Where("project_id = ?", *message.ProjectID)
	} else {
		q = q.Where("project_id IS NULL")
	}
	err := q.First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		conv = models.Conversation{UserLowID: low, UserHighID: high, ProjectID: message.ProjectID}
		if err := storage.DB.Create(&conv).Error; err != nil {
			return nil, err
		}
		return &conv, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// touchConversation advances the projection incrementally: last-message
// preview plus the receiver side's unread counter.
func touchConversation(conv *models.Conversation, message *models.Message) error {
	updates := map[string]any{
		"last_message_id": message.ID,
		"last_body":       previewBody(message.Body),
		"last_sender_id":  message.SenderID,
		"last_at":         message.CreatedAt,
	}
	if message.ReceiverID == conv.UserLowID {
		updates["unread_low"] = gorm.Expr("unread_low + 1")
	} else {
		updates["unread_high"] = gorm.Expr("unread_high + 1")
	}
	return storage.DB.Model(conv).Updates(updates).Error
}

func previewBody(body string) string {
	const max = 500
	if len(body) > max {
		return body[:max]
	}
	return body
}

// publishMessage pushes the persisted message to the pair's channel.
// Delivery is at-least-once; clients dedupe on message id since the sender
// also appends optimistically.
func publishMessage(message models.Message, projectID *uint) {
	if storage.Redis == nil {
		return
	}
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("conversation: marshal for publish failed: %v", err)
		return
	}
	channel := ConversationChannel(message.SenderID, message.ReceiverID, projectID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := storage.Redis.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("conversation: publish to %s failed: %v", channel, err)
	}
}

// MarkConversationRead flips every sent message addressed to the reader in
// the conversation to read and zeroes the reader's unread counter. Bulk and
// idempotent: a second call is a no-op.
func MarkConversationRead(conversationID, readerID uint) (int64, error) {
	var conv models.Conversation
	if err := storage.DB.First(&conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if readerID != conv.UserLowID && readerID != conv.UserHighID {
		return 0, fmt.Errorf("%w: not a participant of this conversation", ErrAuthorizationDenied)
	}

	now := time.Now()
	res := storage.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND delivery_status = ?",
			conversationID, readerID, models.MessageStatusSent).
		Updates(map[string]any{"delivery_status": models.MessageStatusRead, "read_at": now})
	if res.Error != nil {
		return 0, res.Error
	}

	counter := "unread_high"
	if readerID == conv.UserLowID {
		counter = "unread_low"
	}
	if err := storage.DB.Model(&conv).Update(counter, 0).Error; err != nil {
		return res.RowsAffected, err
	}
	return res.RowsAffected, nil
}

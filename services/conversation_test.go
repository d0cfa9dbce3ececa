package services

import (
	"context"
	"strings"
	"testing"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"
)

func TestConversationChannel(t *testing.T) {
	// Both participants land on the same name regardless of direction.
	a := ConversationChannel(7, 3, nil)
	b := ConversationChannel(3, 7, nil)
	if a != b {
		t.Fatalf("channel must be direction independent: %q vs %q", a, b)
	}
	if a != "conv:3:7" {
		t.Fatalf("unexpected channel name %q", a)
	}

	project := uint(12)
	scoped := ConversationChannel(7, 3, &project)
	if scoped != "conv:3:7:p12" {
		t.Fatalf("unexpected scoped channel name %q", scoped)
	}
	if scoped == a {
		t.Fatalf("project scope must separate channels")
	}
}

func TestPreviewBody(t *testing.T) {
	short := "hello"
	if got := previewBody(short); got != short {
		t.Fatalf("short body must pass through, got %q", got)
	}
	long := strings.Repeat("x", 900)
	if got := previewBody(long); len(got) != 500 {
		t.Fatalf("expected 500 byte preview, got %d", len(got))
	}
}

func TestMarkConversationReadIsIdempotent(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	first, err := SendMessage(ctx, SendMessageInput{SenderID: 1, ReceiverID: 2, Body: "see you at the farm"})
	if err != nil {
		t.Fatalf("first send: %v", err)
	}
	if _, err := SendMessage(ctx, SendMessageInput{SenderID: 1, ReceiverID: 2, Body: "gate opens at nine"}); err != nil {
		t.Fatalf("second send: %v", err)
	}
	convID := first.Message.ConversationID

	var conv models.Conversation
	if err := storage.DB.First(&conv, convID).Error; err != nil {
		t.Fatalf("load conversation: %v", err)
	}
	if conv.UnreadFor(2) != 2 {
		t.Fatalf("unread before markRead: want 2, got %d", conv.UnreadFor(2))
	}

	updated, err := MarkConversationRead(convID, 2)
	if err != nil {
		t.Fatalf("markRead: %v", err)
	}
	if updated != 2 {
		t.Fatalf("first markRead: want 2 updates, got %d", updated)
	}

	// Repeating the call marks nothing further.
	updated, err = MarkConversationRead(convID, 2)
	if err != nil {
		t.Fatalf("second markRead: %v", err)
	}
	if updated != 0 {
		t.Fatalf("second markRead: want 0 updates, got %d", updated)
	}

	if err := storage.DB.First(&conv, convID).Error; err != nil {
		t.Fatalf("reload conversation: %v", err)
	}
	if conv.UnreadFor(2) != 0 {
		t.Fatalf("unread after markRead: want 0, got %d", conv.UnreadFor(2))
	}

	// Only participants may mark the conversation read.
	if _, err := MarkConversationRead(convID, 9); err == nil {
		t.Fatalf("expected an authorization failure for a non-participant")
	}
}

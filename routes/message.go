package routes

import (
	"volunteer-connect-server/models"
	"volunteer-connect-server/services"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"

	"github.com/kataras/iris/v12"
)

type SendMessageInput struct {
	ReceiverID   uint   `json:"receiverID" validate:"required"`
	Body         string `json:"body" validate:"required,lt=5000"`
	ReplyToID    *uint  `json:"replyToID"`
	ProjectID    *uint  `json:"projectID"`
	BookingID    *uint  `json:"bookingID"`
	ClientTempID string `json:"clientTempID" validate:"lt=64"`
}

// SendMessage persists a filtered message and fans it out to the pair's live
// channel. A redacted body is a success with a warning, not an error.
func SendMessage(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var input SendMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	result, err := services.SendMessage(ctx.Request().Context(), services.SendMessageInput{
		SenderID:     userID,
		ReceiverID:   input.ReceiverID,
		Body:         input.Body,
		ReplyToID:    input.ReplyToID,
		ProjectID:    input.ProjectID,
		BookingID:    input.BookingID,
		ClientTempID: input.ClientTempID,
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	resp := iris.Map{
		"success":     true,
		"message":     result.Message,
		"wasRedacted": result.WasRedacted,
	}
	if result.WasRedacted {
		resp["warning"] = "contact details were hidden; they unlock once the booking is fully paid"
	}
	ctx.JSON(resp)
}

// ListMessages: GET /api/messages?conversationID=...&cursor=...&limit=...
func ListMessages(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	convID, err := ctx.URLParamInt("conversationID")
	if err != nil || convID <= 0 {
		utils.JSONError(ctx, iris.StatusBadRequest, "validation_error", "conversationID query parameter is required")
		return
	}

	var conv models.Conversation
	if err := storage.DB.First(&conv, convID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if userID != conv.UserLowID && userID != conv.UserHighID {
		utils.JSONError(ctx, iris.StatusForbidden, "authorization_denied", "not a participant of this conversation")
		return
	}

	limit, _ := ctx.URLParamInt("limit")
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	cursor, _ := ctx.URLParamInt("cursor")

	q := storage.DB.Where("conversation_id = ?", convID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var msgs []models.Message
	if err := q.Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	// reverse to chronological
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	nextCursor := 0
	if len(msgs) > 0 {
		nextCursor = int(msgs[0].ID)
	}
	ctx.JSON(iris.Map{"messages": msgs, "nextCursor": nextCursor})
}

type MarkReadInput struct {
	ConversationID uint `json:"conversationID" validate:"required"`
}

// MarkMessagesRead flips every unread message addressed to the caller in the
// conversation. Idempotent: repeating it reports zero updates.
func MarkMessagesRead(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var input MarkReadInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updated, err := services.MarkConversationRead(input.ConversationID, userID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"success": true, "updated": updated})
}

// GetConversations lists the caller's conversation projections, most recent
// first, with the caller's unread count per conversation.
func GetConversations(ctx iris.Context) {
	userID, ok := utils.RequestUserID(ctx)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		return
	}

	var convs []models.Conversation
	if err := storage.DB.
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("last_at DESC").
		Find(&convs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	data := make([]iris.Map, 0, len(convs))
	for _, c := range convs {
		other := c.UserLowID
		if other == userID {
			other = c.UserHighID
		}
		data = append(data, iris.Map{
			"id":           c.ID,
			"otherUserID":  other,
			"projectID":    c.ProjectID,
			"lastBody":     c.LastBody,
			"lastSenderID": c.LastSenderID,
			"lastAt":       c.LastAt,
			"unread":       c.UnreadFor(userID),
			"channel":      services.ConversationChannel(c.UserLowID, c.UserHighID, c.ProjectID),
		})
	}

	ctx.JSON(iris.Map{"success": true, "data": data})
}

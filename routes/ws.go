package routes

import (
	"context"
	"log"
	"net/http"
	"time"

	"volunteer-connect-server/models"
	"volunteer-connect-server/services"
	"volunteer-connect-server/storage"
	"volunteer-connect-server/utils"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SubscribeConversation upgrades to a websocket and forwards the Redis
// channel for one conversation. Delivery is at-least-once: the sender also
// appends optimistically, so clients dedupe on message id.
func SubscribeConversation(ctx iris.Context) {
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

	conn, err := wsUpgrader.Upgrade(ctx.ResponseWriter().Naive(), ctx.Request(), nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	channel := services.ConversationChannel(conv.UserLowID, conv.UserHighID, conv.ProjectID)
	subCtx, cancel := context.WithCancel(context.Background())
	sub := storage.Redis.Subscribe(subCtx, channel)

	// Reader goroutine: we only care about close/errors from the client.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		cancel()
		sub.Close()
		conn.Close()
	}()

	ch := sub.Channel()
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-subCtx.Done():
			return
		}
	}
}

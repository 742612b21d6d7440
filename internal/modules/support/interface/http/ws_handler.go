package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	userService "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/application/service"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/redis"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util/myjwt"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/ws"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WsHandler struct {
	hub       *ws.Hub
	agentRole string
}

func NewWsHandler(hub *ws.Hub, agentRole string) *WsHandler {
	return &WsHandler{hub: hub, agentRole: agentRole}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type subscribeFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Connect upgrades to a websocket and processes subscribe/unsubscribe
// frames. The token travels as a query parameter because the browser
// websocket API cannot set headers; customers connect without one and may
// only watch their own chat.{sessionId} topic, staff tokens unlock the
// dashboard topics.
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")

	staffUuid := ""
	isStaff := false
	if token != "" {
		claims, err := myjwt.ParseToken(token)
		if err != nil || claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		staffUuid = claims.Uuid
		for _, role := range claims.Roles {
			if role == h.agentRole {
				isStaff = true
				break
			}
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error(err.Error())
		return
	}

	clientID := staffUuid
	if clientID == "" {
		clientID = util.GenerateShortUUID()
	}
	client := ws.NewClient(clientID, conn)

	if isStaff && redis.IsConnected() {
		_, _ = redis.SAdd(context.Background(), userService.OnlineAgentsKey, staffUuid)
	}

	defer func() {
		h.hub.Unregister(client)
		if isStaff && redis.IsConnected() {
			_, _ = redis.SRem(context.Background(), userService.OnlineAgentsKey, staffUuid)
		}
	}()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go client.WritePump()

	for {
		var frame subscribeFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		if !h.allowed(frame.Topic, isStaff) {
			continue
		}

		switch frame.Action {
		case "subscribe":
			h.hub.Subscribe(client, frame.Topic)
		case "unsubscribe":
			h.hub.Unsubscribe(client, frame.Topic)
		}
	}
}

func (h *WsHandler) allowed(topic string, isStaff bool) bool {
	if topic == "" {
		return false
	}
	if isStaff {
		return true
	}
	// Anonymous widget clients only get per-session chat topics.
	return strings.HasPrefix(topic, "chat.") && topic != "chat.notifications"
}

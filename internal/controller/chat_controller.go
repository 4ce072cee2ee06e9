package controller

import (
	"engolo_backend/internal/service"
	"engolo_backend/internal/util"
	"engolo_backend/pkg/logger"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ChatController struct {
	Chat     *service.ChatService
	upgrader websocket.Upgrader
}

func NewChatController(chat *service.ChatService, allowedOrigins []string) *ChatController {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return &ChatController{
		Chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originSet[origin]
			},
		},
	}
}

// Connect godoc
// @Summary Join a chat channel over websocket
// @Description Auth via Authorization header or ?token=, the usual fallback
// @Description for browser websocket clients.
// @Tags chat
// @Security BearerAuth
// @Param channel query string false "Channel name" default(general)
// @Router /api/chat/ws [get]
func (ctl *ChatController) Connect(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	channel := c.DefaultQuery("channel", "general")

	conn, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	name := claims.Email
	ctl.Chat.Hub.Join(conn, channel, claims.UserID, name)
}

// History godoc
// @Summary Page through a channel's message history
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param channel query string false "Channel name" default(general)
// @Param before query string false "RFC3339 timestamp to page backwards from"
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/chat/history [get]
func (ctl *ChatController) History(c *gin.Context) {
	channel := c.DefaultQuery("channel", "general")

	var before time.Time
	if raw := c.Query("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			util.BadRequest(c, "invalid before timestamp")
			return
		}
		before = parsed
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, err := ctl.Chat.History(channel, before, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, msgs)
}

// Online godoc
// @Summary Number of users online in a channel
// @Tags chat
// @Produce json
// @Param channel query string false "Channel name" default(general)
// @Success 200 {object} util.Response
// @Router /api/chat/online [get]
func (ctl *ChatController) Online(c *gin.Context) {
	channel := c.DefaultQuery("channel", "general")

	count, err := ctl.Chat.OnlineCount(c.Request.Context(), channel)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{"channel": channel, "online": count})
}

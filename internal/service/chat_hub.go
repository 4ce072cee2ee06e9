package service

import (
	"context"
	"encoding/json"
	"engolo_backend/internal/model"
	"engolo_backend/internal/repository"
	"engolo_backend/pkg/logger"
	"engolo_backend/pkg/monitoring"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ChatEvent is the wire format both directions of the chat websocket use.
type ChatEvent struct {
	Event       string `json:"event"` // "message", "presence"
	Channel     string `json:"channel"`
	SenderID    uint   `json:"senderId,omitempty"`
	SenderName  string `json:"senderName,omitempty"`
	Content     string `json:"content,omitempty"`
	ClientMsgID string `json:"clientMsgId,omitempty"`
	Online      int64  `json:"online,omitempty"`
	SentAt      string `json:"sentAt,omitempty"`
}

type chatClient struct {
	hub     *ChatHub
	conn    *websocket.Conn
	send    chan []byte
	channel string
	userID  uint
	name    string
}

// ChatHub fans messages out to every connection in a channel. One goroutine
// owns the connection maps; clients talk to it over the register, unregister
// and broadcast channels only.
type ChatHub struct {
	Chats *repository.ChatRepository

	channels   map[string]map[*chatClient]bool
	register   chan *chatClient
	unregister chan *chatClient
	broadcast  chan broadcastMsg
	done       chan struct{}
}

type broadcastMsg struct {
	channel string
	payload []byte
}

func NewChatHub(chats *repository.ChatRepository) *ChatHub {
	return &ChatHub{
		Chats:      chats,
		channels:   make(map[string]map[*chatClient]bool),
		register:   make(chan *chatClient),
		unregister: make(chan *chatClient),
		broadcast:  make(chan broadcastMsg, 64),
		done:       make(chan struct{}),
	}
}

func (h *ChatHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Unblock every pump still parked on the hub channels, then drop
			// the connections so their pumps exit.
			close(h.done)
			for _, clients := range h.channels {
				for c := range clients {
					close(c.send)
					monitoring.ChatConnections.Dec()
				}
			}
			h.channels = make(map[string]map[*chatClient]bool)
			return

		case c := <-h.register:
			if h.channels[c.channel] == nil {
				h.channels[c.channel] = make(map[*chatClient]bool)
			}
			h.channels[c.channel][c] = true
			monitoring.ChatConnections.Inc()
			h.announcePresence(ctx, c.channel, c.userID, true)

		case c := <-h.unregister:
			if clients := h.channels[c.channel]; clients[c] {
				delete(clients, c)
				close(c.send)
				if len(clients) == 0 {
					delete(h.channels, c.channel)
				}
				monitoring.ChatConnections.Dec()
				h.announcePresence(ctx, c.channel, c.userID, false)
			}

		case msg := <-h.broadcast:
			for c := range h.channels[msg.channel] {
				select {
				case c.send <- msg.payload:
				default:
					// Slow consumer; drop the connection rather than block
					// the hub.
					delete(h.channels[msg.channel], c)
					close(c.send)
					monitoring.ChatConnections.Dec()
				}
			}
		}
	}
}

func (h *ChatHub) announcePresence(ctx context.Context, channel string, userID uint, online bool) {
	var err error
	if online {
		err = h.Chats.MarkOnline(ctx, channel, userID)
	} else {
		err = h.Chats.MarkOffline(ctx, channel, userID)
	}
	if err != nil {
		logger.Log.Warn("presence update failed", zap.String("channel", channel), zap.Error(err))
	}

	count, err := h.Chats.OnlineCount(ctx, channel)
	if err != nil {
		return
	}

	payload, _ := json.Marshal(ChatEvent{Event: "presence", Channel: channel, Online: count})
	select {
	case h.broadcast <- broadcastMsg{channel: channel, payload: payload}:
	default:
	}
}

// Join attaches a websocket connection to a channel and starts its pumps.
func (h *ChatHub) Join(conn *websocket.Conn, channel string, userID uint, name string) {
	c := &chatClient{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 32),
		channel: channel,
		userID:  userID,
		name:    name,
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// leave hands the client back to the hub, or gives up once the hub has shut
// down and nobody is draining unregister anymore.
func (c *chatClient) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

func (c *chatClient) readPump() {
	defer func() {
		c.leave()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Debug("chat read error", zap.Error(err))
			}
			return
		}

		var in ChatEvent
		if err := json.Unmarshal(raw, &in); err != nil || in.Content == "" {
			continue
		}

		now := time.Now()
		msg := &model.ChatMessage{
			Channel:     c.channel,
			SenderID:    c.userID,
			SenderName:  c.name,
			Content:     in.Content,
			ClientMsgID: in.ClientMsgID,
		}
		if err := c.hub.Chats.SaveMessage(msg); err != nil {
			logger.Log.Warn("chat persist failed", zap.Error(err))
		}

		payload, _ := json.Marshal(ChatEvent{
			Event:       "message",
			Channel:     c.channel,
			SenderID:    c.userID,
			SenderName:  c.name,
			Content:     in.Content,
			ClientMsgID: in.ClientMsgID,
			SentAt:      now.Format(time.RFC3339),
		})
		select {
		case c.hub.broadcast <- broadcastMsg{channel: c.channel, payload: payload}:
		case <-c.hub.done:
			return
		}
	}
}

func (c *chatClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package service

import (
	"context"
	"engolo_backend/internal/model"
	"engolo_backend/internal/repository"
	"time"
)

type ChatService struct {
	Chats *repository.ChatRepository
	Hub   *ChatHub
}

func NewChatService(chats *repository.ChatRepository, hub *ChatHub) *ChatService {
	return &ChatService{Chats: chats, Hub: hub}
}

// History pages backwards through a channel, oldest first within the page.
func (s *ChatService) History(channel string, before time.Time, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Chats.History(channel, before, limit)
}

func (s *ChatService) OnlineCount(ctx context.Context, channel string) (int64, error) {
	return s.Chats.OnlineCount(ctx, channel)
}

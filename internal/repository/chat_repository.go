package repository

import (
	"context"
	"engolo_backend/internal/model"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type ChatRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewChatRepository(db *gorm.DB, rdb *redis.Client) *ChatRepository {
	return &ChatRepository{DB: db, Redis: rdb}
}

func (r *ChatRepository) SaveMessage(msg *model.ChatMessage) error {
	// Resends carry the same client message id; keep the first copy.
	if msg.ClientMsgID != "" {
		var count int64
		r.DB.Model(&model.ChatMessage{}).
			Where("channel = ? AND client_msg_id = ?", msg.Channel, msg.ClientMsgID).
			Count(&count)
		if count > 0 {
			return nil
		}
	}
	return r.DB.Create(msg).Error
}

func (r *ChatRepository) History(channel string, before time.Time, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	query := r.DB.Where("channel = ?", channel)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// Oldest first for rendering.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func presenceKey(channel string) string {
	return fmt.Sprintf("engolo:chat:online:%s", channel)
}

func (r *ChatRepository) MarkOnline(ctx context.Context, channel string, userID uint) error {
	return r.Redis.SAdd(ctx, presenceKey(channel), userID).Err()
}

func (r *ChatRepository) MarkOffline(ctx context.Context, channel string, userID uint) error {
	return r.Redis.SRem(ctx, presenceKey(channel), userID).Err()
}

func (r *ChatRepository) OnlineCount(ctx context.Context, channel string) (int64, error) {
	return r.Redis.SCard(ctx, presenceKey(channel)).Result()
}

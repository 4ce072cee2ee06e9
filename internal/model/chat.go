package model

// ChatMessage is one message in a channel of the class chat widget. Delivery
// is fan-out over websocket; this table is the durable history.
type ChatMessage struct {
	UUIDBase
	Channel     string `gorm:"size:100;index:idx_channel_created" json:"channel"`
	SenderID    uint   `gorm:"index" json:"senderId"`
	SenderName  string `gorm:"size:100" json:"senderName"`
	Content     string `gorm:"type:text" json:"content"`
	ClientMsgID string `gorm:"size:50;index" json:"clientMsgId"` // dedupes resent messages
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

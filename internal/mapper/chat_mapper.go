package mapper

import (
	"time"

	"ai-planner-be/internal/dto"
	"ai-planner-be/internal/entity"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToHistoryItem(msg *entity.ChatMessage) *dto.ChatHistoryItem {
	if msg == nil {
		return nil
	}
	return &dto.ChatHistoryItem{
		Role:       msg.Role,
		Content:    msg.Content,
		Importance: string(msg.Importance),
		Timestamp:  msg.Timestamp.Format(time.RFC3339),
		Summary:    msg.Summary,
	}
}

func (m *ChatMapper) ToHistoryItems(msgs []entity.ChatMessage) []*dto.ChatHistoryItem {
	out := make([]*dto.ChatHistoryItem, 0, len(msgs))
	for i := range msgs {
		out = append(out, m.ToHistoryItem(&msgs[i]))
	}
	return out
}

package service

import (
	"time"

	supportRespond "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/dto/respond"
	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
)

func toSessionItem(s *supportEntity.SessionSummary) supportRespond.SessionItem {
	item := supportRespond.SessionItem{
		SessionId:        s.SessionId,
		LastMessage:      s.LastMessage,
		LastMessageAt:    s.LastMessageAt.Format(time.RFC3339),
		MessageCount:     s.MessageCount,
		UnreadCount:      s.UnreadCount,
		UserName:         s.UserName,
		UserEmail:        s.UserEmail,
		UserPhone:        s.UserPhone,
		Status:           s.Status,
		AssignmentStatus: s.AssignmentStatus,
	}
	if s.UserId != nil {
		item.UserId = *s.UserId
	}
	if s.AssignedTo != nil {
		item.AssignedTo = *s.AssignedTo
	}
	if s.AssignedAt.Valid {
		item.AssignedAt = s.AssignedAt.Time.Format(time.RFC3339)
	}
	return item
}

func toSessionItems(summaries []supportEntity.SessionSummary) []supportRespond.SessionItem {
	out := make([]supportRespond.SessionItem, 0, len(summaries))
	for i := range summaries {
		out = append(out, toSessionItem(&summaries[i]))
	}
	return out
}

func toMessageItem(m *supportEntity.ChatMessage) supportRespond.SupportMessageItem {
	item := supportRespond.SupportMessageItem{
		Id:               m.Id,
		SessionId:        m.SessionId,
		Sender:           m.Sender,
		Message:          m.Message,
		UserName:         m.UserName,
		Status:           m.Status,
		IsRead:           m.IsRead,
		AssignmentStatus: m.AssignmentStatus,
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
	}
	if m.AssignedTo != nil {
		item.AssignedTo = *m.AssignedTo
	}
	return item
}

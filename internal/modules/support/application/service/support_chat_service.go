package service

import (
	"errors"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	supportRequest "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/dto/request"
	supportRespond "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/dto/respond"
	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
	supportRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/repository"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/util"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"gorm.io/gorm"
)

// SupportChatService is the message flow around the assignment and
// consolidation engines: it persists messages, keeps the duplicated
// session-level fields in agreement on new rows, and fans events out
// through the broadcast gateway.
type SupportChatService interface {
	// SendUserMessage handles an inbound widget message. An empty session
	// id starts a new session; an identified customer triggers duplicate
	// consolidation and the message may land on the surviving session.
	SendUserMessage(req supportRequest.SendSupportMessageRequest) (*supportRespond.SupportMessageItem, error)
	SendAgentReply(agentUuid string, req supportRequest.SendAgentReplyRequest) (*supportRespond.SupportMessageItem, error)
	GetSessionMessages(sessionID string, page int, pageSize int) ([]supportRespond.SupportMessageItem, error)
	MarkSessionRead(sessionID string, sender string) error
	CloseSession(sessionID string) error
}

type supportChatServiceImpl struct {
	msgRepo       supportRepository.ChatMessageRepository
	assignment    AssignmentService
	consolidation ConsolidationService
	gateway       broadcast.Gateway
}

func NewSupportChatService(
	msgRepo supportRepository.ChatMessageRepository,
	assignment AssignmentService,
	consolidation ConsolidationService,
	gateway broadcast.Gateway,
) SupportChatService {
	return &supportChatServiceImpl{
		msgRepo:       msgRepo,
		assignment:    assignment,
		consolidation: consolidation,
		gateway:       gateway,
	}
}

func (s *supportChatServiceImpl) SendUserMessage(req supportRequest.SendSupportMessageRequest) (*supportRespond.SupportMessageItem, error) {
	if req.Message == "" {
		return nil, xerr.New(xerr.BadRequest, "message must not be empty")
	}

	sessionID := req.SessionId
	if sessionID == "" {
		sessionID = util.GenerateSessionID()
	}

	msg := &supportEntity.ChatMessage{
		SessionId:        sessionID,
		Sender:           supportEntity.SenderUser,
		Message:          req.Message,
		UserName:         req.UserName,
		UserEmail:        req.UserEmail,
		UserPhone:        req.UserPhone,
		Status:           supportEntity.StatusPending,
		AssignmentStatus: supportEntity.AssignmentUnassigned,
		CreatedAt:        time.Now(),
	}
	if req.UserId != "" {
		uid := req.UserId
		msg.UserId = &uid
	}
	s.inheritSessionFacts(msg)

	if err := s.msgRepo.Create(msg); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	// An identified customer may have stale sessions from earlier page
	// loads; merge them before assignment so the agent sees one thread.
	if req.UserId != "" && s.consolidation != nil {
		result, err := s.consolidation.ConsolidateUserSessions(req.UserId)
		if err != nil {
			// The message is already stored; consolidation can retry on
			// the next send or the scheduled sweep.
			zlog.Error(err.Error())
		} else if result.Consolidated {
			msg.SessionId = result.MainSessionId
		}
	}

	if s.assignment != nil {
		if _, err := s.assignment.AutoAssign(msg.SessionId); err != nil {
			zlog.Error(err.Error())
		}
	}

	item := toMessageItem(msg)
	payload := messagePayload(msg)
	s.publish(broadcast.ChatTopic(msg.SessionId), broadcast.EventMessageSent, payload)
	// End-user messages mirror to the operator dashboard topic.
	s.publish(broadcast.TopicChatNotifications, broadcast.EventMessageSent, payload)

	return &item, nil
}

func (s *supportChatServiceImpl) SendAgentReply(agentUuid string, req supportRequest.SendAgentReplyRequest) (*supportRespond.SupportMessageItem, error) {
	if req.SessionId == "" || req.Message == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	latest, err := s.msgRepo.LatestBySession(req.SessionId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xerr.New(xerr.NotFound, "session not found")
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	// First agent reply activates a pending session, on every row.
	if latest.Status == supportEntity.StatusPending {
		if _, err := s.msgRepo.UpdateSessionStatus(req.SessionId, supportEntity.StatusActive); err != nil {
			zlog.Error(err.Error())
			return nil, xerr.ErrServerError
		}
		latest.Status = supportEntity.StatusActive
	}

	msg := &supportEntity.ChatMessage{
		SessionId:        req.SessionId,
		Sender:           supportEntity.SenderAgent,
		Message:          req.Message,
		UserId:           latest.UserId,
		UserName:         latest.UserName,
		UserEmail:        latest.UserEmail,
		UserPhone:        latest.UserPhone,
		Status:           latest.Status,
		IsRead:           true,
		AssignedTo:       latest.AssignedTo,
		AssignedAt:       latest.AssignedAt,
		AssignmentStatus: latest.AssignmentStatus,
		CreatedAt:        time.Now(),
	}
	if msg.AssignedTo == nil && agentUuid != "" {
		// Replying claims an unassigned session.
		if _, err := s.assignment.Assign(req.SessionId, agentUuid, supportEntity.AssignmentAssigned); err == nil {
			uid := agentUuid
			msg.AssignedTo = &uid
			msg.AssignmentStatus = supportEntity.AssignmentAssigned
		}
	}

	if err := s.msgRepo.Create(msg); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	item := toMessageItem(msg)
	s.publish(broadcast.ChatTopic(msg.SessionId), broadcast.EventMessageSent, messagePayload(msg))

	return &item, nil
}

func (s *supportChatServiceImpl) GetSessionMessages(sessionID string, page int, pageSize int) ([]supportRespond.SupportMessageItem, error) {
	if sessionID == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	msgs, err := s.msgRepo.ListBySession(sessionID, page, pageSize)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	out := make([]supportRespond.SupportMessageItem, 0, len(msgs))
	for i := range msgs {
		out = append(out, toMessageItem(&msgs[i]))
	}
	return out, nil
}

func (s *supportChatServiceImpl) MarkSessionRead(sessionID string, sender string) error {
	if sessionID == "" {
		return xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	if sender != supportEntity.SenderAgent {
		sender = supportEntity.SenderUser
	}
	if _, err := s.msgRepo.MarkSessionRead(sessionID, sender); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	return nil
}

func (s *supportChatServiceImpl) CloseSession(sessionID string) error {
	if sessionID == "" {
		return xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	rows, err := s.msgRepo.UpdateSessionStatus(sessionID, supportEntity.StatusClosed)
	if err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	if rows > 0 {
		payload := broadcast.Payload{"session_id": sessionID, "status": supportEntity.StatusClosed}
		s.publish(broadcast.ChatTopic(sessionID), broadcast.EventSessionClosed, payload)
		s.publish(broadcast.TopicChatNotifications, broadcast.EventSessionClosed, payload)
	}
	return nil
}

// inheritSessionFacts copies the session-level fields of the latest row
// onto a new row so all rows of the session keep agreeing.
func (s *supportChatServiceImpl) inheritSessionFacts(msg *supportEntity.ChatMessage) {
	latest, err := s.msgRepo.LatestBySession(msg.SessionId)
	if err != nil {
		return
	}
	msg.Status = latest.Status
	msg.AssignedTo = latest.AssignedTo
	msg.AssignedAt = latest.AssignedAt
	msg.AssignmentStatus = latest.AssignmentStatus
	if msg.UserId == nil {
		msg.UserId = latest.UserId
	}
	if msg.UserName == "" {
		msg.UserName = latest.UserName
	}
	if msg.UserEmail == "" {
		msg.UserEmail = latest.UserEmail
	}
	if msg.UserPhone == "" {
		msg.UserPhone = latest.UserPhone
	}
}

func messagePayload(m *supportEntity.ChatMessage) broadcast.Payload {
	assignedTo := ""
	if m.AssignedTo != nil {
		assignedTo = *m.AssignedTo
	}
	return broadcast.Payload{
		"id":                m.Id,
		"session_id":        m.SessionId,
		"sender":            m.Sender,
		"message":           m.Message,
		"user_name":         m.UserName,
		"status":            m.Status,
		"assigned_to":       assignedTo,
		"assignment_status": m.AssignmentStatus,
		"created_at":        m.CreatedAt.Format(time.RFC3339),
	}
}

func (s *supportChatServiceImpl) publish(topic string, event string, payload broadcast.Payload) {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.Publish(topic, event, payload); err != nil {
		zlog.Error(err.Error())
	}
}

package service

import (
	"errors"
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	supportRespond "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/dto/respond"
	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
	supportRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/repository"
	userEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/entity"
	userRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/user/domain/repository"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"

	"gorm.io/gorm"
)

// AssignmentService decides which agent owns a support session and persists
// that decision across all of the session's message rows atomically.
//
// Absent agents and absent sessions are silent no-ops: the engine reports
// them through nil/false results, never through errors.
type AssignmentService interface {
	AutoAssign(sessionID string) (*supportRespond.AgentAssignmentItem, error)
	Assign(sessionID string, agentUuid string, assignmentStatus string) (bool, error)
	Unassign(sessionID string) error
	IsAssignedTo(sessionID string, agentUuid string) (bool, error)
	GetSessionAssignment(sessionID string) (*supportRespond.SessionItem, error)
	ListAssignedSessions(agentUuid string) ([]supportRespond.SessionItem, error)
	ListUnassignedSessions() ([]supportRespond.SessionItem, error)
}

type assignmentServiceImpl struct {
	msgRepo   supportRepository.ChatMessageRepository
	userRepo  userRepository.UserRepository
	gateway   broadcast.Gateway
	agentRole string
}

func NewAssignmentService(
	msgRepo supportRepository.ChatMessageRepository,
	userRepo userRepository.UserRepository,
	gateway broadcast.Gateway,
	agentRole string,
) AssignmentService {
	return &assignmentServiceImpl{
		msgRepo:   msgRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		agentRole: agentRole,
	}
}

func (s *assignmentServiceImpl) AutoAssign(sessionID string) (*supportRespond.AgentAssignmentItem, error) {
	if sessionID == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	latest, err := s.msgRepo.LatestBySession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown session: no-op.
			return nil, nil
		}
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	// Auto-assignment never overrides an existing assignment.
	if latest.AssignedTo != nil {
		return s.agentItem(*latest.AssignedTo), nil
	}

	agents, err := s.userRepo.ListByRole(s.agentRole)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if len(agents) == 0 {
		return nil, nil
	}

	counts, err := s.msgRepo.CountActiveSessionsByAgent()
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	best := pickLeastBusy(agents, counts)

	rows, err := s.msgRepo.AssignSessionIfUnassigned(sessionID, best.Uuid, time.Now())
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if rows == 0 {
		// Lost a concurrent auto-assign, or the session vanished. Re-read
		// and report whoever actually owns it.
		latest, err = s.msgRepo.LatestBySession(sessionID)
		if err != nil || latest.AssignedTo == nil {
			return nil, nil
		}
		return s.agentItem(*latest.AssignedTo), nil
	}

	s.publishAssignment(sessionID, best.Uuid, supportEntity.AssignmentAutoAssigned)
	return &supportRespond.AgentAssignmentItem{Uuid: best.Uuid, Name: best.DisplayName()}, nil
}

// pickLeastBusy selects the agent with the fewest non-closed sessions.
// Agents arrive ordered by id ascending, so ties deterministically resolve
// to the lowest agent id.
func pickLeastBusy(agents []userEntity.User, counts map[string]int64) *userEntity.User {
	best := &agents[0]
	bestCount := counts[best.Uuid]
	for i := 1; i < len(agents); i++ {
		if c := counts[agents[i].Uuid]; c < bestCount {
			best = &agents[i]
			bestCount = c
		}
	}
	return best
}

func (s *assignmentServiceImpl) Assign(sessionID string, agentUuid string, assignmentStatus string) (bool, error) {
	if sessionID == "" || agentUuid == "" {
		return false, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	if assignmentStatus != supportEntity.AssignmentAutoAssigned {
		assignmentStatus = supportEntity.AssignmentAssigned
	}

	rows, err := s.msgRepo.AssignSession(sessionID, agentUuid, assignmentStatus, time.Now())
	if err != nil {
		zlog.Error(err.Error())
		return false, xerr.ErrServerError
	}
	if rows == 0 {
		// Unknown session: soft-fail, the caller decides what to surface.
		return false, nil
	}

	s.publishAssignment(sessionID, agentUuid, assignmentStatus)
	return true, nil
}

func (s *assignmentServiceImpl) Unassign(sessionID string) error {
	if sessionID == "" {
		return xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	rows, err := s.msgRepo.UnassignSession(sessionID)
	if err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	if rows > 0 {
		s.publish(broadcast.ChatTopic(sessionID), broadcast.EventSessionUnassigned, broadcast.Payload{
			"session_id":        sessionID,
			"assigned_to":       "",
			"assignment_status": supportEntity.AssignmentUnassigned,
		})
	}
	return nil
}

func (s *assignmentServiceImpl) IsAssignedTo(sessionID string, agentUuid string) (bool, error) {
	if sessionID == "" || agentUuid == "" {
		return false, nil
	}
	assigned, err := s.msgRepo.IsAssignedTo(sessionID, agentUuid)
	if err != nil {
		zlog.Error(err.Error())
		return false, xerr.ErrServerError
	}
	return assigned, nil
}

func (s *assignmentServiceImpl) GetSessionAssignment(sessionID string) (*supportRespond.SessionItem, error) {
	if sessionID == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	summary, err := s.msgRepo.SessionSummary(sessionID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if summary == nil {
		return nil, nil
	}
	item := toSessionItem(summary)
	return &item, nil
}

func (s *assignmentServiceImpl) ListAssignedSessions(agentUuid string) ([]supportRespond.SessionItem, error) {
	if agentUuid == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	summaries, err := s.msgRepo.SessionSummaries(supportRepository.SummaryFilter{AssignedTo: &agentUuid})
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return toSessionItems(summaries), nil
}

func (s *assignmentServiceImpl) ListUnassignedSessions() ([]supportRespond.SessionItem, error) {
	summaries, err := s.msgRepo.SessionSummaries(supportRepository.SummaryFilter{Unassigned: true})
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return toSessionItems(summaries), nil
}

func (s *assignmentServiceImpl) agentItem(agentUuid string) *supportRespond.AgentAssignmentItem {
	item := &supportRespond.AgentAssignmentItem{Uuid: agentUuid}
	agent, err := s.userRepo.GetByUuid(agentUuid)
	if err == nil {
		item.Name = agent.DisplayName()
	}
	return item
}

func (s *assignmentServiceImpl) publishAssignment(sessionID string, agentUuid string, assignmentStatus string) {
	payload := broadcast.Payload{
		"session_id":        sessionID,
		"assigned_to":       agentUuid,
		"assignment_status": assignmentStatus,
	}
	s.publish(broadcast.ChatTopic(sessionID), broadcast.EventSessionAssigned, payload)
	s.publish(broadcast.TopicChatNotifications, broadcast.EventSessionAssigned, payload)
}

func (s *assignmentServiceImpl) publish(topic string, event string, payload broadcast.Payload) {
	if s.gateway == nil {
		return
	}
	if err := s.gateway.Publish(topic, event, payload); err != nil {
		zlog.Error(err.Error())
	}
}

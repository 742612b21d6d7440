package service

import (
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/broadcast"
	supportRespond "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/application/dto/respond"
	supportRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/repository"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"
)

// ConsolidationService merges the duplicate sessions a customer accumulates
// when the chat widget mints a fresh session id across page reloads. The
// session with the newest message wins; every other session's rows are
// re-keyed onto it in one transaction so concurrent readers never see a
// half-moved session.
type ConsolidationService interface {
	ConsolidateUserSessions(userID string) (*supportRespond.ConsolidationResult, error)
	ConsolidateAllDuplicateSessions() (*supportRespond.ConsolidationReport, error)
}

type consolidationServiceImpl struct {
	msgRepo supportRepository.ChatMessageRepository
	gateway broadcast.Gateway
}

func NewConsolidationService(msgRepo supportRepository.ChatMessageRepository, gateway broadcast.Gateway) ConsolidationService {
	return &consolidationServiceImpl{msgRepo: msgRepo, gateway: gateway}
}

func (s *consolidationServiceImpl) ConsolidateUserSessions(userID string) (*supportRespond.ConsolidationResult, error) {
	if userID == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	stats, err := s.msgRepo.ListUserSessionStats(userID)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if len(stats) <= 1 {
		return &supportRespond.ConsolidationResult{Consolidated: false}, nil
	}

	// Stats arrive newest first (timestamp ties resolve to the lower
	// session id), so the head is the keep session.
	keep := stats[0].SessionId
	removed := make([]string, 0, len(stats)-1)
	for i := 1; i < len(stats); i++ {
		removed = append(removed, stats[i].SessionId)
	}

	moved, err := s.msgRepo.RekeySessions(keep, removed)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	if s.gateway != nil {
		err := s.gateway.Publish(broadcast.TopicChatNotifications, broadcast.EventSessionConsolidated, broadcast.Payload{
			"user_id":          userID,
			"main_session_id":  keep,
			"sessions_removed": len(removed),
			"messages_moved":   moved,
		})
		if err != nil {
			zlog.Error(err.Error())
		}
	}

	return &supportRespond.ConsolidationResult{
		Consolidated:         true,
		MainSessionId:        keep,
		SessionsRemoved:      removed,
		MessagesConsolidated: moved,
	}, nil
}

func (s *consolidationServiceImpl) ConsolidateAllDuplicateSessions() (*supportRespond.ConsolidationReport, error) {
	userIDs, err := s.msgRepo.ListDuplicateUserIDs()
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	report := &supportRespond.ConsolidationReport{}
	for _, uid := range userIDs {
		report.UsersProcessed++
		result, err := s.ConsolidateUserSessions(uid)
		if err != nil {
			zlog.Error("consolidation failed for user " + uid + ": " + err.Error())
			continue
		}
		if result.Consolidated {
			report.UsersConsolidated++
			report.MessagesConsolidated += result.MessagesConsolidated
		}
	}
	return report, nil
}

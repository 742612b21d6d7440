package persistence

import (
	"sort"
	"time"

	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
	supportRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/repository"

	"gorm.io/gorm"
)

type chatMessageRepositoryImpl struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) supportRepository.ChatMessageRepository {
	return &chatMessageRepositoryImpl{db: db}
}

func (r *chatMessageRepositoryImpl) Create(msg *supportEntity.ChatMessage) error {
	return r.db.Create(msg).Error
}

func (r *chatMessageRepositoryImpl) LatestBySession(sessionID string) (*supportEntity.ChatMessage, error) {
	var msg supportEntity.ChatMessage
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("id DESC").
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatMessageRepositoryImpl) ListBySession(sessionID string, page int, pageSize int) ([]supportEntity.ChatMessage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	var msgs []supportEntity.ChatMessage
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *chatMessageRepositoryImpl) AssignSession(sessionID string, agentUuid string, assignmentStatus string, at time.Time) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&supportEntity.ChatMessage{}).
			Where("session_id = ?", sessionID).
			Updates(map[string]interface{}{
				"assigned_to":       agentUuid,
				"assigned_at":       at,
				"assignment_status": assignmentStatus,
				"status":            supportEntity.StatusPending,
			})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *chatMessageRepositoryImpl) AssignSessionIfUnassigned(sessionID string, agentUuid string, at time.Time) (int64, error) {
	// Single conditional statement: the derived-table wrapper keeps MySQL
	// happy about updating the table it also reads from.
	res := r.db.Exec(
		`UPDATE chat_message
		 SET assigned_to = ?, assigned_at = ?, assignment_status = ?, status = ?
		 WHERE session_id = ?
		 AND NOT EXISTS (
		 	SELECT 1 FROM (
		 		SELECT id FROM chat_message WHERE session_id = ? AND assigned_to IS NOT NULL
		 	) AS assigned_rows
		 )`,
		agentUuid, at, supportEntity.AssignmentAutoAssigned, supportEntity.StatusPending,
		sessionID, sessionID,
	)
	return res.RowsAffected, res.Error
}

func (r *chatMessageRepositoryImpl) UnassignSession(sessionID string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&supportEntity.ChatMessage{}).
			Where("session_id = ?", sessionID).
			Updates(map[string]interface{}{
				"assigned_to":       nil,
				"assigned_at":       nil,
				"assignment_status": supportEntity.AssignmentUnassigned,
			})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *chatMessageRepositoryImpl) IsAssignedTo(sessionID string, agentUuid string) (bool, error) {
	var count int64
	err := r.db.Model(&supportEntity.ChatMessage{}).
		Where("session_id = ? AND assigned_to = ?", sessionID, agentUuid).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// sessionRollup holds only integer/string aggregates so it scans cleanly on
// both MySQL and sqlite; the time-valued session facts come from the latest
// row fetched afterwards.
type sessionRollup struct {
	SessionId    string
	LastId       int64
	MessageCount int64
	UnreadCount  int64
}

func (r *chatMessageRepositoryImpl) rollups(filter supportRepository.SummaryFilter) ([]sessionRollup, error) {
	q := r.db.Model(&supportEntity.ChatMessage{}).
		Select("session_id, MAX(id) AS last_id, COUNT(*) AS message_count, SUM(CASE WHEN is_read THEN 0 ELSE 1 END) AS unread_count")

	if !filter.IncludeClosed {
		q = q.Where("status <> ?", supportEntity.StatusClosed)
	}
	if filter.SessionId != "" {
		q = q.Where("session_id = ?", filter.SessionId)
	}
	if filter.UserId != "" {
		q = q.Where("user_id = ?", filter.UserId)
	}
	if filter.Unassigned {
		q = q.Where("assigned_to IS NULL")
	} else if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var rollups []sessionRollup
	if err := q.Group("session_id").Scan(&rollups).Error; err != nil {
		return nil, err
	}
	return rollups, nil
}

func (r *chatMessageRepositoryImpl) SessionSummaries(filter supportRepository.SummaryFilter) ([]supportEntity.SessionSummary, error) {
	rollups, err := r.rollups(filter)
	if err != nil {
		return nil, err
	}
	if len(rollups) == 0 {
		return nil, nil
	}

	lastIDs := make([]int64, 0, len(rollups))
	for i := range rollups {
		lastIDs = append(lastIDs, rollups[i].LastId)
	}

	var latest []supportEntity.ChatMessage
	if err := r.db.Where("id IN ?", lastIDs).Find(&latest).Error; err != nil {
		return nil, err
	}
	latestBySession := make(map[string]*supportEntity.ChatMessage, len(latest))
	for i := range latest {
		latestBySession[latest[i].SessionId] = &latest[i]
	}

	out := make([]supportEntity.SessionSummary, 0, len(rollups))
	for i := range rollups {
		roll := rollups[i]
		msg := latestBySession[roll.SessionId]
		if msg == nil {
			continue
		}
		out = append(out, supportEntity.SessionSummary{
			SessionId:        roll.SessionId,
			LastMessageAt:    msg.CreatedAt,
			LastMessage:      msg.Message,
			MessageCount:     roll.MessageCount,
			UnreadCount:      roll.UnreadCount,
			UserId:           msg.UserId,
			UserName:         msg.UserName,
			UserEmail:        msg.UserEmail,
			UserPhone:        msg.UserPhone,
			Status:           msg.Status,
			AssignedTo:       msg.AssignedTo,
			AssignedAt:       msg.AssignedAt,
			AssignmentStatus: msg.AssignmentStatus,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastMessageAt.Equal(out[j].LastMessageAt) {
			return out[i].LastMessageAt.After(out[j].LastMessageAt)
		}
		return out[i].SessionId < out[j].SessionId
	})
	return out, nil
}

func (r *chatMessageRepositoryImpl) SessionSummary(sessionID string) (*supportEntity.SessionSummary, error) {
	summaries, err := r.SessionSummaries(supportRepository.SummaryFilter{
		SessionId:     sessionID,
		IncludeClosed: true,
	})
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}

func (r *chatMessageRepositoryImpl) CountActiveSessionsByAgent() (map[string]int64, error) {
	type agentCount struct {
		AssignedTo  string
		ActiveCount int64
	}
	var rows []agentCount
	err := r.db.Model(&supportEntity.ChatMessage{}).
		Select("assigned_to, COUNT(DISTINCT session_id) AS active_count").
		Where("assigned_to IS NOT NULL AND status <> ?", supportEntity.StatusClosed).
		Group("assigned_to").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for i := range rows {
		counts[rows[i].AssignedTo] = rows[i].ActiveCount
	}
	return counts, nil
}

func (r *chatMessageRepositoryImpl) ListUserSessionStats(userID string) ([]supportEntity.SessionStat, error) {
	rollups, err := r.rollups(supportRepository.SummaryFilter{UserId: userID})
	if err != nil {
		return nil, err
	}
	if len(rollups) == 0 {
		return nil, nil
	}

	lastIDs := make([]int64, 0, len(rollups))
	for i := range rollups {
		lastIDs = append(lastIDs, rollups[i].LastId)
	}
	var latest []supportEntity.ChatMessage
	if err := r.db.Select("id", "session_id", "created_at").Where("id IN ?", lastIDs).Find(&latest).Error; err != nil {
		return nil, err
	}
	lastAt := make(map[string]time.Time, len(latest))
	for i := range latest {
		lastAt[latest[i].SessionId] = latest[i].CreatedAt
	}

	stats := make([]supportEntity.SessionStat, 0, len(rollups))
	for i := range rollups {
		stats = append(stats, supportEntity.SessionStat{
			SessionId:     rollups[i].SessionId,
			LastMessageAt: lastAt[rollups[i].SessionId],
			MessageCount:  rollups[i].MessageCount,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].LastMessageAt.Equal(stats[j].LastMessageAt) {
			return stats[i].LastMessageAt.After(stats[j].LastMessageAt)
		}
		return stats[i].SessionId < stats[j].SessionId
	})
	return stats, nil
}

func (r *chatMessageRepositoryImpl) RekeySessions(keepID string, removeIDs []string) (int64, error) {
	if keepID == "" || len(removeIDs) == 0 {
		return 0, nil
	}
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&supportEntity.ChatMessage{}).
			Where("session_id IN ?", removeIDs).
			Update("session_id", keepID)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return harmonizeSessionFacts(tx, keepID)
	})
	return affected, err
}

// harmonizeSessionFacts rewrites the session-level fields on every row of a
// freshly merged session so the rows agree again. Without it a merged row
// keeps the assignment and status of the session it came from, and the
// session matches more than one rollup filter at once (unassigned and
// assigned-to-agent). The assignment with the newest assigned_at wins, the
// newest row provides the status, and contact fields take the newest
// non-empty values.
func harmonizeSessionFacts(tx *gorm.DB, sessionID string) error {
	var rows []supportEntity.ChatMessage
	err := tx.
		Select("id", "status", "user_id", "user_name", "user_email", "user_phone",
			"assigned_to", "assigned_at", "assignment_status").
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	facts := map[string]interface{}{
		"status": rows[len(rows)-1].Status,
	}

	var owner *supportEntity.ChatMessage
	for i := range rows {
		if rows[i].AssignedTo == nil {
			continue
		}
		if owner == nil || rows[i].AssignedAt.Time.After(owner.AssignedAt.Time) {
			owner = &rows[i]
		}
	}
	if owner != nil {
		facts["assigned_to"] = *owner.AssignedTo
		facts["assigned_at"] = owner.AssignedAt
		facts["assignment_status"] = owner.AssignmentStatus
	} else {
		facts["assigned_to"] = nil
		facts["assigned_at"] = nil
		facts["assignment_status"] = supportEntity.AssignmentUnassigned
	}

	var userID *string
	name, email, phone := "", "", ""
	for i := range rows {
		if rows[i].UserId != nil && *rows[i].UserId != "" {
			userID = rows[i].UserId
		}
		if rows[i].UserName != "" {
			name = rows[i].UserName
		}
		if rows[i].UserEmail != "" {
			email = rows[i].UserEmail
		}
		if rows[i].UserPhone != "" {
			phone = rows[i].UserPhone
		}
	}
	facts["user_id"] = userID
	facts["user_name"] = name
	facts["user_email"] = email
	facts["user_phone"] = phone

	return tx.Model(&supportEntity.ChatMessage{}).
		Where("session_id = ?", sessionID).
		Updates(facts).Error
}

func (r *chatMessageRepositoryImpl) ListDuplicateUserIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&supportEntity.ChatMessage{}).
		Where("user_id IS NOT NULL AND user_id <> '' AND status <> ?", supportEntity.StatusClosed).
		Group("user_id").
		Having("COUNT(DISTINCT session_id) > 1").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *chatMessageRepositoryImpl) UpdateSessionStatus(sessionID string, status string) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&supportEntity.ChatMessage{}).
			Where("session_id = ?", sessionID).
			Update("status", status)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *chatMessageRepositoryImpl) MarkSessionRead(sessionID string, sender string) (int64, error) {
	res := r.db.Model(&supportEntity.ChatMessage{}).
		Where("session_id = ? AND sender = ? AND is_read = ?", sessionID, sender, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

package repository

import (
	"time"

	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
)

// SummaryFilter narrows the session aggregate query. Closed sessions are
// excluded unless IncludeClosed is set.
type SummaryFilter struct {
	SessionId     string
	AssignedTo    *string
	Unassigned    bool
	UserId        string
	IncludeClosed bool
}

type ChatMessageRepository interface {
	Create(msg *entity.ChatMessage) error
	// LatestBySession returns the newest row of the session, which carries
	// the session-level assignment and status facts.
	LatestBySession(sessionID string) (*entity.ChatMessage, error)
	ListBySession(sessionID string, page int, pageSize int) ([]entity.ChatMessage, error)

	// AssignSession rewrites the assignment fields on every row of the
	// session in one transaction and resets status to pending. Returns the
	// number of rows touched; zero means the session does not exist.
	AssignSession(sessionID string, agentUuid string, assignmentStatus string, at time.Time) (int64, error)
	// AssignSessionIfUnassigned is the conditional variant used by
	// auto-assignment: the update applies only while no row of the session
	// carries an assignment, so concurrent auto-assigns cannot overwrite
	// each other. Zero rows affected means the session is gone or someone
	// else won.
	AssignSessionIfUnassigned(sessionID string, agentUuid string, at time.Time) (int64, error)
	UnassignSession(sessionID string) (int64, error)
	IsAssignedTo(sessionID string, agentUuid string) (bool, error)

	SessionSummaries(filter SummaryFilter) ([]entity.SessionSummary, error)
	SessionSummary(sessionID string) (*entity.SessionSummary, error)
	// CountActiveSessionsByAgent maps agent uuid to COUNT(DISTINCT
	// session_id) over that agent's non-closed rows.
	CountActiveSessionsByAgent() (map[string]int64, error)

	// ListUserSessionStats returns the user's non-closed sessions newest
	// first (ties by session id ascending).
	ListUserSessionStats(userID string) ([]entity.SessionStat, error)
	// RekeySessions rewrites session_id on every row of removeIDs to
	// keepID and, in the same transaction, harmonizes the session-level
	// facts (assignment, status, contact info) across all rows of the
	// merged session so they agree again. Reports rows moved.
	RekeySessions(keepID string, removeIDs []string) (int64, error)
	// ListDuplicateUserIDs returns users owning more than one distinct
	// non-closed session.
	ListDuplicateUserIDs() ([]string, error)

	UpdateSessionStatus(sessionID string, status string) (int64, error)
	MarkSessionRead(sessionID string, sender string) (int64, error)
}

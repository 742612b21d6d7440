package persistence

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	supportEntity "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/entity"
	supportRepository "github.com/Sunly24/Phone-Shop-POS-sub004/internal/modules/support/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newRepo(t *testing.T) supportRepository.ChatMessageRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:chat_repo_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&supportEntity.ChatMessage{}))
	return NewChatMessageRepository(db)
}

func addRow(t *testing.T, repo supportRepository.ChatMessageRepository, msg supportEntity.ChatMessage) {
	t.Helper()
	if msg.Sender == "" {
		msg.Sender = supportEntity.SenderUser
	}
	if msg.Status == "" {
		msg.Status = supportEntity.StatusPending
	}
	if msg.AssignmentStatus == "" {
		msg.AssignmentStatus = supportEntity.AssignmentUnassigned
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	require.NoError(t, repo.Create(&msg))
}

func TestAssignSessionIfUnassignedWinsOnlyOnce(t *testing.T) {
	repo := newRepo(t)
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S1", Message: "a"})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S1", Message: "b"})

	rows, err := repo.AssignSessionIfUnassigned("S1", "agent-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	// The conditional update losing side touches nothing.
	rows, err = repo.AssignSessionIfUnassigned("S1", "agent-2", time.Now())
	require.NoError(t, err)
	assert.Zero(t, rows)

	latest, err := repo.LatestBySession("S1")
	require.NoError(t, err)
	require.NotNil(t, latest.AssignedTo)
	assert.Equal(t, "agent-1", *latest.AssignedTo)
}

func TestAssignSessionIfUnassignedUnknownSession(t *testing.T) {
	repo := newRepo(t)
	rows, err := repo.AssignSessionIfUnassigned("S-missing", "agent-1", time.Now())
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestSessionSummariesCountsAndOrdering(t *testing.T) {
	repo := newRepo(t)
	base := time.Now().Add(-time.Hour)

	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S-old", Message: "first", CreatedAt: base})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S-old", Message: "second", IsRead: true, CreatedAt: base.Add(time.Minute)})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S-new", Message: "newest", UserName: "Dara", CreatedAt: base.Add(30 * time.Minute)})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S-closed", Message: "done", Status: supportEntity.StatusClosed, CreatedAt: base.Add(40 * time.Minute)})

	summaries, err := repo.SessionSummaries(supportRepository.SummaryFilter{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Newest session first.
	assert.Equal(t, "S-new", summaries[0].SessionId)
	assert.Equal(t, "newest", summaries[0].LastMessage)
	assert.Equal(t, "Dara", summaries[0].UserName)
	assert.Equal(t, int64(1), summaries[0].MessageCount)

	assert.Equal(t, "S-old", summaries[1].SessionId)
	assert.Equal(t, "second", summaries[1].LastMessage)
	assert.Equal(t, int64(2), summaries[1].MessageCount)
	assert.Equal(t, int64(1), summaries[1].UnreadCount)
}

func TestSessionSummaryIncludesClosedSessions(t *testing.T) {
	repo := newRepo(t)
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S1", Message: "bye", Status: supportEntity.StatusClosed})

	summary, err := repo.SessionSummary("S1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, supportEntity.StatusClosed, summary.Status)

	missing, err := repo.SessionSummary("S-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCountActiveSessionsByAgentCountsDistinctSessions(t *testing.T) {
	repo := newRepo(t)

	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S1", Message: "a", AssignedTo: ptr("agent-1"), Status: supportEntity.StatusActive})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S1", Message: "b", AssignedTo: ptr("agent-1"), Status: supportEntity.StatusActive})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S2", Message: "c", AssignedTo: ptr("agent-1"), Status: supportEntity.StatusPending})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S3", Message: "d", AssignedTo: ptr("agent-2"), Status: supportEntity.StatusClosed})

	counts, err := repo.CountActiveSessionsByAgent()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["agent-1"])
	// Closed sessions do not count as load.
	assert.Zero(t, counts["agent-2"])
}

func TestRekeySessionsMovesAllRows(t *testing.T) {
	repo := newRepo(t)
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S1", Message: "a"})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S2", Message: "b"})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S2", Message: "c"})

	moved, err := repo.RekeySessions("S1", []string{"S2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	msgs, err := repo.ListBySession("S1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestRekeySessionsHarmonizesSessionFacts(t *testing.T) {
	repo := newRepo(t)
	base := time.Now().Add(-time.Hour)
	uid := "cust-1"
	assignedAt := sql.NullTime{Time: base.Add(time.Minute), Valid: true}

	// Older session owned by an agent, newer one still unassigned.
	addRow(t, repo, supportEntity.ChatMessage{
		SessionId: "S-old", Message: "help", UserId: &uid, UserName: "Dara",
		AssignedTo: ptr("agent-1"), AssignedAt: assignedAt,
		AssignmentStatus: supportEntity.AssignmentAssigned,
		CreatedAt:        base,
	})
	addRow(t, repo, supportEntity.ChatMessage{
		SessionId: "S-new", Message: "still there?", UserId: &uid,
		CreatedAt: base.Add(30 * time.Minute),
	})

	moved, err := repo.RekeySessions("S-new", []string{"S-old"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	// The merged session must land in exactly one queue.
	unassigned, err := repo.SessionSummaries(supportRepository.SummaryFilter{Unassigned: true})
	require.NoError(t, err)
	assert.Empty(t, unassigned)

	mine, err := repo.SessionSummaries(supportRepository.SummaryFilter{AssignedTo: ptr("agent-1")})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "S-new", mine[0].SessionId)
	require.NotNil(t, mine[0].AssignedTo)
	assert.Equal(t, "agent-1", *mine[0].AssignedTo)
	assert.Equal(t, supportEntity.AssignmentAssigned, mine[0].AssignmentStatus)
	// Contact facts survive the merge even when the newest row lacked them.
	assert.Equal(t, "Dara", mine[0].UserName)

	counts, err := repo.CountActiveSessionsByAgent()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["agent-1"])

	// Every row carries the same facts.
	msgs, err := repo.ListBySession("S-new", 1, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		require.NotNil(t, m.AssignedTo)
		assert.Equal(t, "agent-1", *m.AssignedTo)
		assert.Equal(t, "Dara", m.UserName)
	}
}

func TestRekeySessionsEmptyArgsAreNoOps(t *testing.T) {
	repo := newRepo(t)
	moved, err := repo.RekeySessions("", []string{"S1"})
	require.NoError(t, err)
	assert.Zero(t, moved)

	moved, err = repo.RekeySessions("S1", nil)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestListDuplicateUserIDsSkipsClosedAndAnonymous(t *testing.T) {
	repo := newRepo(t)
	dup := "cust-dup"
	closed := "cust-closed"

	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S1", UserId: &dup, Message: "a"})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S2", UserId: &dup, Message: "b"})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S3", UserId: &closed, Message: "c", Status: supportEntity.StatusClosed})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S4", UserId: &closed, Message: "d", Status: supportEntity.StatusClosed})
	addRow(t, repo, supportEntity.ChatMessage{SessionId: "S5", Message: "anon"})

	ids, err := repo.ListDuplicateUserIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{dup}, ids)
}

func ptr(s string) *string {
	return &s
}

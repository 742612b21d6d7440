package entity

import (
	"database/sql"
	"time"
)

// Message sender kinds.
const (
	SenderUser   = "user"
	SenderAgent  = "agent"
	SenderSystem = "system"
)

// Session status values. A session moves pending -> active on the first
// agent reply, active -> closed on operator action, and any assignment
// write resets it back to pending.
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusClosed  = "closed"
)

// Assignment status values.
const (
	AssignmentUnassigned   = "unassigned"
	AssignmentAssigned     = "assigned"
	AssignmentAutoAssigned = "auto-assigned"
)

// ChatMessage is one message of a support conversation. A session is not
// stored anywhere as its own row: it is the set of messages sharing a
// session_id, and session-level facts (status, assignment, contact info)
// are duplicated onto every row. Any session-level mutation therefore has
// to update all rows of the session in one transaction so they never
// disagree.
type ChatMessage struct {
	Id               int64          `gorm:"column:id;primaryKey;autoIncrement"`
	SessionId        string         `gorm:"column:session_id;index;type:char(24);not null"`
	Sender           string         `gorm:"column:sender;type:varchar(8);not null"`
	Message          string         `gorm:"column:message;type:text"`
	UserId           *string        `gorm:"column:user_id;index;type:char(36)"`
	UserName         string         `gorm:"column:user_name;type:varchar(64)"`
	UserEmail        string         `gorm:"column:user_email;type:varchar(128)"`
	UserPhone        string         `gorm:"column:user_phone;type:varchar(32)"`
	Status           string         `gorm:"column:status;index;type:varchar(8);not null;default:pending"`
	IsRead           bool           `gorm:"column:is_read;not null;default:false"`
	AssignedTo       *string        `gorm:"column:assigned_to;index;type:char(36)"`
	AssignedAt       sql.NullTime   `gorm:"column:assigned_at"`
	AssignmentStatus string         `gorm:"column:assignment_status;type:varchar(16);not null;default:unassigned"`
	CreatedAt        time.Time      `gorm:"column:created_at;index;not null"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}

// SessionSummary is the derived session-level view: counts from the
// aggregate query plus the session facts carried by the latest row.
type SessionSummary struct {
	SessionId        string
	LastMessageAt    time.Time
	LastMessage      string
	MessageCount     int64
	UnreadCount      int64
	UserId           *string
	UserName         string
	UserEmail        string
	UserPhone        string
	Status           string
	AssignedTo       *string
	AssignedAt       sql.NullTime
	AssignmentStatus string
}

// SessionStat is the consolidation engine's slim per-session rollup.
type SessionStat struct {
	SessionId     string
	LastMessageAt time.Time
	MessageCount  int64
}

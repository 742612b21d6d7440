package respond

type SupportMessageItem struct {
	Id               int64  `json:"id"`
	SessionId        string `json:"session_id"`
	Sender           string `json:"sender"`
	Message          string `json:"message"`
	UserName         string `json:"user_name,omitempty"`
	Status           string `json:"status"`
	IsRead           bool   `json:"is_read"`
	AssignedTo       string `json:"assigned_to,omitempty"`
	AssignmentStatus string `json:"assignment_status"`
	CreatedAt        string `json:"created_at"`
}

type SessionItem struct {
	SessionId        string `json:"session_id"`
	LastMessage      string `json:"last_message"`
	LastMessageAt    string `json:"last_message_at"`
	MessageCount     int64  `json:"message_count"`
	UnreadCount      int64  `json:"unread_count"`
	UserId           string `json:"user_id,omitempty"`
	UserName         string `json:"user_name,omitempty"`
	UserEmail        string `json:"user_email,omitempty"`
	UserPhone        string `json:"user_phone,omitempty"`
	Status           string `json:"status"`
	AssignedTo       string `json:"assigned_to,omitempty"`
	AssignedAt       string `json:"assigned_at,omitempty"`
	AssignmentStatus string `json:"assignment_status"`
}

type AgentAssignmentItem struct {
	Uuid string `json:"uuid"`
	Name string `json:"name"`
}

type ConsolidationResult struct {
	Consolidated         bool     `json:"consolidated"`
	MainSessionId        string   `json:"main_session_id,omitempty"`
	SessionsRemoved      []string `json:"sessions_removed,omitempty"`
	MessagesConsolidated int64    `json:"messages_consolidated"`
}

type ConsolidationReport struct {
	UsersProcessed       int   `json:"users_processed"`
	UsersConsolidated    int   `json:"users_consolidated"`
	MessagesConsolidated int64 `json:"messages_consolidated"`
}

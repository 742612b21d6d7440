package request

type SendSupportMessageRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
	UserId    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	UserPhone string `json:"user_phone"`
}

type SendAgentReplyRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type AssignRequest struct {
	SessionId        string `json:"session_id"`
	AgentUuid        string `json:"agent_uuid"`
	AssignmentStatus string `json:"assignment_status"`
}

type SessionRequest struct {
	SessionId string `json:"session_id"`
}

type SessionMessagesRequest struct {
	SessionId string `json:"session_id"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

type ConsolidateRequest struct {
	UserId string `json:"user_id"`
}

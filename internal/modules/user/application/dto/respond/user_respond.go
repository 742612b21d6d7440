package respond

type LoginRespond struct {
	Token    string   `json:"token"`
	Uuid     string   `json:"uuid"`
	Username string   `json:"username"`
	Nickname string   `json:"nickname"`
	Roles    []string `json:"roles"`
}

type AgentItem struct {
	Uuid     string `json:"uuid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Online   bool   `json:"online"`
	Sessions int64  `json:"sessions"`
}

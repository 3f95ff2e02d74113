package chat

// Role identifies who authored a dialogue turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one seeded or exchanged dialogue message.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

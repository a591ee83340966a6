package chat

// Roles a turn can carry. Nothing else ever appears in a history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message exchange unit in a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Package models contains the data types shared by the offsum surfaces.
package models

// Role tags the author of a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents one turn in the chat log
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// DemoConversation returns the conversation a fresh demo session starts with
func DemoConversation() []Message {
	return []Message{
		{Role: RoleUser, Content: "Can you summarize this paragraph for me?"},
		{Role: RoleAssistant, Content: "Sure! Please paste the text you want me to summarize."},
		{Role: RoleUser, Content: "Artificial Intelligence is transforming industries by automating tasks, improving decision-making, and enabling new products and services."},
		{Role: RoleAssistant, Content: "📝 **Summary:**\n\nArtificial Intelligence is changing industries by automating work, enhancing decisions, and creating innovative products and services."},
	}
}

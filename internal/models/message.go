package models

import "fmt"

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a message authored by the user
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message authored by the assistant
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ChatRequest is the JSON body posted to the chat endpoint
type ChatRequest struct {
	Message string    `json:"message"`
	History []Message `json:"history"`
}

// UploadResponse is the JSON body returned by the upload endpoint
type UploadResponse struct {
	Text string `json:"text"`
}

// UploadSummary builds the assistant message announcing extracted file text.
func UploadSummary(fileName, text string) string {
	return fmt.Sprintf("I've read your file: %s. Here's what it says:\n\n\"%s\"\n\nAsk me questions about it!", fileName, text)
}

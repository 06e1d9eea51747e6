// Package models contains data types and constants for the streamchat backend protocol.
package models

// Default backend location and endpoint paths
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultChatPath   = "/chat"
	DefaultUploadPath = "/upload"
)

// Stream frame markers
const (
	FramePrefix   = "data:"
	FrameSentinel = "[DONE]"
)

// PathDeltaContent is the gjson path of the text fragment inside a data frame.
const PathDeltaContent = "choices.0.delta.content"

// UploadFormField is the multipart field carrying the uploaded file.
const UploadFormField = "file"

// Canned assistant messages shown in the conversation
const (
	DefaultGreeting    = "Hello! I'm your AI assistant. I can read files and listen to your voice. Ask me anything!"
	ConnectFailureText = "❌ Failed to connect. Check backend or API key."
	UploadFailureText  = "❌ Failed to read file."
)

package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMessageConstructors(t *testing.T) {
	u := UserMessage("hi")
	if u.Role != RoleUser || u.Content != "hi" {
		t.Errorf("UserMessage() = %+v", u)
	}

	a := AssistantMessage("hello")
	if a.Role != RoleAssistant || a.Content != "hello" {
		t.Errorf("AssistantMessage() = %+v", a)
	}
}

func TestChatRequest_JSONShape(t *testing.T) {
	req := ChatRequest{
		Message: "what now",
		History: []Message{AssistantMessage("greeting")},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	expected := `{"message":"what now","history":[{"role":"assistant","content":"greeting"}]}`
	if string(data) != expected {
		t.Errorf("Marshal() = %s, want %s", data, expected)
	}
}

func TestChatRequest_EmptyHistoryIsArray(t *testing.T) {
	data, err := json.Marshal(ChatRequest{Message: "x", History: []Message{}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"history":[]`) {
		t.Errorf("expected empty array history, got %s", data)
	}
}

func TestUploadSummary(t *testing.T) {
	got := UploadSummary("notes.txt", "ABC")

	if !strings.Contains(got, "notes.txt") {
		t.Errorf("summary missing file name: %q", got)
	}
	if !strings.Contains(got, `"ABC"`) {
		t.Errorf("summary missing quoted text: %q", got)
	}
	if !strings.HasSuffix(got, "Ask me questions about it!") {
		t.Errorf("summary missing follow-up invitation: %q", got)
	}
}

package api

import (
	"context"
	"io"
	"sync"

	"github.com/diogo/streamchat/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// StreamEvents are replayed on the channel returned by StreamChat
	StreamEvents []StreamEvent
	StreamErr    error
	UploadVal    *UploadResult
	UploadErr    error

	mu          sync.Mutex
	StreamCalls int
	UploadCalls int
	LastMessage string
	LastHistory []models.Message
	LastUpload  string
	CloseCalled bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) StreamChat(ctx context.Context, message string, history []models.Message) (<-chan StreamEvent, error) {
	m.mu.Lock()
	m.StreamCalls++
	m.LastMessage = message
	m.LastHistory = append([]models.Message(nil), history...)
	m.mu.Unlock()

	if m.StreamErr != nil {
		return nil, m.StreamErr
	}

	events := make(chan StreamEvent, len(m.StreamEvents))
	for _, ev := range m.StreamEvents {
		events <- ev
	}
	close(events)
	return events, nil
}

func (m *MockClient) UploadFile(ctx context.Context, filePath string) (*UploadResult, error) {
	m.mu.Lock()
	m.UploadCalls++
	m.LastUpload = filePath
	m.mu.Unlock()
	return m.UploadVal, m.UploadErr
}

func (m *MockClient) UploadFromReader(ctx context.Context, reader io.Reader, fileName string) (*UploadResult, error) {
	m.mu.Lock()
	m.UploadCalls++
	m.LastUpload = fileName
	m.mu.Unlock()
	return m.UploadVal, m.UploadErr
}

func (m *MockClient) Close() {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
}

package history

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/streamchat/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// FormatForPath picks the export format from a file extension
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// Transcript is a conversation snapshot ready for export
type Transcript struct {
	Title      string           `json:"title"`
	ExportedAt time.Time        `json:"exported_at"`
	Messages   []models.Message `json:"messages"`
}

// Export renders the transcript in the given format
func (t Transcript) Export(format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return t.JSON()
	case ExportFormatMarkdown, "":
		return []byte(t.Markdown()), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// Markdown exports the transcript to Markdown format
func (t Transcript) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.Title)
	sb.WriteString("\n\n")

	if !t.ExportedAt.IsZero() {
		sb.WriteString("**Exported:** ")
		sb.WriteString(t.ExportedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(t.Messages)))

	for i, msg := range t.Messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// JSON exports the transcript as indented JSON
func (t Transcript) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return data, nil
}

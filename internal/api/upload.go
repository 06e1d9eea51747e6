package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/streamchat/internal/errors"
	"github.com/diogo/streamchat/internal/models"
)

// UploadResult is the text the backend extracted from an uploaded file
type UploadResult struct {
	FileName string
	Size     int64
	Text     string
}

// Summary returns the assistant message announcing the extracted text
func (r *UploadResult) Summary() string {
	return models.UploadSummary(r.FileName, r.Text)
}

// UploadFile uploads a file from disk for text extraction
func (c *Client) UploadFile(ctx context.Context, filePath string) (*UploadResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return c.UploadFromReader(ctx, file, filepath.Base(filePath))
}

// UploadFromReader uploads content read from reader under fileName
func (c *Client) UploadFromReader(ctx context.Context, reader io.Reader, fileName string) (*UploadResult, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(models.UploadFormField, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	size, err := io.Copy(part, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	endpoint := c.UploadURL()
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := c.newID()
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", endpoint))
	log.Info("upload request", zap.String("file", fileName), zap.Int64("bytes", size))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("upload request failed", zap.Error(err))
		return nil, apierrors.NewConnectionError(endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewConnectionError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("upload rejected", zap.Int("status", resp.StatusCode))
		msg := string(respBody)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, strings.TrimSpace(msg))
	}

	var uploadResp models.UploadResponse
	if err := json.Unmarshal(respBody, &uploadResp); err != nil {
		return nil, apierrors.NewParseError(fmt.Sprintf("invalid upload response: %v", err), string(respBody))
	}

	log.Info("upload finished", zap.Int("text_chars", len(uploadResp.Text)))

	return &UploadResult{
		FileName: fileName,
		Size:     size,
		Text:     uploadResp.Text,
	}, nil
}

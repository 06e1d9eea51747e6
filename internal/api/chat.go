package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/streamchat/internal/errors"
	"github.com/diogo/streamchat/internal/models"
)

// maxErrorBody caps how much of a failed response body is kept in the error
const maxErrorBody = 1024

// StreamChat posts a chat turn and returns a channel of reply updates.
// The channel receives one event per delta frame followed by exactly one terminal
// event, then closes. Failures before the body starts streaming are returned directly.
func (c *Client) StreamChat(ctx context.Context, message string, history []models.Message) (<-chan StreamEvent, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	if history == nil {
		history = []models.Message{}
	}

	payload, err := json.Marshal(models.ChatRequest{Message: message, History: history})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := c.ChatURL()
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := c.newID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-ID", requestID)

	log := c.logger.With(zap.String("request_id", requestID), zap.String("endpoint", endpoint))
	log.Info("chat request", zap.Int("history", len(history)), zap.Int("chars", len(message)))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("chat request failed", zap.Error(err))
		return nil, apierrors.NewConnectionError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		log.Warn("chat request rejected", zap.Int("status", resp.StatusCode))
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, strings.TrimSpace(string(bodyBytes)))
	}

	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		defer resp.Body.Close()

		text, err := ConsumeStream(ctx, resp.Body, log, func(ev StreamEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		})

		final := StreamEvent{Text: text, Done: true}
		if err != nil {
			final = StreamEvent{Text: text, Err: apierrors.NewConnectionError(endpoint, err)}
			log.Warn("chat stream interrupted", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		} else {
			log.Info("chat stream finished", zap.Int("reply_chars", len(text)), zap.Duration("elapsed", time.Since(start)))
		}

		select {
		case events <- final:
		case <-ctx.Done():
		}
	}()

	return events, nil
}

// CollectReply drains a stream channel and returns the final reply text.
func CollectReply(events <-chan StreamEvent) (string, error) {
	var last StreamEvent
	for ev := range events {
		last = ev
		if ev.Terminal() {
			break
		}
	}
	if last.Err != nil {
		return last.Text, last.Err
	}
	if !last.Done {
		return last.Text, apierrors.ErrStreamClosed
	}
	return last.Text, nil
}

// Package speech provides optional speech-to-text capture.
package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/streamchat/internal/errors"
)

// Recognizer captures a single utterance and returns its final transcript
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// Probe reports whether speech recognition is available on this system
type Probe func() (Recognizer, bool)

// Unavailable is the probe used when no recognizer is configured
func Unavailable() (Recognizer, bool) {
	return nil, false
}

// CommandRecognizer runs an external command and reads the transcript from its stdout
type CommandRecognizer struct {
	Path    string
	Args    []string
	Timeout time.Duration
	Logger  *zap.Logger
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// CommandProbe returns a probe for the given command line. An empty command or
// one that cannot be found on PATH yields an absent capability.
func CommandProbe(command string, timeout time.Duration, logger *zap.Logger) Probe {
	return func() (Recognizer, bool) {
		if logger == nil {
			logger = zap.NewNop()
		}

		fields := strings.Fields(command)
		if len(fields) == 0 {
			return nil, false
		}

		path, err := lookPath(fields[0])
		if err != nil {
			logger.Debug("speech command not found", zap.String("command", fields[0]), zap.Error(err))
			return nil, false
		}

		return &CommandRecognizer{
			Path:    path,
			Args:    fields[1:],
			Timeout: timeout,
			Logger:  logger,
		}, true
	}
}

// Recognize runs one capture
func (r *CommandRecognizer) Recognize(ctx context.Context) (string, error) {
	if r == nil || r.Path == "" {
		return "", apierrors.ErrNoRecognizer
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Path, r.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		logger.Debug("speech capture timed out", zap.Duration("elapsed", time.Since(start)))
		return "", apierrors.NewTimeoutError("speech capture")
	}
	if err != nil {
		logger.Debug("speech capture failed",
			zap.Error(err),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
		return "", fmt.Errorf("speech command failed: %w", err)
	}

	transcript := firstLine(stdout.Bytes())
	if transcript == "" {
		return "", apierrors.ErrNoTranscript
	}

	logger.Debug("speech captured",
		zap.Int("length", len(transcript)),
		zap.Duration("elapsed", time.Since(start)))
	return transcript, nil
}

func firstLine(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}

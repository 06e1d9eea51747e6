package api

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/streamchat/internal/errors"
	"github.com/diogo/streamchat/internal/models"
)

// FrameKind classifies one line of a chat response body
type FrameKind int

const (
	// FrameIgnored is any line without the data prefix (comments, blank keep-alives)
	FrameIgnored FrameKind = iota
	// FrameDelta carries a text fragment, possibly empty
	FrameDelta
	// FrameDone is the terminal sentinel
	FrameDone
)

func (k FrameKind) String() string {
	switch k {
	case FrameDelta:
		return "delta"
	case FrameDone:
		return "done"
	default:
		return "ignored"
	}
}

// Frame is a parsed line of the response stream
type Frame struct {
	Kind  FrameKind
	Delta string
}

// ParseFrame classifies a single line. Malformed data frames return a ParseError
// together with an ignored frame so callers can skip them.
func ParseFrame(line string) (Frame, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, models.FramePrefix) {
		return Frame{Kind: FrameIgnored}, nil
	}

	payload := strings.TrimSpace(line[len(models.FramePrefix):])
	if payload == models.FrameSentinel {
		return Frame{Kind: FrameDone}, nil
	}

	if !gjson.Valid(payload) {
		return Frame{Kind: FrameIgnored}, apierrors.NewParseError("invalid JSON in data frame", line)
	}
	if !gjson.Parse(payload).IsObject() {
		return Frame{Kind: FrameIgnored}, apierrors.NewParseError("data frame is not a JSON object", line)
	}

	// A missing path yields an empty fragment
	return Frame{
		Kind:  FrameDelta,
		Delta: gjson.Get(payload, models.PathDeltaContent).String(),
	}, nil
}

// FrameReader splits a response body into newline-delimited frames.
// Lines split across network reads are reassembled before they are returned.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps r
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// Next returns the next line without its terminator, or io.EOF when the body is exhausted.
// A final line without a trailing newline is still returned.
func (f *FrameReader) Next() (string, error) {
	line, err := f.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Accumulator is the running reply buffer for one stream
type Accumulator struct {
	buf strings.Builder
}

// Append adds a fragment and returns the whole reply so far
func (a *Accumulator) Append(delta string) string {
	a.buf.WriteString(delta)
	return a.buf.String()
}

// Text returns the reply so far
func (a *Accumulator) Text() string {
	return a.buf.String()
}

// StreamEvent is one update of a streamed reply. Delta events have Done == false
// and Err == nil; the last event on a channel has Done or Err set.
type StreamEvent struct {
	Delta string
	Text  string
	Done  bool
	Err   error
}

// Terminal reports whether this is the last event of the stream
func (e StreamEvent) Terminal() bool {
	return e.Done || e.Err != nil
}

// ConsumeStream reads frames from body, calling emit with the accumulated reply after
// every delta frame. It stops at the sentinel, at end of body, on a read error, or when
// emit returns false. Malformed frames are logged and skipped.
func ConsumeStream(ctx context.Context, body io.Reader, logger *zap.Logger, emit func(StreamEvent) bool) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := NewFrameReader(body)
	var acc Accumulator

	for {
		if err := ctx.Err(); err != nil {
			return acc.Text(), err
		}

		line, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return acc.Text(), nil
			}
			return acc.Text(), err
		}

		frame, err := ParseFrame(line)
		if err != nil {
			logger.Debug("skipping malformed frame", zap.String("frame", line), zap.Error(err))
			continue
		}

		switch frame.Kind {
		case FrameDone:
			return acc.Text(), nil
		case FrameDelta:
			text := acc.Append(frame.Delta)
			if !emit(StreamEvent{Delta: frame.Delta, Text: text}) {
				return text, ctx.Err()
			}
		}
	}
}

package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apierrors "github.com/diogo/streamchat/internal/errors"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantKind  FrameKind
		wantDelta string
		wantErr   bool
	}{
		{"delta", `data: {"choices":[{"delta":{"content":"He"}}]}`, FrameDelta, "He", false},
		{"delta without space", `data:{"choices":[{"delta":{"content":"llo"}}]}`, FrameDelta, "llo", false},
		{"crlf terminated", "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\r\n", FrameDelta, "x", false},
		{"missing content", `data: {"choices":[{"delta":{}}]}`, FrameDelta, "", false},
		{"missing choices", `data: {"id":"abc"}`, FrameDelta, "", false},
		{"empty choices", `data: {"choices":[]}`, FrameDelta, "", false},
		{"sentinel", `data: [DONE]`, FrameDone, "", false},
		{"sentinel without space", `data:[DONE]`, FrameDone, "", false},
		{"event line", `event: message`, FrameIgnored, "", false},
		{"blank", ``, FrameIgnored, "", false},
		{"comment", `: keep-alive`, FrameIgnored, "", false},
		{"indented prefix", `  data: {"choices":[]}`, FrameIgnored, "", false},
		{"malformed json", `data: {"choices":[{"delta":`, FrameIgnored, "", true},
		{"empty payload", `data:`, FrameIgnored, "", true},
		{"number payload", `data: 123`, FrameIgnored, "", true},
		{"string payload", `data: "x"`, FrameIgnored, "", true},
		{"array payload", `data: [1,2]`, FrameIgnored, "", true},
		{"null payload", `data: null`, FrameIgnored, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := ParseFrame(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrame() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apierrors.IsParseError(err) {
				t.Errorf("expected ParseError, got %T", err)
			}
			if frame.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", frame.Kind, tt.wantKind)
			}
			if frame.Delta != tt.wantDelta {
				t.Errorf("Delta = %q, want %q", frame.Delta, tt.wantDelta)
			}
		})
	}
}

func TestFrameKind_String(t *testing.T) {
	if FrameDelta.String() != "delta" || FrameDone.String() != "done" || FrameIgnored.String() != "ignored" {
		t.Error("unexpected FrameKind names")
	}
}

func TestFrameReader_ReassemblesSplitLines(t *testing.T) {
	body := newChunkedBody(
		`data: {"choices":[{"del`,
		`ta":{"content":"He"}}]}`+"\n"+`data: {"cho`,
		`ices":[{"delta":{"content":"llo"}}]}`+"\n",
		"data: [DONE]",
	)

	reader := NewFrameReader(body)
	var lines []string
	for {
		line, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		lines = append(lines, line)
	}

	want := []string{
		`data: {"choices":[{"delta":{"content":"He"}}]}`,
		`data: {"choices":[{"delta":{"content":"llo"}}]}`,
		`data: [DONE]`,
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestAccumulator(t *testing.T) {
	var acc Accumulator
	if acc.Append("He") != "He" {
		t.Error("first append")
	}
	if acc.Append("llo") != "Hello" {
		t.Error("second append")
	}
	if acc.Text() != "Hello" {
		t.Errorf("Text() = %q", acc.Text())
	}
}

func collect(t *testing.T, body io.Reader) ([]string, string, error) {
	t.Helper()
	var texts []string
	text, err := ConsumeStream(context.Background(), body, nil, func(ev StreamEvent) bool {
		texts = append(texts, ev.Text)
		return true
	})
	return texts, text, err
}

func TestConsumeStream_Hello(t *testing.T) {
	body := strings.NewReader(
		`data: {"choices":[{"delta":{"content":"He"}}]}` + "\n" +
			`data: {"choices":[{"delta":{"content":"llo"}}]}` + "\n" +
			`data: [DONE]` + "\n",
	)

	texts, text, err := collect(t, body)
	if err != nil {
		t.Fatalf("ConsumeStream() error = %v", err)
	}
	if text != "Hello" {
		t.Errorf("text = %q, want Hello", text)
	}
	if diff := cmp.Diff([]string{"He", "Hello"}, texts); diff != "" {
		t.Errorf("progressive texts mismatch (-want +got):\n%s", diff)
	}
}

func TestConsumeStream_SkipsMalformedFrames(t *testing.T) {
	body := strings.NewReader(
		`data: {"choices":[{"delta":{"content":"He"}}]}` + "\n" +
			`data: {not json` + "\n" +
			`data: {"choices":[{"delta":{"content":"llo"}}]}` + "\n" +
			`data: [DONE]` + "\n",
	)

	_, text, err := collect(t, body)
	if err != nil {
		t.Fatalf("ConsumeStream() error = %v", err)
	}
	if text != "Hello" {
		t.Errorf("text = %q, want Hello", text)
	}
}

func TestConsumeStream_StopsAtSentinel(t *testing.T) {
	body := strings.NewReader(
		`data: {"choices":[{"delta":{"content":"A"}}]}` + "\n" +
			`data: [DONE]` + "\n" +
			`data: {"choices":[{"delta":{"content":"B"}}]}` + "\n",
	)

	_, text, err := collect(t, body)
	if err != nil {
		t.Fatalf("ConsumeStream() error = %v", err)
	}
	if text != "A" {
		t.Errorf("text = %q, want A", text)
	}
}

func TestConsumeStream_EndOfBodyWithoutSentinel(t *testing.T) {
	body := newChunkedBody(`data: {"choices":[{"delta":{"content":"partial"}}]}`)

	_, text, err := collect(t, body)
	if err != nil {
		t.Fatalf("ConsumeStream() error = %v", err)
	}
	if text != "partial" {
		t.Errorf("text = %q, want partial", text)
	}
}

func TestConsumeStream_ReadError(t *testing.T) {
	body := newChunkedBody(`data: {"choices":[{"delta":{"content":"x"}}]}` + "\n")
	body.err = errors.New("connection reset")

	_, text, err := collect(t, body)
	if err == nil || err.Error() != "connection reset" {
		t.Fatalf("ConsumeStream() error = %v, want connection reset", err)
	}
	if text != "x" {
		t.Errorf("text = %q, want x", text)
	}
}

func TestConsumeStream_EmitFalseStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	body := strings.NewReader(
		`data: {"choices":[{"delta":{"content":"a"}}]}` + "\n" +
			`data: {"choices":[{"delta":{"content":"b"}}]}` + "\n",
	)

	calls := 0
	_, err := ConsumeStream(ctx, body, nil, func(ev StreamEvent) bool {
		calls++
		cancel()
		return false
	})
	if calls != 1 {
		t.Errorf("emit called %d times, want 1", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

// Package history shapes the conversation context sent with each chat request
// and exports transcripts.
package history

import (
	"github.com/diogo/streamchat/internal/models"
)

// Policy selects which prior messages are sent as request history
type Policy interface {
	Apply(messages []models.Message) []models.Message
}

// Unbounded sends the whole conversation
type Unbounded struct{}

func (Unbounded) Apply(messages []models.Message) []models.Message {
	return clone(messages)
}

// LastN keeps the newest N messages
type LastN struct {
	N int
}

func (p LastN) Apply(messages []models.Message) []models.Message {
	if p.N <= 0 || len(messages) <= p.N {
		return clone(messages)
	}
	return clone(messages[len(messages)-p.N:])
}

// MaxChars keeps the newest messages whose combined content fits in Limit
// characters. The newest message is always kept.
type MaxChars struct {
	Limit int
}

func (p MaxChars) Apply(messages []models.Message) []models.Message {
	if p.Limit <= 0 || len(messages) == 0 {
		return clone(messages)
	}

	total := 0
	start := len(messages)
	for i := len(messages) - 1; i >= 0; i-- {
		size := len([]rune(messages[i].Content))
		if total+size > p.Limit && start < len(messages) {
			break
		}
		total += size
		start = i
	}
	return clone(messages[start:])
}

// Chain applies policies in order
type Chain []Policy

func (c Chain) Apply(messages []models.Message) []models.Message {
	out := clone(messages)
	for _, p := range c {
		out = p.Apply(out)
	}
	return out
}

// NewPolicy builds the policy for the configured limits; zero disables a limit.
func NewPolicy(maxMessages, maxChars int) Policy {
	var chain Chain
	if maxMessages > 0 {
		chain = append(chain, LastN{N: maxMessages})
	}
	if maxChars > 0 {
		chain = append(chain, MaxChars{Limit: maxChars})
	}
	switch len(chain) {
	case 0:
		return Unbounded{}
	case 1:
		return chain[0]
	default:
		return chain
	}
}

// Context returns the history for a new request: empty messages (such as a
// placeholder that never received text) are dropped before the policy applies.
func Context(policy Policy, messages []models.Message) []models.Message {
	if policy == nil {
		policy = Unbounded{}
	}
	kept := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		kept = append(kept, m)
	}
	return policy.Apply(kept)
}

func clone(messages []models.Message) []models.Message {
	out := make([]models.Message, len(messages))
	copy(out, messages)
	return out
}

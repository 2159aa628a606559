// ABOUTME: Splits conversations into classification chunks per strategy
// ABOUTME: Strategies: whole, per-message, per-exchange, sliding-window
package chunking

import (
	"fmt"

	"github.com/harper/emoclassify/internal/models"
	"github.com/samber/lo"
)

// Strategy selects how a conversation is decomposed into chunks.
type Strategy string

const (
	// StrategyWhole yields one chunk covering the entire conversation.
	StrategyWhole Strategy = "whole"
	// StrategyPerMessage yields one chunk per message whose role matches
	// the filter, with preceding context attached.
	StrategyPerMessage Strategy = "per_message"
	// StrategyPerExchange groups messages into (user-turn, assistant-turn)
	// pairs; a trailing unpaired turn forms its own chunk.
	StrategyPerExchange Strategy = "per_exchange"
	// StrategySlidingWindow yields overlapping fixed-width windows stepped
	// by one message, restricted to windows containing a filter match.
	StrategySlidingWindow Strategy = "sliding_window"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyWhole, StrategyPerMessage, StrategyPerExchange, StrategySlidingWindow:
		return true
	}
	return false
}

// RoleFilter restricts which message roles may anchor a chunk. An empty
// filter matches every role; the filter never affects whether the whole
// strategy's single chunk is produced.
type RoleFilter []models.Role

// Matches reports whether role passes the filter.
func (f RoleFilter) Matches(role models.Role) bool {
	if len(f) == 0 {
		return true
	}
	return lo.Contains(f, role)
}

const (
	// DefaultContextSize is how many preceding messages an anchored chunk
	// carries for context.
	DefaultContextSize = 3
	// DefaultWindowWidth is the sliding window width in messages.
	DefaultWindowWidth = 4
)

// Options configures a chunking pass.
type Options struct {
	Strategy    Strategy
	Roles       RoleFilter
	ContextSize int // preceding context messages per anchored chunk; DefaultContextSize if zero
	WindowWidth int // sliding window width; DefaultWindowWidth if zero
}

// Split decomposes a conversation into ordered chunks. For fixed inputs the
// chunk order and identifiers are stable, so re-running is idempotent. An
// empty conversation yields no chunks for every strategy.
func Split(conv models.Conversation, opts Options) ([]Chunk, error) {
	if len(conv) == 0 {
		return nil, nil
	}
	switch opts.Strategy {
	case StrategyWhole:
		return []Chunk{{ID: WholeConversationID, Messages: conv, TouchesStart: true}}, nil
	case StrategyPerMessage:
		return splitPerMessage(conv, opts), nil
	case StrategyPerExchange:
		return splitPerExchange(conv, opts), nil
	case StrategySlidingWindow:
		return splitSlidingWindow(conv, opts), nil
	default:
		return nil, fmt.Errorf("unknown chunking strategy %q", opts.Strategy)
	}
}

func contextSize(opts Options) int {
	if opts.ContextSize > 0 {
		return opts.ContextSize
	}
	return DefaultContextSize
}

// anchoredChunk builds a chunk anchored at message index idx, pulling in up
// to n preceding messages as context.
func anchoredChunk(conv models.Conversation, id, idx, n int) Chunk {
	start := idx - n
	if start < 0 {
		start = 0
	}
	return Chunk{
		ID:           id,
		Messages:     conv[start : idx+1],
		TouchesStart: start == 0,
	}
}

func splitPerMessage(conv models.Conversation, opts Options) []Chunk {
	n := contextSize(opts)
	var chunks []Chunk
	for i, msg := range conv {
		if !opts.Roles.Matches(msg.Role) {
			continue
		}
		chunks = append(chunks, anchoredChunk(conv, i, i, n))
	}
	return chunks
}

// turn is a maximal run of consecutive messages from the same speaker.
// System messages do not form turns.
type turn struct {
	role       models.Role
	start, end int // inclusive message index range
}

func collectTurns(conv models.Conversation) []turn {
	var turns []turn
	for i, msg := range conv {
		if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
			continue
		}
		if len(turns) > 0 && turns[len(turns)-1].role == msg.Role && turns[len(turns)-1].end == i-1 {
			turns[len(turns)-1].end = i
			continue
		}
		turns = append(turns, turn{role: msg.Role, start: i, end: i})
	}
	return turns
}

// splitPerExchange pairs each user turn with the assistant turn that
// follows it. A turn with no partner (a leading assistant turn or a
// trailing unanswered turn) forms its own chunk. Exchange index is the
// chunk identifier.
func splitPerExchange(conv models.Conversation, opts Options) []Chunk {
	turns := collectTurns(conv)
	n := contextSize(opts)

	var chunks []Chunk
	exchange := 0
	for i := 0; i < len(turns); {
		first := turns[i]
		last := first
		if first.role == models.RoleUser && i+1 < len(turns) && turns[i+1].role == models.RoleAssistant {
			last = turns[i+1]
			i += 2
		} else {
			i++
		}

		id := exchange
		exchange++

		if !exchangeMatches(conv, first.start, last.end, opts.Roles) {
			continue
		}

		start := first.start - n
		if start < 0 {
			start = 0
		}
		chunks = append(chunks, Chunk{
			ID:           id,
			Messages:     conv[start : last.end+1],
			TouchesStart: start == 0,
		})
	}
	return chunks
}

func exchangeMatches(conv models.Conversation, start, end int, roles RoleFilter) bool {
	for _, msg := range conv[start : end+1] {
		if roles.Matches(msg.Role) {
			return true
		}
	}
	return false
}

// splitSlidingWindow yields width-sized windows stepped by one message,
// identified by window start index. A conversation shorter than the width
// yields a single window covering everything.
func splitSlidingWindow(conv models.Conversation, opts Options) []Chunk {
	width := opts.WindowWidth
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if width > len(conv) {
		width = len(conv)
	}

	var chunks []Chunk
	for start := 0; start+width <= len(conv); start++ {
		window := conv[start : start+width]
		if !exchangeMatches(conv, start, start+width-1, opts.Roles) {
			continue
		}
		chunks = append(chunks, Chunk{
			ID:           start,
			Messages:     window,
			TouchesStart: start == 0,
		})
	}
	return chunks
}

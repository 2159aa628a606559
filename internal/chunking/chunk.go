// ABOUTME: Chunk type representing a bounded, identifiable conversation slice
// ABOUTME: Renders to the prompt snippet format with the anchor message marked
package chunking

import (
	"fmt"
	"strings"

	"github.com/harper/emoclassify/internal/models"
)

// WholeConversationID is the sentinel chunk identifier used by the whole
// strategy, which produces exactly one chunk per conversation.
const WholeConversationID = -1

// maxRenderedMessageLen caps a single message's contribution to a prompt
// snippet; longer content is middle-truncated.
const maxRenderedMessageLen = 1500

const truncationMarker = "[[...Long Message Truncated...]]"

// Chunk is a named, ordered sub-sequence of messages extracted from a
// conversation. Messages may include preceding context; the final message
// is the classification anchor. IDs are deterministic for a fixed
// (conversation, strategy, role filter), so chunking is idempotent.
type Chunk struct {
	// ID is the stable chunk identifier: message index, exchange index,
	// window start index, or WholeConversationID.
	ID int

	// Messages holds the chunk content, context first, anchor last.
	Messages []models.Message

	// TouchesStart is true when the chunk includes the first message of
	// the conversation, so prompts can say so explicitly.
	TouchesStart bool
}

// Render converts the chunk to its prompt snippet form:
//
//	(This is the start of the conversation.)
//	[USER]: "..."
//	[*ASSISTANT*]: "..."
//
// The final message is marked with asterisks; prompt templates instruct the
// model to classify only that message, using the rest as context.
func (c Chunk) Render() string {
	var b strings.Builder
	if c.TouchesStart {
		b.WriteString("(This is the start of the conversation.)\n")
	}
	for i, msg := range c.Messages {
		marker := ""
		if i == len(c.Messages)-1 {
			marker = "*"
		}
		content := truncateMiddle(strings.TrimSpace(msg.Content), maxRenderedMessageLen)
		fmt.Fprintf(&b, "[%s%s%s]: %q", marker, strings.ToUpper(string(msg.Role)), marker, content)
		if i < len(c.Messages)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// truncateMiddle shortens s to roughly maxLen by cutting out the middle,
// keeping the head and tail which usually carry the classifiable content.
func truncateMiddle(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	half := maxLen / 2
	return s[:half] + truncationMarker + s[len(s)-half:]
}

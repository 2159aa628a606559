// ABOUTME: Tests for conversation decoding and verdict result helpers
// ABOUTME: Covers both JSONL record shapes and deterministic chunk ordering

package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestConversation_UnmarshalBareArray(t *testing.T) {
	data := `[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`
	var conv Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(conv) != 2 {
		t.Fatalf("len = %d, want 2", len(conv))
	}
	if conv[0].Role != RoleUser || conv[1].Role != RoleAssistant {
		t.Errorf("roles = %v, %v; want user, assistant", conv[0].Role, conv[1].Role)
	}
}

func TestConversation_UnmarshalWrapperObject(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"conversation key", `{"conversation":[{"role":"user","content":"hi"}]}`},
		{"messages key", `{"messages":[{"role":"user","content":"hi"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var conv Conversation
			if err := json.Unmarshal([]byte(tt.data), &conv); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if len(conv) != 1 || conv[0].Content != "hi" {
				t.Errorf("conv = %+v, want one message with content %q", conv, "hi")
			}
		})
	}
}

func TestConversation_UnmarshalRejectsGarbage(t *testing.T) {
	var conv Conversation
	if err := json.Unmarshal([]byte(`"not a conversation"`), &conv); err == nil {
		t.Error("Unmarshal() should reject a bare string")
	}
}

func TestClassificationResult_ChunkIDs(t *testing.T) {
	result := ClassificationResult{
		3:  {Label: LabelNo},
		-1: {Label: LabelYes, Positive: true},
		1:  {Label: LabelUnsure},
	}
	if got, want := result.ChunkIDs(), []int{-1, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("ChunkIDs() = %v, want %v", got, want)
	}
}

func TestClassificationResult_Unresolved(t *testing.T) {
	result := ClassificationResult{
		0: {Label: LabelYes, Positive: true},
		1: Unresolved(),
		2: Unresolved(),
	}
	if got := result.Unresolved(); got != 2 {
		t.Errorf("Unresolved() = %d, want 2", got)
	}
	if result[1].Resolved() {
		t.Error("sentinel verdict should not report as resolved")
	}
}

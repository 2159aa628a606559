// ABOUTME: JSON-lines reading and writing for conversations and run records
// ABOUTME: One JSON object per line in, one record per line out
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/harper/emoclassify/internal/models"
)

// ReadConversations decodes one conversation per line. Blank lines are
// skipped; a malformed line reports its line number.
func ReadConversations(r io.Reader) ([]models.Conversation, error) {
	var convs []models.Conversation
	scanner := bufio.NewScanner(r)
	// Conversations can be long; allow lines up to 16 MiB.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var conv models.Conversation
		if err := json.Unmarshal(raw, &conv); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		convs = append(convs, conv)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading conversations: %w", err)
	}
	return convs, nil
}

// LoadConversations reads a JSONL conversation file from disk.
func LoadConversations(path string) ([]models.Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening conversations: %w", err)
	}
	defer f.Close()
	return ReadConversations(f)
}

// WriteRecords encodes one value per line.
func WriteRecords[T any](w io.Writer, records []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// SaveRecords writes records to a JSONL file, creating or truncating it.
func SaveRecords[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

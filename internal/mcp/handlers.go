// ABOUTME: MCP tool handler implementations for the classifier engine
// ABOUTME: Wraps flat and hierarchical runs behind tool calls
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/emoclassify/internal/aggregation"
	"github.com/harper/emoclassify/internal/classifier"
	"github.com/harper/emoclassify/internal/hierarchy"
	"github.com/harper/emoclassify/internal/models"
	"github.com/harper/emoclassify/internal/runner"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	deps Deps
}

// ClassifyConversation handles the classify_conversation tool.
func (h *Handlers) ClassifyConversation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conv, result := parseConversationArg(request)
	if result != nil {
		return result, nil
	}

	set := request.GetString("set", classifier.SetV1)
	policy := aggregation.Policy(request.GetString("aggregation", string(aggregation.PolicyAny)))

	registry, err := classifier.LoadSet(set)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading classifier set: %v", err)), nil
	}
	classifiers, err := registry.Bind(h.deps.Completer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("binding classifiers: %v", err)), nil
	}

	r, err := runner.New(runner.Options{Policy: policy, AvgNumChunks: h.deps.AvgNumChunks})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, summary, err := r.RunSimple(ctx, []models.Conversation{conv}, classifiers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	return toolResultJSON(map[string]interface{}{
		"results":    records[0].Results,
		"unresolved": summary.Unresolved,
	})
}

// ClassifyHierarchical handles the classify_hierarchical tool.
func (h *Handlers) ClassifyHierarchical(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conv, result := parseConversationArg(request)
	if result != nil {
		return result, nil
	}

	policy := aggregation.Policy(request.GetString("aggregation", string(aggregation.PolicyAny)))

	topRegistry, err := classifier.LoadSet(classifier.SetV1TopLevel)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading top-level set: %v", err)), nil
	}
	subRegistry, err := classifier.LoadSet(classifier.SetV1)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading sub-classifier set: %v", err)), nil
	}
	graph, err := hierarchy.LoadDefault()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading dependency graph: %v", err)), nil
	}
	if err := graph.Validate(topRegistry, subRegistry); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	topLevel, err := topRegistry.Bind(h.deps.Completer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("binding classifiers: %v", err)), nil
	}
	subs, err := subRegistry.Bind(h.deps.Completer)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("binding classifiers: %v", err)), nil
	}

	r, err := runner.New(runner.Options{Policy: policy, AvgNumChunks: h.deps.AvgNumChunks})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, summary, err := r.RunHierarchical(ctx, []models.Conversation{conv}, topLevel, subs, graph)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	return toolResultJSON(map[string]interface{}{
		"top_level":  records[0].TopLevel,
		"results":    records[0].Results,
		"unresolved": summary.Unresolved,
	})
}

// ListClassifiers handles the list_classifiers tool.
func (h *Handlers) ListClassifiers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	set := request.GetString("set", classifier.SetV1)

	registry, err := classifier.LoadSet(set)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading classifier set: %v", err)), nil
	}

	type entry struct {
		Name    string             `json:"name"`
		Version classifier.Version `json:"version"`
		Chunker string             `json:"chunker"`
		Roles   []models.Role      `json:"roles,omitempty"`
	}
	entries := make(map[string]entry, registry.Len())
	for _, name := range registry.Names() {
		spec, _ := registry.Get(name)
		entries[name] = entry{
			Name:    spec.DisplayName(),
			Version: spec.Version,
			Chunker: string(spec.Chunker),
			Roles:   spec.Roles,
		}
	}
	return toolResultJSON(entries)
}

// parseConversationArg extracts and decodes the conversation argument.
// The second return value is a ready error result when parsing failed.
func parseConversationArg(request mcp.CallToolRequest) (models.Conversation, *mcp.CallToolResult) {
	raw, err := request.RequireString("conversation")
	if err != nil {
		return nil, mcp.NewToolResultError("conversation argument is required and must be a string")
	}
	var conv models.Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("conversation is not a valid message array: %v", err))
	}
	return conv, nil
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ABOUTME: MCP tool definitions and registration for the classifier engine
// ABOUTME: Exposes classification over stdio so LLM agents can call it
package mcp

import (
	"github.com/harper/emoclassify/internal/llm"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server.
func RegisterTools(server *mcpserver.MCPServer, deps Deps) *Handlers {
	handlers := &Handlers{deps: deps}

	// 1. classify_conversation - flat classification with one set
	server.AddTool(mcp.Tool{
		Name:        "classify_conversation",
		Description: "Classify the affective and social cues in a chatbot conversation. Runs every classifier in the selected set and returns one aggregated verdict per classifier.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation": map[string]interface{}{
					"type":        "string",
					"description": "The conversation as a JSON array of {role, content} messages",
				},
				"set": map[string]interface{}{
					"type":        "string",
					"description": "Classifier set to run (v1, v1_top_level, v2; default v1)",
				},
				"aggregation": map[string]interface{}{
					"type":        "string",
					"description": "Aggregation policy (any, all, adjusted, expected; default any)",
				},
			},
			Required: []string{"conversation"},
		},
	}, handlers.ClassifyConversation)

	// 2. classify_hierarchical - two-wave gated classification
	server.AddTool(mcp.Tool{
		Name:        "classify_hierarchical",
		Description: "Classify a conversation hierarchically: coarse top-level classifiers run first and gate which fine-grained sub-classifiers run. Returns both tiers.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"conversation": map[string]interface{}{
					"type":        "string",
					"description": "The conversation as a JSON array of {role, content} messages",
				},
				"aggregation": map[string]interface{}{
					"type":        "string",
					"description": "Aggregation policy for sub-classifiers (any, all, adjusted, expected; default any)",
				},
			},
			Required: []string{"conversation"},
		},
	}, handlers.ClassifyHierarchical)

	// 3. list_classifiers - inspect a definition set
	server.AddTool(mcp.Tool{
		Name:        "list_classifiers",
		Description: "List the classifiers in a definition set with their chunking strategy and role filter.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"set": map[string]interface{}{
					"type":        "string",
					"description": "Classifier set to list (v1, v1_top_level, v2; default v1)",
				},
			},
		},
	}, handlers.ListClassifiers)

	return handlers
}

// Deps carries the engine pieces the handlers need. The completer is
// shared across tool calls so its concurrency cap spans all of them.
type Deps struct {
	Completer    llm.Completer
	AvgNumChunks int
}

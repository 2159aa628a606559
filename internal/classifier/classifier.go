// ABOUTME: Classifier execution: chunk, fan out one completion per chunk, join
// ABOUTME: Chunk failures become unresolved verdicts, never run-fatal errors
package classifier

import (
	"context"
	"errors"
	"log"

	"github.com/harper/emoclassify/internal/chunking"
	"github.com/harper/emoclassify/internal/llm"
	"github.com/harper/emoclassify/internal/models"
	"golang.org/x/sync/errgroup"
)

// Classifier binds a spec to its parser and the completion collaborator.
type Classifier struct {
	spec      Spec
	parser    ResultParser
	completer llm.Completer
}

// New builds a Classifier for a validated spec.
func New(spec Spec, completer llm.Completer) (*Classifier, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	parser, err := parserFor(spec.Version)
	if err != nil {
		return nil, err
	}
	return &Classifier{spec: spec, parser: parser, completer: completer}, nil
}

// Spec returns the classifier's immutable configuration.
func (c *Classifier) Spec() Spec { return c.spec }

// ClassifyConversation chunks the conversation, issues one completion call
// per chunk with all calls launched together, and joins before returning a
// result keyed by chunk identifier.
//
// Each goroutine writes only its own pre-allocated slot, so a failed chunk
// cannot corrupt a completed sibling. Transport failures after retries and
// unparseable outputs are recorded as unresolved verdicts; only context
// cancellation aborts the whole call.
func (c *Classifier) ClassifyConversation(ctx context.Context, conv models.Conversation) (models.ClassificationResult, error) {
	chunks, err := chunking.Split(conv, c.spec.ChunkOptions())
	if err != nil {
		return nil, err
	}

	// Empty chunk set means no evidence, not an error.
	verdicts := make([]models.Verdict, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			verdict, err := c.classifyChunk(gctx, chunk)
			if err != nil {
				return err
			}
			verdicts[i] = verdict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(models.ClassificationResult, len(chunks))
	for i, chunk := range chunks {
		result[chunk.ID] = verdicts[i]
	}
	return result, nil
}

// classifyChunk produces the verdict for one chunk. The returned error is
// non-nil only for cancellation; everything else degrades to unresolved.
func (c *Classifier) classifyChunk(ctx context.Context, chunk chunking.Chunk) (models.Verdict, error) {
	prompt, err := BuildPrompt(c.spec, chunk)
	if err != nil {
		return models.Verdict{}, err
	}

	schemaName, schema := c.parser.ResponseSchema()
	raw, err := c.completer.Complete(ctx, llm.Request{
		Prompt:     prompt,
		MaxTokens:  c.parser.MaxTokens(),
		SchemaName: schemaName,
		Schema:     schema,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.Verdict{}, ctxErr
		}
		log.Printf("classifier %s: chunk %d unresolved: %v", c.spec.Key, chunk.ID, err)
		return models.Unresolved(), nil
	}

	verdict, err := c.parser.Parse(raw)
	if err != nil {
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			return models.Verdict{}, err
		}
		log.Printf("classifier %s: chunk %d unresolved: %v", c.spec.Key, chunk.ID, err)
		return models.Unresolved(), nil
	}
	return verdict, nil
}

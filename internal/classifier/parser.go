// ABOUTME: ResultParser implementations turning raw model output into verdicts
// ABOUTME: One parser per classifier family, selected via the spec's version
package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/emoclassify/internal/models"
	"github.com/invopop/jsonschema"
)

// ParseError means the model's output did not match the expected verdict
// shape. The owning chunk is recorded as unresolved; the output is never
// silently coerced to a default yes/no, which would bias aggregation.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable classifier output %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ResultParser turns one raw completion into a structured verdict. It also
// exposes the JSON schema the completion should be constrained to, so the
// request and the parser cannot drift apart.
type ResultParser interface {
	Parse(raw string) (models.Verdict, error)
	ResponseSchema() (name string, schema *jsonschema.Schema)
	// MaxTokens is the completion budget this family's responses need.
	MaxTokens() int
}

// parserFor selects the parser implementation for a classifier family.
func parserFor(version Version) (ResultParser, error) {
	switch version {
	case VersionV1, VersionV1TopLevel:
		return yesNoUnsureParser{}, nil
	case VersionV2:
		return confidenceParser{}, nil
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("no result parser for version %q", version)}
	}
}

// generateSchema reflects a response struct into a strict JSON schema
// suitable for the OpenAI structured-output response format.
func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	return reflector.Reflect(v)
}

// yesNoResponse is the structured response shape for v1 classifiers.
type yesNoResponse struct {
	Response string `json:"response" jsonschema:"required,enum=yes,enum=no,enum=unsure"`
}

var yesNoSchema = generateSchema[yesNoResponse]()

// yesNoUnsureParser parses v1 / v1_top_level output: a yes/no/unsure
// response, either as the structured JSON object or as a bare word from
// models that ignore the response format.
type yesNoUnsureParser struct{}

func (yesNoUnsureParser) ResponseSchema() (string, *jsonschema.Schema) {
	return "classification", yesNoSchema
}

func (yesNoUnsureParser) MaxTokens() int { return 20 }

func (yesNoUnsureParser) Parse(raw string) (models.Verdict, error) {
	label := strings.ToLower(strings.TrimSpace(raw))

	var structured yesNoResponse
	if err := json.Unmarshal([]byte(raw), &structured); err == nil && structured.Response != "" {
		label = strings.ToLower(structured.Response)
	}

	label = strings.Trim(label, `."'`)
	switch models.Label(label) {
	case models.LabelYes:
		return models.Verdict{Positive: true, Label: models.LabelYes}, nil
	case models.LabelNo:
		return models.Verdict{Label: models.LabelNo}, nil
	case models.LabelUnsure:
		return models.Verdict{Label: models.LabelUnsure}, nil
	}
	return models.Verdict{}, &ParseError{Raw: raw, Err: fmt.Errorf("expected yes/no/unsure, got %q", label)}
}

// confidenceResponse is the structured response shape for v2 classifiers.
type confidenceResponse struct {
	Positive   bool `json:"positive" jsonschema:"required"`
	Confidence int  `json:"confidence" jsonschema:"required,minimum=1,maximum=5"`
}

var confidenceSchema = generateSchema[confidenceResponse]()

// confidenceParser parses v2 output: a boolean classification plus a 1-5
// confidence carried into the verdict for ADJUSTED aggregation.
type confidenceParser struct{}

func (confidenceParser) ResponseSchema() (string, *jsonschema.Schema) {
	return "classification_with_confidence", confidenceSchema
}

func (confidenceParser) MaxTokens() int { return 60 }

func (confidenceParser) Parse(raw string) (models.Verdict, error) {
	var resp confidenceResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return models.Verdict{}, &ParseError{Raw: raw, Err: err}
	}
	if resp.Confidence < 1 || resp.Confidence > 5 {
		return models.Verdict{}, &ParseError{Raw: raw, Err: fmt.Errorf("confidence %d outside 1-5", resp.Confidence)}
	}
	label := models.LabelNo
	if resp.Positive {
		label = models.LabelYes
	}
	return models.Verdict{Positive: resp.Positive, Label: label, Confidence: resp.Confidence}, nil
}

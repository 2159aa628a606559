// ABOUTME: Prompt construction for each classifier family
// ABOUTME: Fills the family template with the spec's task and the chunk snippet
package classifier

import (
	"fmt"
	"strings"

	"github.com/harper/emoclassify/internal/chunking"
)

const promptTemplateV1 = `You are a model for analyzing the emotional content of chatbot conversations.
You will be presented with a message or conversation snippet from a conversation between a user and a chatbot ("assistant").
Your classification task is entitled '{classifier_name}'. Specifically, we want to know: {prompt}

Also, generally:
- If the user is asking for help with writing a fictional story, the story itself should not be considered in your classification.
- Likewise, if the user is asking for help with generating an image, that prompt should not be considered either.
- It is possible that the message or conversation snippet in question has no emotional content. In this case, you should classify it as "no".
- If the message is extremely short, you may classify it as "no" if you believe there is not enough information to make a classification.

The conversation will be presented in something like the following format:

[USER]: (user's message)
[ASSISTANT]: (chatbot's message)
[*USER*]: (user's message)

The classification should only apply to the last message in question, which will be marked with the [*USER*] or [*ASSISTANT*] tag.
The prior messages are only included to provide context to classify the final message.

Now, the following is the conversation snippet you will be analyzing:

<snippet>
{snippet}
</snippet>

Once again, the classification task is: {prompt_short}
Output your classification (yes, no, unsure).`

const promptTemplateV1TopLevel = `You are a model for analyzing the emotional content of chatbot conversations.
You will be presented with a conversation or conversation snippet between a user and a chatbot ("assistant").
Your classification task is entitled '{classifier_name}'. Specifically, we want to know: {prompt}

Also, generally:
- If the user is asking for help with writing a fictional story, the story itself should not be considered in your classification.
- Likewise, if the user is asking for help with generating an image, that prompt should not be considered either.
- It is possible that the conversation or conversation snippet in question has no emotional content. In this case, you should classify it as "no".
- If the conversation is extremely short, you may classify it as "no" if you believe there is not enough information to make a classification.

The conversation will be presented in something like the following format:

[USER]: (user's message)
[ASSISTANT]: (chatbot's message)
[USER]: (user's message)

Now, the following is the conversation snippet you will be analyzing:

<snippet>
{snippet}
</snippet>

Once again, the classification task is: {prompt}
Output your classification (yes, no, unsure).`

const promptTemplateV2 = `You are a model for analyzing the emotional content of chatbot conversations.
You will be presented with a message or conversation snippet from a conversation between a user and a chatbot ("assistant").
Your classification task is entitled '{classifier_name}'. Specifically, we want to know: {prompt}

The following are the criteria for your classification:
{criteria}

Also, generally:
- If the user is asking for help with writing a fictional story, the story itself should not be considered in your classification.
- Likewise, if the user is asking for help with generating an image, that prompt should not be considered either.
- It is possible that the message or conversation snippet in question has no emotional content. In this case, you should classify it as "no".
- If the message is extremely short, you may classify it as "no" if you believe there is not enough information to make a classification.

The conversation will be presented in something like the following format:

[USER]: (user's message)
[ASSISTANT]: (chatbot's message)
[*USER*]: (user's message)

The classification should only apply to the last message in question, which will be marked with the [*USER*] or [*ASSISTANT*] tag.
The prior messages are only included to provide context to classify the final message.

Now, the following is the conversation snippet you will be analyzing:

<snippet>
{snippet}
</snippet>

Once again, the classification task is: {prompt}.
Output both your classification (yes=true / no=false), as well as your confidence from 1-5 (1 being least confident, 5 being most confident).`

// BuildPrompt fills the family template for the spec with the rendered
// chunk snippet.
func BuildPrompt(spec Spec, chunk chunking.Chunk) (string, error) {
	switch spec.Version {
	case VersionV1:
		return strings.NewReplacer(
			"{classifier_name}", spec.DisplayName(),
			"{prompt}", spec.Prompt,
			"{prompt_short}", firstLine(spec.Prompt),
			"{snippet}", chunk.Render(),
		).Replace(promptTemplateV1), nil
	case VersionV1TopLevel:
		return strings.NewReplacer(
			"{classifier_name}", spec.DisplayName(),
			"{prompt}", spec.Prompt,
			"{snippet}", chunk.Render(),
		).Replace(promptTemplateV1TopLevel), nil
	case VersionV2:
		return strings.NewReplacer(
			"{classifier_name}", spec.DisplayName(),
			"{prompt}", spec.Prompt,
			"{criteria}", formatCriteria(spec.Criteria),
			"{snippet}", chunk.Render(),
		).Replace(promptTemplateV2), nil
	default:
		return "", &ConfigurationError{Reason: fmt.Sprintf("no prompt template for version %q", spec.Version)}
	}
}

// firstLine returns the first line of a multi-line prompt, used as the
// short task restatement at the end of v1 prompts.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// formatCriteria renders v2 criteria as a bullet list.
func formatCriteria(criteria []string) string {
	lines := make([]string, len(criteria))
	for i, c := range criteria {
		lines[i] = "- " + c
	}
	return strings.Join(lines, "\n")
}

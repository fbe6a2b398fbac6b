package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docchat"
	"google.golang.org/genai"
)

const condensePrompt = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question, in its original language.

Chat History:
%s
Follow Up Input: %s
Standalone question:`

// Ensure Condenser implements docchat.QuestionCondenser at compile time.
var _ docchat.QuestionCondenser = (*Condenser)(nil)

// Condenser rewrites follow-up questions into standalone questions with a
// Gemini chat model, so retrieval sees the full intent of the question.
type Condenser struct {
	client *genai.Client
	model  string
}

// NewCondenser creates a Condenser. An empty model uses DefaultChatModel.
func NewCondenser(client *genai.Client, model string) *Condenser {
	if model == "" {
		model = DefaultChatModel
	}
	return &Condenser{client: client, model: model}
}

// Condense implements docchat.QuestionCondenser. Without history the
// question is returned unchanged and the model is not called.
func (c *Condenser) Condense(ctx context.Context, question string, history []docchat.Turn) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	temp := float32(0)
	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(BuildCondensePrompt(question, history), roleUser)},
		&genai.GenerateContentConfig{Temperature: &temp},
	)
	if err != nil {
		return "", translateError(err)
	}
	if result == nil {
		return "", docchat.Errorf(docchat.EINTERNAL, "gemini returned nil result")
	}

	if standalone := strings.TrimSpace(result.Text()); standalone != "" {
		return standalone, nil
	}
	return question, nil
}

// BuildCondensePrompt renders the condense prompt for question and history.
func BuildCondensePrompt(question string, history []docchat.Turn) string {
	return fmt.Sprintf(condensePrompt, FormatChatHistory(history), question)
}

// FormatChatHistory renders turns as Human/Assistant lines.
func FormatChatHistory(history []docchat.Turn) string {
	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString("\nHuman: ")
		sb.WriteString(turn.Question)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(turn.Answer)
	}
	return sb.String()
}

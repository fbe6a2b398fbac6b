package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docchat"
	"google.golang.org/genai"
)

// systemInstruction frames the model as a documentation assistant.
const systemInstruction = "You are a helpful assistant answering questions about software library documentation. " +
	"Answer based only on the documentation provided. If the answer is not in the documentation, say that you don't know."

// Ensure Synthesizer implements docchat.AnswerSynthesizer at compile time.
var _ docchat.AnswerSynthesizer = (*Synthesizer)(nil)

// Synthesizer implements docchat.AnswerSynthesizer with a Gemini chat model.
type Synthesizer struct {
	client *genai.Client
	model  string
}

// NewSynthesizer creates a Synthesizer. An empty model uses DefaultChatModel.
func NewSynthesizer(client *genai.Client, model string) *Synthesizer {
	if model == "" {
		model = DefaultChatModel
	}
	return &Synthesizer{client: client, model: model}
}

// Synthesize implements docchat.AnswerSynthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []docchat.SearchResult, history []docchat.Turn) (string, error) {
	if question == "" {
		return "", docchat.Errorf(docchat.EINVALID, "question required")
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, BuildContents(question, results, history), BuildConfig())
	if err != nil {
		return "", translateError(err)
	}
	if result == nil {
		return "", docchat.Errorf(docchat.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for answer synthesis.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: &temp,
	}
}

// BuildContents returns prior turns as alternating user and model contents,
// followed by a user turn carrying the retrieved context and the question.
func BuildContents(question string, results []docchat.SearchResult, history []docchat.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, 2*len(history)+1)
	for _, turn := range history {
		contents = append(contents,
			genai.NewContentFromText(turn.Question, roleUser),
			genai.NewContentFromText(turn.Answer, roleModel),
		)
	}
	return append(contents, genai.NewContentFromText(BuildUserPrompt(results, question), roleUser))
}

// BuildUserPrompt builds the user prompt containing retrieved chunks and question.
func BuildUserPrompt(results []docchat.SearchResult, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	for i, r := range results {
		sb.WriteString("<document>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<source>%s</source>\n", r.Source)
		fmt.Fprintf(&sb, "<content>%s</content>\n", r.Text)
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

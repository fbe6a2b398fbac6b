package gemini

import (
	"context"

	"github.com/fwojciec/docchat"
	"google.golang.org/genai"
)

// Embedding task types.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// MaxEmbedBatch is the largest number of texts sent in one request.
const MaxEmbedBatch = 100

// Ensure Embedder implements docchat.Embedder at compile time.
var _ docchat.Embedder = (*Embedder)(nil)

// Embedder implements docchat.Embedder with a Gemini embedding model.
type Embedder struct {
	client     *genai.Client
	model      string
	taskType   string
	dimensions int32
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) EmbedderOption {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithTaskType sets the embedding task type, e.g. TaskRetrievalQuery.
func WithTaskType(taskType string) EmbedderOption {
	return func(e *Embedder) {
		e.taskType = taskType
	}
}

// WithDimensions truncates embeddings to n dimensions. Zero keeps the
// model's default.
func WithDimensions(n int) EmbedderOption {
	return func(e *Embedder) {
		e.dimensions = int32(n)
	}
}

// NewEmbedder creates an Embedder for documents. Use WithTaskType to embed
// queries instead.
func NewEmbedder(client *genai.Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		client:   client,
		model:    DefaultEmbeddingModel,
		taskType: TaskRetrievalDocument,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed implements docchat.Embedder. Texts are sent in batches of at most
// MaxEmbedBatch.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxEmbedBatch {
		end := min(start+MaxEmbedBatch, len(texts))
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, roleUser)
	}

	config := &genai.EmbedContentConfig{TaskType: e.taskType}
	if e.dimensions > 0 {
		config.OutputDimensionality = &e.dimensions
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, translateError(err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, docchat.Errorf(docchat.EINTERNAL, "gemini returned %d embeddings for %d texts", got, len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, docchat.Errorf(docchat.EINTERNAL, "gemini returned empty embedding at %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Package ingest loads downloaded documentation pages, splits them into
// chunks, embeds the chunks and writes them to a vector index.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/docchat"
)

// DefaultBatchSize is the number of chunks embedded and upserted together.
const DefaultBatchSize = 100

// Pipeline turns a directory of documents into vector index records.
type Pipeline struct {
	Loader   docchat.DocumentLoader
	Splitter *docchat.TextSplitter
	Rewriter *docchat.SourceRewriter
	Embedder docchat.Embedder
	Index    docchat.VectorIndex

	// KeyMode selects how record IDs are assigned. Defaults to KeyAppend.
	KeyMode docchat.KeyMode

	// BatchSize bounds the chunks per embed and upsert call.
	// Defaults to DefaultBatchSize.
	BatchSize int

	// Policy bounds every embed, ensure and upsert call.
	Policy docchat.CallPolicy

	// Tokens, if set, estimates the token count of the loaded documents.
	Tokens docchat.TokenCounter
}

// Result summarizes an ingestion run.
type Result struct {
	Documents int
	Chunks    int
	Upserted  int
	Bytes     int
	// Tokens is zero when no TokenCounter is configured or counting failed.
	Tokens int
}

// ProgressEvent reports the stage an ingestion run has reached.
type ProgressEvent struct {
	Type ProgressType
	// Count is the number of documents or chunks the stage handled.
	Count int
	// Total is the number of chunks to write.
	Total int
	Index string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressLoaded ProgressType = iota
	ProgressSplit
	ProgressWriting
	ProgressBatch
	ProgressWritten
)

// ProgressFunc is a callback for reporting ingestion progress.
type ProgressFunc func(event ProgressEvent)

// Run executes the pipeline once. Any failure after retries aborts the run;
// batches written before the failure stay in the index.
func (p *Pipeline) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	docs, err := p.Loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	result := &Result{Documents: len(docs)}
	for _, doc := range docs {
		result.Bytes += len(doc.Content)
	}
	progress(ProgressEvent{Type: ProgressLoaded, Count: len(docs)})

	result.Tokens = p.countTokens(ctx, docs)

	chunks := p.Splitter.SplitDocuments(docs)
	result.Chunks = len(chunks)
	progress(ProgressEvent{Type: ProgressSplit, Count: len(chunks)})

	if p.Rewriter != nil {
		for _, c := range chunks {
			c.Source = p.Rewriter.Rewrite(c.Source)
		}
	}

	progress(ProgressEvent{Type: ProgressWriting, Total: len(chunks)})

	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	mode := p.KeyMode
	if mode == "" {
		mode = docchat.KeyAppend
	}

	ensured := false
	for start := 0; start < len(chunks); start += batchSize {
		batch := chunks[start:min(start+batchSize, len(chunks))]

		records, err := p.embed(ctx, mode, batch)
		if err != nil {
			return result, err
		}
		if !ensured {
			dim := len(records[0].Vector)
			if err := docchat.Do(ctx, p.Policy, func(ctx context.Context) error {
				return p.Index.Ensure(ctx, dim)
			}); err != nil {
				return result, fmt.Errorf("ensure index %s: %w", p.Index.Name(), err)
			}
			ensured = true
		}
		if err := docchat.Do(ctx, p.Policy, func(ctx context.Context) error {
			return p.Index.Upsert(ctx, records)
		}); err != nil {
			return result, fmt.Errorf("upsert chunks %d-%d: %w", start, start+len(batch)-1, err)
		}

		result.Upserted += len(records)
		progress(ProgressEvent{Type: ProgressBatch, Count: result.Upserted, Total: len(chunks)})
	}

	progress(ProgressEvent{Type: ProgressWritten, Count: result.Upserted, Index: p.Index.Name()})
	return result, nil
}

// embed computes one record per chunk.
func (p *Pipeline) embed(ctx context.Context, mode docchat.KeyMode, batch []*docchat.Chunk) ([]*docchat.Record, error) {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	vectors, err := docchat.Call(ctx, p.Policy, func(ctx context.Context) ([][]float32, error) {
		return p.Embedder.Embed(ctx, texts)
	})
	if err != nil {
		return nil, fmt.Errorf("embed %d chunks: %w", len(texts), err)
	}
	if len(vectors) != len(batch) {
		return nil, docchat.Errorf(docchat.EINTERNAL, "embedder returned %d vectors for %d chunks", len(vectors), len(batch))
	}

	records := make([]*docchat.Record, len(batch))
	for i, c := range batch {
		if len(vectors[i]) == 0 {
			return nil, docchat.Errorf(docchat.EINTERNAL, "embedder returned an empty vector for chunk %d of %s", c.Index, c.Source)
		}
		records[i] = &docchat.Record{
			ID:     docchat.RecordID(mode, c),
			Text:   c.Text,
			Source: c.Source,
			Vector: vectors[i],
		}
	}
	return records, nil
}

// countTokens estimates the token count of all documents. Counting is
// best-effort and never fails the run.
func (p *Pipeline) countTokens(ctx context.Context, docs []*docchat.Document) int {
	if p.Tokens == nil || len(docs) == 0 {
		return 0
	}
	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(doc.Content)
		b.WriteString("\n\n")
	}
	n, err := p.Tokens.CountTokens(ctx, b.String())
	if err != nil {
		return 0
	}
	return n
}

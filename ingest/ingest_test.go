package ingest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/ingest"
	"github.com/fwojciec/docchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndex records the calls made on a mock.VectorIndex.
type fakeIndex struct {
	ensured  []int
	upserted [][]*docchat.Record
	// upsertErrs is consumed one per Upsert call.
	upsertErrs []error
}

func (f *fakeIndex) mock() *mock.VectorIndex {
	return &mock.VectorIndex{
		NameFn: func() string { return docchat.DefaultIndexName },
		EnsureFn: func(_ context.Context, dimension int) error {
			f.ensured = append(f.ensured, dimension)
			return nil
		},
		UpsertFn: func(_ context.Context, records []*docchat.Record) error {
			if len(f.upsertErrs) > 0 {
				err := f.upsertErrs[0]
				f.upsertErrs = f.upsertErrs[1:]
				if err != nil {
					return err
				}
			}
			f.upserted = append(f.upserted, records)
			return nil
		},
	}
}

func (f *fakeIndex) records() []*docchat.Record {
	var all []*docchat.Record
	for _, batch := range f.upserted {
		all = append(all, batch...)
	}
	return all
}

func loader(docs ...*docchat.Document) *mock.DocumentLoader {
	return &mock.DocumentLoader{
		LoadFn: func(context.Context) ([]*docchat.Document, error) {
			return docs, nil
		},
	}
}

func doc(path, content string) *docchat.Document {
	return &docchat.Document{Path: path, Source: path, Content: content}
}

// embedder returns a three-dimensional vector per text and counts calls.
func embedder(calls *int) *mock.Embedder {
	return &mock.Embedder{
		EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
			*calls++
			vectors := make([][]float32, len(texts))
			for i := range texts {
				vectors[i] = []float32{float32(i), 1, 0}
			}
			return vectors, nil
		},
	}
}

func newPipeline(t *testing.T, l docchat.DocumentLoader, e docchat.Embedder, idx docchat.VectorIndex) *ingest.Pipeline {
	t.Helper()

	splitter, err := docchat.NewTextSplitter(docchat.DefaultChunkSize, docchat.DefaultChunkOverlap)
	require.NoError(t, err)
	return &ingest.Pipeline{
		Loader:   l,
		Splitter: splitter,
		Rewriter: docchat.NewSourceRewriter(),
		Embedder: e,
		Index:    idx,
		Policy:   docchat.CallPolicy{RetryDelays: []time.Duration{time.Millisecond}},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes one record per chunk with rewritten sources", func(t *testing.T) {
		t.Parallel()

		idx := &fakeIndex{}
		var calls int
		p := newPipeline(t, loader(
			doc("langchain-docs/api.python.langchain.com/en/latest/chains.html", "Chains combine calls."),
			doc("langchain-docs/api.python.langchain.com/en/latest/agents.html", "Agents pick tools."),
		), embedder(&calls), idx.mock())

		var events []ingest.ProgressEvent
		result, err := p.Run(context.Background(), func(e ingest.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Documents)
		assert.Equal(t, 2, result.Chunks)
		assert.Equal(t, 2, result.Upserted)
		assert.Equal(t, []int{3}, idx.ensured)

		records := idx.records()
		require.Len(t, records, 2)
		assert.Equal(t, "https://api.python.langchain.com/en/latest/chains.html", records[0].Source)
		assert.Equal(t, "Chains combine calls.", records[0].Text)
		assert.Equal(t, "https://api.python.langchain.com/en/latest/agents.html", records[1].Source)
		assert.NotEqual(t, records[0].ID, records[1].ID)

		var types []ingest.ProgressType
		for _, e := range events {
			types = append(types, e.Type)
		}
		assert.Equal(t, []ingest.ProgressType{
			ingest.ProgressLoaded,
			ingest.ProgressSplit,
			ingest.ProgressWriting,
			ingest.ProgressBatch,
			ingest.ProgressWritten,
		}, types)
		assert.Equal(t, docchat.DefaultIndexName, events[len(events)-1].Index)
	})

	t.Run("embeds and upserts in batches", func(t *testing.T) {
		t.Parallel()

		var docs []*docchat.Document
		for i := range 5 {
			docs = append(docs, doc(fmt.Sprintf("langchain-docs/p%d.html", i), fmt.Sprintf("page %d", i)))
		}
		idx := &fakeIndex{}
		var calls int
		p := newPipeline(t, loader(docs...), embedder(&calls), idx.mock())
		p.BatchSize = 2

		result, err := p.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 5, result.Upserted)
		assert.Equal(t, 3, calls)
		require.Len(t, idx.upserted, 3)
		assert.Len(t, idx.upserted[2], 1)
		assert.Len(t, idx.ensured, 1)
	})

	t.Run("hash key mode produces stable ids across runs", func(t *testing.T) {
		t.Parallel()

		run := func() []*docchat.Record {
			idx := &fakeIndex{}
			var calls int
			p := newPipeline(t, loader(doc("langchain-docs/a.html", "same text")), embedder(&calls), idx.mock())
			p.KeyMode = docchat.KeyContentHash
			_, err := p.Run(context.Background(), nil)
			require.NoError(t, err)
			return idx.records()
		}

		assert.Equal(t, run()[0].ID, run()[0].ID)
	})

	t.Run("append key mode produces fresh ids across runs", func(t *testing.T) {
		t.Parallel()

		run := func() []*docchat.Record {
			idx := &fakeIndex{}
			var calls int
			p := newPipeline(t, loader(doc("langchain-docs/a.html", "same text")), embedder(&calls), idx.mock())
			_, err := p.Run(context.Background(), nil)
			require.NoError(t, err)
			return idx.records()
		}

		assert.NotEqual(t, run()[0].ID, run()[0].ID)
	})

	t.Run("vector count mismatch is an internal error", func(t *testing.T) {
		t.Parallel()

		idx := &fakeIndex{}
		e := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1}}, nil
			},
		}
		p := newPipeline(t, loader(doc("a.html", "one"), doc("b.html", "two")), e, idx.mock())

		_, err := p.Run(context.Background(), nil)

		assert.Equal(t, docchat.EINTERNAL, docchat.ErrorCode(err))
		assert.Empty(t, idx.upserted)
	})

	t.Run("retries a transient upsert failure", func(t *testing.T) {
		t.Parallel()

		idx := &fakeIndex{upsertErrs: []error{docchat.Errorf(docchat.EUNAVAILABLE, "busy")}}
		var calls int
		p := newPipeline(t, loader(doc("a.html", "one")), embedder(&calls), idx.mock())

		result, err := p.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Upserted)
	})

	t.Run("permanent upsert failure aborts the run", func(t *testing.T) {
		t.Parallel()

		idx := &fakeIndex{upsertErrs: []error{docchat.Errorf(docchat.EUNAUTHORIZED, "bad key")}}
		var calls int
		p := newPipeline(t, loader(doc("a.html", "one")), embedder(&calls), idx.mock())

		_, err := p.Run(context.Background(), nil)

		assert.Equal(t, docchat.EUNAUTHORIZED, docchat.ErrorCode(err))
	})

	t.Run("load failure stops before embedding", func(t *testing.T) {
		t.Parallel()

		l := &mock.DocumentLoader{
			LoadFn: func(context.Context) ([]*docchat.Document, error) {
				return nil, docchat.Errorf(docchat.ENOTFOUND, "directory not found: langchain-docs")
			},
		}
		var calls int
		p := newPipeline(t, l, embedder(&calls), (&fakeIndex{}).mock())

		_, err := p.Run(context.Background(), nil)

		assert.Equal(t, docchat.ENOTFOUND, docchat.ErrorCode(err))
		assert.Zero(t, calls)
	})

	t.Run("no documents writes nothing", func(t *testing.T) {
		t.Parallel()

		idx := &fakeIndex{}
		var calls int
		p := newPipeline(t, loader(), embedder(&calls), idx.mock())

		result, err := p.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.Zero(t, result.Upserted)
		assert.Zero(t, calls)
		assert.Empty(t, idx.ensured)
	})

	t.Run("counts tokens when a counter is set", func(t *testing.T) {
		t.Parallel()

		var calls int
		p := newPipeline(t, loader(doc("a.html", "one"), doc("b.html", "two")), embedder(&calls), (&fakeIndex{}).mock())
		p.Tokens = &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) {
				return len(text), nil
			},
		}

		result, err := p.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, len("one\n\ntwo\n\n"), result.Tokens)
		assert.Equal(t, 6, result.Bytes)
	})

	t.Run("token count failure does not fail the run", func(t *testing.T) {
		t.Parallel()

		var calls int
		p := newPipeline(t, loader(doc("a.html", "one")), embedder(&calls), (&fakeIndex{}).mock())
		p.Tokens = &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) {
				return 0, errors.New("tokenizer unavailable")
			},
		}

		result, err := p.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.Zero(t, result.Tokens)
	})
}

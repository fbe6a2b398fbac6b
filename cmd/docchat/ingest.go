package main

import (
	"fmt"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	splitter, err := docchat.NewTextSplitter(c.ChunkSize, c.ChunkOverlap)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}
	mode, err := docchat.ParseKeyMode(c.KeyMode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}

	pipeline := &ingest.Pipeline{
		Loader:   deps.Loader,
		Splitter: splitter,
		Rewriter: &docchat.SourceRewriter{
			LocalPrefix:  c.LocalPrefix,
			RemotePrefix: c.RemotePrefix,
		},
		Embedder:  deps.Embedder,
		Index:     deps.Index,
		KeyMode:   mode,
		BatchSize: c.BatchSize,
		Policy:    deps.Policy,
		Tokens:    deps.Tokens,
	}

	result, err := pipeline.Run(deps.Ctx, func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressLoaded:
			fmt.Fprintf(deps.Stdout, "Loaded %d documents\n", event.Count)
		case ingest.ProgressSplit:
			fmt.Fprintf(deps.Stdout, "Split %d documents\n", event.Count)
		case ingest.ProgressWriting:
			fmt.Fprintf(deps.Stdout, "Going to write %d documents\n", event.Total)
		case ingest.ProgressBatch:
			deps.logger().Debug("batch written", "written", event.Count, "total", event.Total)
		case ingest.ProgressWritten:
			fmt.Fprintf(deps.Stdout, "Embeddings written to %s\n", event.Index)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}

	summary := fmt.Sprintf("Ingested %d documents (%s) as %d chunks", result.Documents, docchat.FormatBytes(result.Bytes), result.Upserted)
	if result.Tokens > 0 {
		summary += fmt.Sprintf(", %s", docchat.FormatTokens(result.Tokens))
	}
	fmt.Fprintln(deps.Stdout, summary)
	return nil
}

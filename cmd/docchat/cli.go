package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docchat"
)

// Vector index backends.
const (
	BackendWeaviate = "weaviate"
	BackendSQLite   = "sqlite"
)

// DefaultDir is the directory docfetch writes to by default.
const DefaultDir = "langchain-docs"

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Policy docchat.CallPolicy

	Index    docchat.VectorIndex
	Embedder docchat.Embedder
	Tokens   docchat.TokenCounter
	Loader   docchat.DocumentLoader
	Asker    docchat.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Backend string        `enum:"weaviate,sqlite" default:"weaviate" help:"Vector index backend (weaviate or sqlite)."`
	Index   string        `default:"${index}" help:"Vector index name."`
	DB      string        `name:"db" help:"SQLite database for the sqlite backend (default: env DOCCHAT_DB or ~/.docchat/docchat.db)."`
	Model   string        `default:"${model}" help:"Gemini model used to answer questions."`
	Timeout time.Duration `default:"30s" help:"Timeout per external call attempt."`
	Retries int           `default:"3" help:"Retries for transient external failures."`
	Verbose bool          `short:"v" help:"Log every external call at debug level."`
	LogFile string        `name:"log-file" help:"Write logs to this file."`

	Ingest IngestCmd `cmd:"" help:"Load downloaded pages, embed them and write them to the vector index"`
	Ask    AskCmd    `cmd:"" help:"Ask one question about the indexed documentation"`
	Chat   ChatCmd   `cmd:"" help:"Chat about the indexed documentation in the terminal"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Dir          string `default:"${dir}" help:"Directory of downloaded pages."`
	Extractor    string `enum:"goquery,trafilatura,readability" default:"goquery" help:"Main content extractor."`
	Format       string `enum:"text,markdown" default:"text" help:"Chunk text format."`
	ChunkSize    int    `default:"400" help:"Maximum characters per chunk."`
	ChunkOverlap int    `default:"50" help:"Characters shared by neighbouring chunks."`
	LocalPrefix  string `default:"${local_prefix}" help:"Path prefix replaced when building source URLs."`
	RemotePrefix string `default:"${remote_prefix}" help:"Replacement for the local prefix."`
	BatchSize    int    `default:"100" help:"Chunks embedded and written per batch."`
	KeyMode      string `enum:"append,hash" default:"append" help:"Record IDs: append (random) or hash (content derived, re-runs overwrite)."`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the documentation"`
	TopK     int    `name:"top-k" default:"4" help:"Chunks retrieved per question."`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Title string `default:"${title}" help:"Header shown above the conversation."`
	TopK  int    `name:"top-k" default:"4" help:"Chunks retrieved per question."`
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

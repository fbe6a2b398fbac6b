package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/bubbletea"
	"github.com/fwojciec/docchat/chat"
	"github.com/fwojciec/docchat/fs"
	"github.com/fwojciec/docchat/gemini"
	"github.com/fwojciec/docchat/goquery"
	"github.com/fwojciec/docchat/htmltomarkdown"
	"github.com/fwojciec/docchat/readability"
	dcslog "github.com/fwojciec/docchat/slog"
	"github.com/fwojciec/docchat/sqlite"
	"github.com/fwojciec/docchat/trafilatura"
	"github.com/fwojciec/docchat/weaviate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config overrides the environment. Loaded with LoadConfig when nil.
	Config *Config

	// Stdin feeds the chat screen.
	Stdin io.Reader

	// Model boundaries for end-to-end testing. Gemini is used for any
	// left nil.
	Embedder    docchat.Embedder
	Synthesizer docchat.AnswerSynthesizer
	Condenser   docchat.QuestionCondenser

	// SQLite database, open while a command using the sqlite backend runs.
	DB *sqlite.DB

	logFile *os.File
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.logFile != nil {
		_ = m.logFile.Close()
		m.logFile = nil
	}
	if m.DB != nil {
		err := m.DB.Close()
		m.DB = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docchat"),
		kong.Description("Chat with downloaded documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{
			"index":         docchat.DefaultIndexName,
			"model":         gemini.DefaultChatModel,
			"dir":           DefaultDir,
			"local_prefix":  docchat.DefaultLocalPrefix,
			"remote_prefix": docchat.DefaultRemotePrefix,
			"title":         bubbletea.DefaultTitle,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return docchat.Errorf(docchat.EINVALID, "no command specified. Run 'docchat --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg := m.Config
	if cfg == nil {
		if cfg, err = LoadConfig(); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", docchat.ErrorMessage(err))
			return err
		}
	}
	if err := cfg.Validate(cli.Backend); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}
	defer m.Close()

	if err := m.wire(ctx, cmd, cli, cfg, deps); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the dependencies cmd needs.
func (m *Main) wire(ctx context.Context, cmd string, cli *CLI, cfg *Config, deps *Dependencies) error {
	logger, err := m.openLogger(cmd, cli, deps.Stderr)
	if err != nil {
		return err
	}
	deps.Logger = logger

	deps.Policy = docchat.NewCallPolicy(cli.Timeout, cli.Retries)
	deps.Policy.OnRetry = func(attempt int, err error) {
		logger.Warn("retrying", "attempt", attempt, "err", err)
	}

	index, err := m.openIndex(cli, cfg, deps.Stderr)
	if err != nil {
		return err
	}

	task := gemini.TaskRetrievalQuery
	if cmd == "ingest" {
		task = gemini.TaskRetrievalDocument
	}
	models, err := m.loadModels(ctx, cfg, cli.Model, task)
	if err != nil {
		return err
	}

	deps.Index = dcslog.NewLoggingIndex(index, logger)
	deps.Embedder = dcslog.NewLoggingEmbedder(models.embedder, logger)

	switch cmd {
	case "ingest":
		deps.Loader = newLoader(&cli.Ingest)
		if models.gemini {
			if tokens, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel); err != nil {
				logger.Warn("token counting disabled", "err", err)
			} else {
				deps.Tokens = tokens
			}
		}

	case "ask", "chat":
		topK := cli.Ask.TopK
		if cmd == "chat" {
			topK = cli.Chat.TopK
		}
		deps.Asker = dcslog.NewLoggingAsker(&chat.Handler{
			Embedder:    deps.Embedder,
			Index:       deps.Index,
			Synthesizer: models.synthesizer,
			Condenser:   models.condenser,
			TopK:        topK,
			Policy:      deps.Policy,
		}, logger)
	}
	return nil
}

// openLogger logs to --log-file when set. Otherwise chat discards logs so
// they never draw over the screen, and other commands log to stderr.
func (m *Main) openLogger(cmd string, cli *CLI, stderr io.Writer) (*slog.Logger, error) {
	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = stderr
	switch {
	case cli.LogFile != "":
		f, err := os.OpenFile(cli.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		m.logFile = f
		w = f
		if !cli.Verbose {
			level = slog.LevelInfo
		}
	case cmd == "chat":
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func (m *Main) openIndex(cli *CLI, cfg *Config, stderr io.Writer) (docchat.VectorIndex, error) {
	switch cli.Backend {
	case BackendSQLite:
		m.DB = sqlite.NewDB(cfg.DatabasePath(cli.DB))
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set DOCCHAT_DB or --db to use a different database path")
			return nil, fmt.Errorf("failed to open database at %q: %w", m.DB.Path(), err)
		}
		return sqlite.NewIndex(m.DB, cli.Index), nil
	default:
		client, err := weaviate.NewClient(cfg.WeaviateHost, cfg.WeaviateAPIKey)
		if err != nil {
			return nil, err
		}
		return weaviate.NewIndex(client, cli.Index), nil
	}
}

type modelSet struct {
	embedder    docchat.Embedder
	synthesizer docchat.AnswerSynthesizer
	condenser   docchat.QuestionCondenser

	// gemini is set when any boundary talks to the Gemini API.
	gemini bool
}

// loadModels returns the model boundaries, filling any not injected on Main
// with Gemini implementations.
func (m *Main) loadModels(ctx context.Context, cfg *Config, model, task string) (*modelSet, error) {
	ms := &modelSet{
		embedder:    m.Embedder,
		synthesizer: m.Synthesizer,
		condenser:   m.Condenser,
	}
	if ms.embedder != nil && ms.synthesizer != nil && ms.condenser != nil {
		return ms, nil
	}

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL)
	if err != nil {
		return nil, err
	}
	ms.gemini = true
	if ms.embedder == nil {
		ms.embedder = gemini.NewEmbedder(client, gemini.WithTaskType(task))
	}
	if ms.synthesizer == nil {
		ms.synthesizer = gemini.NewSynthesizer(client, model)
	}
	if ms.condenser == nil {
		ms.condenser = gemini.NewCondenser(client, model)
	}
	return ms, nil
}

func newLoader(c *IngestCmd) *fs.Loader {
	var extractor docchat.Extractor
	switch c.Extractor {
	case "trafilatura":
		extractor = trafilatura.NewExtractor()
	case "readability":
		extractor = readability.NewExtractor()
	default:
		extractor = goquery.NewExtractor()
	}

	var converter docchat.Converter
	switch c.Format {
	case "markdown":
		converter = htmltomarkdown.NewConverter()
	default:
		converter = goquery.NewTextConverter()
	}

	return fs.NewLoader(c.Dir, extractor, converter)
}

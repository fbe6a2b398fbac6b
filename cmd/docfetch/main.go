package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/crawl"
	"github.com/fwojciec/docchat/fs"
	"github.com/fwojciec/docchat/goquery"
	dchttp "github.com/fwojciec/docchat/http"
	"github.com/fwojciec/docchat/rod"
	dcslog "github.com/fwojciec/docchat/slog"
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
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docfetch"),
		kong.Description("Download a documentation page and every page it links to."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"url": DefaultURL, "dir": DefaultDir},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	if cli.Concurrency < 1 {
		err := docchat.Errorf(docchat.EINVALID, "concurrency must be at least 1")
		fmt.Fprintf(stderr, "error: %s\n", docchat.ErrorMessage(err))
		return err
	}

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Links:    goquery.NewLinkExtractor(),
		Detector: goquery.NewDetector(),
		Pages:    fs.NewPageStore(cli.Dir, fs.Layout(cli.Layout)),
		Policy:   docchat.NewCallPolicy(cli.Timeout, cli.Retries),
	}
	if cli.RPS > 0 {
		deps.Limiter = crawl.NewDomainLimiter(cli.RPS)
	}

	if cli.RenderJS {
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render-js")
			fmt.Fprintf(stderr, "error: %s\n", docchat.ErrorMessage(err))
			return err
		}
		deps.Fetcher = fetcher
	} else {
		deps.Fetcher = dchttp.NewFetcher(dchttp.WithTimeout(cli.Timeout))
	}
	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		deps.Fetcher = dcslog.NewLoggingFetcher(deps.Fetcher, logger)
	}
	defer deps.Fetcher.Close()

	cmd := &FetchCmd{
		URL:         cli.URL,
		Dir:         cli.Dir,
		Preview:     cli.Preview,
		Dedupe:      cli.Dedupe,
		Concurrency: cli.Concurrency,
	}
	return cmd.Run(deps)
}

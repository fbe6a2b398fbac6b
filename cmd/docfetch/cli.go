package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/docchat"
)

// Defaults match the LangChain API reference crawl.
const (
	DefaultURL = "https://api.python.langchain.com/en/latest/api_reference.html"
	DefaultDir = "langchain-docs"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL string `arg:"" optional:"" default:"${url}" help:"Root page whose linked pages are downloaded."`
	Dir string `arg:"" optional:"" default:"${dir}" help:"Output directory."`

	Concurrency int           `short:"c" default:"1" help:"Pages downloaded in parallel."`
	Timeout     time.Duration `short:"t" default:"10s" help:"Timeout per fetch attempt."`
	Retries     int           `default:"3" help:"Retries for transient fetch failures."`
	RPS         float64       `name:"rps" default:"0" help:"Requests per second per host (0 disables rate limiting)."`
	RenderJS    bool          `name:"render-js" help:"Render pages in headless Chrome."`
	Dedupe      bool          `help:"Download each linked URL once."`
	Layout      string        `enum:"flat,mirror" default:"flat" help:"Output layout: flat (file name only) or mirror (host/path)."`
	Preview     bool          `short:"p" help:"List the links that would be downloaded and exit."`
	Verbose     bool          `short:"v" help:"Log every fetch to stderr."`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Fetcher  docchat.Fetcher
	Links    docchat.LinkExtractor
	Detector docchat.FrameworkDetector
	Pages    docchat.PageStore
	Limiter  docchat.DomainLimiter
	Policy   docchat.CallPolicy
}

// FetchCmd downloads the pages linked from URL into Dir.
type FetchCmd struct {
	URL         string
	Dir         string
	Preview     bool
	Dedupe      bool
	Concurrency int
}

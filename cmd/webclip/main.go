package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/yult97/webclip"
	wcgoquery "github.com/yult97/webclip/goquery"
	"github.com/yult97/webclip/htmltomarkdown"
	wchttp "github.com/yult97/webclip/http"
	"github.com/yult97/webclip/readability"
	wcrod "github.com/yult97/webclip/rod"
	wcslog "github.com/yult97/webclip/slog"
	"github.com/yult97/webclip/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher for URL inputs: headless browser with --browser,
	// plain HTTP otherwise.
	Fetcher webclip.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		return m.Fetcher.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webclip"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webclip --help' to see available commands")
	}
	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(cli.Verbose),
	}))

	// The browser fetcher keeps its last page open, so with --browser
	// quoted-post permalinks resolve through the live page context.
	// Static inputs carry no page, so their resolver stays nil and every
	// resolution degrades to the unknown-link placeholder.
	var resolver webclip.PermalinkResolver
	if cli.Extract.Browser {
		fetcher, err := wcrod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.Fetcher = fetcher
		resolver = fetcher.Resolver()
	} else {
		// Plain HTTP for URL inputs without --browser. Static pages only,
		// no computed-style annotations.
		m.Fetcher = wchttp.NewFetcher()
	}
	deps.Fetcher = m.Fetcher
	defer m.Close()

	// Wire the extraction pipeline: readability engine, site-specific
	// extractors, detector-driven registry with logging.
	var engine webclip.Readability
	switch cli.Extract.Engine {
	case "trafilatura":
		engine = trafilatura.NewExtractor()
	default:
		engine = readability.NewExtractor()
	}

	cache := webclip.NewPermalinkCache()
	generic := wcgoquery.NewArticleExtractor(engine, wcgoquery.DefaultArticleConfig())
	registry := wcgoquery.NewRegistry(wcgoquery.NewDetector(), generic)
	registry.Register(webclip.SiteSocial, wcgoquery.NewSocialExtractor(resolver, cache, wcgoquery.DefaultSocialConfig()))
	registry.Register(webclip.SiteWeixin, wcgoquery.NewWeixinExtractor())
	registry.Register(webclip.SiteGeneric, generic)
	deps.Registry = wcslog.NewLoggingRegistry(registry, wcgoquery.NewDetector(), logger)
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Logger = logger

	return kongCtx.Run(deps)
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/yult97/webclip"
)

// Dependencies holds all services and configuration for command
// execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Registry  webclip.ExtractorRegistry
	Converter webclip.Converter
	Fetcher   webclip.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract ExtractCmd `cmd:"" help:"Extract an article from a URL or HTML file"`
	Verbose bool       `short:"v" help:"Enable debug logging"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source  string `arg:"" help:"Page URL or path to a rendered HTML file"`
	URL     string `short:"u" help:"Page URL when reading HTML from a file"`
	Engine  string `short:"e" default:"readability" enum:"readability,trafilatura" help:"Readability engine"`
	Format  string `short:"f" default:"json" enum:"json,markdown" help:"Output format"`
	Browser bool   `short:"b" help:"Fetch and render the URL with a headless browser"`
}

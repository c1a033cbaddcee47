package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yult97/webclip"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, pageURL, err := c.loadPage(deps)
	if err != nil {
		return err
	}

	extractor := deps.Registry.GetForPage(html, pageURL)
	result, err := extractor.Extract(deps.Ctx, html, pageURL)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if result.Empty() {
		return webclip.Errorf(webclip.ENOTFOUND, "no article content found in page")
	}

	switch c.Format {
	case "markdown":
		return c.writeMarkdown(deps, result)
	default:
		return c.writeJSON(deps, result)
	}
}

// loadPage returns the rendered HTML and the page URL for extraction.
// URL sources are fetched with the configured fetcher, headless browser
// under --browser or plain HTTP otherwise. Anything else is a path to an
// HTML file, or "-" for stdin, with the page URL coming from --url.
func (c *ExtractCmd) loadPage(deps *Dependencies) (html, pageURL string, err error) {
	if c.Browser || isURL(c.Source) {
		if deps.Fetcher == nil {
			return "", "", webclip.Errorf(webclip.EINTERNAL, "fetcher not initialized")
		}
		html, err = deps.Fetcher.Fetch(deps.Ctx, c.Source)
		if err != nil {
			return "", "", fmt.Errorf("failed to fetch %s: %w", c.Source, err)
		}
		return html, c.Source, nil
	}

	var raw []byte
	if c.Source == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(c.Source)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", c.Source, err)
	}
	return string(raw), c.URL, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (c *ExtractCmd) writeJSON(deps *Dependencies, result *webclip.ExtractResult) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func (c *ExtractCmd) writeMarkdown(deps *Dependencies, result *webclip.ExtractResult) error {
	md, err := deps.Converter.Convert(result.ContentHTML)
	if err != nil {
		return fmt.Errorf("failed to convert to markdown: %w", err)
	}
	if result.Title != "" {
		fmt.Fprintf(deps.Stdout, "# %s\n\n", result.Title)
	}
	fmt.Fprintln(deps.Stdout, md)
	return nil
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/yult97/webclip"
)

// Ensure LoggingExtractor implements webclip.Extractor.
var _ webclip.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with timing and outcome logging.
type LoggingExtractor struct {
	next   webclip.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next webclip.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, html string, pageURL string) (*webclip.ExtractResult, error) {
	begin := time.Now()
	result, err := e.next.Extract(ctx, html, pageURL)
	if err != nil {
		e.logger.Error("extraction failed",
			"url", pageURL,
			"error", err,
			"duration", time.Since(begin),
		)
		return nil, err
	}
	e.logger.Info("extraction complete",
		"url", pageURL,
		"title", result.Title,
		"blocks", len(result.Blocks),
		"images", len(result.Images),
		"words", result.WordCount,
		"duration", time.Since(begin),
	)
	return result, nil
}

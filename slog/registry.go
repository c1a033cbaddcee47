// Package slog provides logging decorators for webclip interfaces using
// the standard library's structured logger.
package slog

import (
	"log/slog"
	"time"

	"github.com/yult97/webclip"
)

// Ensure LoggingRegistry implements webclip.ExtractorRegistry.
var _ webclip.ExtractorRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an ExtractorRegistry with debug logging for site
// kind detection.
type LoggingRegistry struct {
	next     webclip.ExtractorRegistry
	detector webclip.SiteDetector
	logger   *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next webclip.ExtractorRegistry, detector webclip.SiteDetector, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, detector: detector, logger: logger}
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(kind webclip.SiteKind) webclip.Extractor {
	return r.next.Get(kind)
}

// GetForPage detects the site kind, logs it, and returns the appropriate
// extractor.
func (r *LoggingRegistry) GetForPage(html string, pageURL string) webclip.Extractor {
	begin := time.Now()
	kind := r.detector.Detect(html, pageURL)
	kindName := string(kind)
	if kind == webclip.SiteUnknown {
		kindName = "(unknown)"
	}
	r.logger.Info("site detection",
		"kind", kindName,
		"url", pageURL,
		"duration", time.Since(begin),
	)
	return r.next.GetForPage(html, pageURL)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(kind webclip.SiteKind, e webclip.Extractor) {
	r.next.Register(kind, e)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []webclip.SiteKind {
	return r.next.List()
}

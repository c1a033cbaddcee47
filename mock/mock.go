// Package mock provides function-field mock implementations of the
// webclip domain interfaces for testing.
package mock

import (
	"context"

	"github.com/yult97/webclip"
)

var _ webclip.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webclip.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, html string, pageURL string) (*webclip.ExtractResult, error)
}

func (e *Extractor) Extract(ctx context.Context, html string, pageURL string) (*webclip.ExtractResult, error) {
	return e.ExtractFn(ctx, html, pageURL)
}

var _ webclip.Readability = (*Readability)(nil)

// Readability is a mock implementation of webclip.Readability.
type Readability struct {
	ParseFn func(html string, pageURL string) (*webclip.Readable, error)
}

func (r *Readability) Parse(html string, pageURL string) (*webclip.Readable, error) {
	return r.ParseFn(html, pageURL)
}

var _ webclip.PermalinkResolver = (*PermalinkResolver)(nil)

// PermalinkResolver is a mock implementation of webclip.PermalinkResolver.
type PermalinkResolver struct {
	ResolvePermalinkFn func(ctx context.Context, token string) (string, error)
}

func (r *PermalinkResolver) ResolvePermalink(ctx context.Context, token string) (string, error) {
	return r.ResolvePermalinkFn(ctx, token)
}

var _ webclip.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of webclip.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ webclip.Converter = (*Converter)(nil)

// Converter is a mock implementation of webclip.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ webclip.SiteDetector = (*SiteDetector)(nil)

// SiteDetector is a mock implementation of webclip.SiteDetector.
type SiteDetector struct {
	DetectFn func(html string, pageURL string) webclip.SiteKind
}

func (d *SiteDetector) Detect(html string, pageURL string) webclip.SiteKind {
	return d.DetectFn(html, pageURL)
}

var _ webclip.ExtractorRegistry = (*ExtractorRegistry)(nil)

// ExtractorRegistry is a mock implementation of webclip.ExtractorRegistry.
type ExtractorRegistry struct {
	GetFn        func(kind webclip.SiteKind) webclip.Extractor
	GetForPageFn func(html string, pageURL string) webclip.Extractor
	RegisterFn   func(kind webclip.SiteKind, e webclip.Extractor)
	ListFn       func() []webclip.SiteKind
}

func (r *ExtractorRegistry) Get(kind webclip.SiteKind) webclip.Extractor {
	return r.GetFn(kind)
}

func (r *ExtractorRegistry) GetForPage(html string, pageURL string) webclip.Extractor {
	return r.GetForPageFn(html, pageURL)
}

func (r *ExtractorRegistry) Register(kind webclip.SiteKind, e webclip.Extractor) {
	r.RegisterFn(kind, e)
}

func (r *ExtractorRegistry) List() []webclip.SiteKind {
	if r.ListFn == nil {
		return nil
	}
	return r.ListFn()
}

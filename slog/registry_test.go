package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yult97/webclip"
	"github.com/yult97/webclip/mock"
	wcslog "github.com/yult97/webclip/slog"
)

func TestLoggingRegistry_GetForPage(t *testing.T) {
	t.Parallel()

	t.Run("logs the detected site kind with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		extractor := &mock.Extractor{}
		inner := &mock.ExtractorRegistry{
			GetForPageFn: func(html string, pageURL string) webclip.Extractor {
				return extractor
			},
		}
		detector := &mock.SiteDetector{
			DetectFn: func(html string, pageURL string) webclip.SiteKind {
				return webclip.SiteSocial
			},
		}

		registry := wcslog.NewLoggingRegistry(inner, detector, logger)
		got := registry.GetForPage("<html></html>", "https://x.com/u/status/1")

		assert.Equal(t, webclip.Extractor(extractor), got)
		output := buf.String()
		assert.Contains(t, output, "site detection")
		assert.Contains(t, output, "kind=social")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs unknown site kinds readably", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ExtractorRegistry{
			GetForPageFn: func(html string, pageURL string) webclip.Extractor {
				return &mock.Extractor{}
			},
		}
		detector := &mock.SiteDetector{
			DetectFn: func(html string, pageURL string) webclip.SiteKind {
				return webclip.SiteUnknown
			},
		}

		registry := wcslog.NewLoggingRegistry(inner, detector, logger)
		registry.GetForPage("<html></html>", "https://example.com/post")

		assert.Contains(t, buf.String(), "kind=(unknown)")
	})

	t.Run("delegates Get, Register and List", func(t *testing.T) {
		t.Parallel()

		extractor := &mock.Extractor{}
		var registered webclip.SiteKind
		inner := &mock.ExtractorRegistry{
			GetFn: func(kind webclip.SiteKind) webclip.Extractor { return extractor },
			RegisterFn: func(kind webclip.SiteKind, e webclip.Extractor) {
				registered = kind
			},
			ListFn: func() []webclip.SiteKind { return []webclip.SiteKind{webclip.SiteWeixin} },
		}

		registry := wcslog.NewLoggingRegistry(inner, &mock.SiteDetector{}, slog.New(slog.DiscardHandler))
		registry.Register(webclip.SiteWeixin, extractor)

		assert.Equal(t, webclip.SiteWeixin, registered)
		assert.Equal(t, webclip.Extractor(extractor), registry.Get(webclip.SiteWeixin))
		assert.Equal(t, []webclip.SiteKind{webclip.SiteWeixin}, registry.List())
	})
}

package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yult97/webclip"
	"github.com/yult97/webclip/mock"
	wcslog "github.com/yult97/webclip/slog"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs a successful extraction with counters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(_ context.Context, _ string, _ string) (*webclip.ExtractResult, error) {
				return &webclip.ExtractResult{
					Title:     "A Title",
					Blocks:    []webclip.ContentBlock{{Type: webclip.BlockParagraph}},
					WordCount: 42,
				}, nil
			},
		}

		e := wcslog.NewLoggingExtractor(inner, logger)
		result, err := e.Extract(context.Background(), "<html></html>", "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "A Title", result.Title)
		output := buf.String()
		assert.Contains(t, output, "extraction complete")
		assert.Contains(t, output, "blocks=1")
		assert.Contains(t, output, "words=42")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs and propagates failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(_ context.Context, _ string, _ string) (*webclip.ExtractResult, error) {
				return nil, webclip.Errorf(webclip.EINVALID, "bad input")
			},
		}

		e := wcslog.NewLoggingExtractor(inner, logger)
		_, err := e.Extract(context.Background(), "", "https://example.com/post")

		require.Error(t, err)
		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
		assert.Contains(t, buf.String(), "extraction failed")
	})
}

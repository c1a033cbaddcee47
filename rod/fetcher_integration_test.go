//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yult97/webclip"
	wcrod "github.com/yult97/webclip/rod"
)

// Ensure Fetcher implements webclip.Fetcher.
var _ webclip.Fetcher = (*wcrod.Fetcher)(nil)

func TestFetcher_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	// Server that never responds - let context win
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {}
	}))
	defer srv.Close()

	fetcher, err := wcrod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err = fetcher.Fetch(ctx, srv.URL)
	require.Error(t, err)
}

func TestFetcher_Fetch_AnnotatesRenderedTree(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content" style="display:none">Hidden copy</div>
<p>Visible paragraph</p>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher, err := wcrod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	html, err := fetcher.Fetch(ctx, srv.URL)
	require.NoError(t, err)

	// Computed style and geometry are stamped onto every element so the
	// static pipeline can read rendering facts from attributes.
	assert.Contains(t, html, `data-wc-display="none"`)
	assert.Contains(t, html, "data-wc-w=")
	assert.Contains(t, html, "data-wc-h=")
	assert.Contains(t, html, "Visible paragraph")
}

func TestResolver_ResolvePermalink(t *testing.T) {
	t.Parallel()

	t.Run("degrades to not found before any fetch", func(t *testing.T) {
		t.Parallel()

		fetcher, err := wcrod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		resolver := fetcher.Resolver()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		url, err := resolver.ResolvePermalink(ctx, "token-1")
		require.NoError(t, err)
		assert.Empty(t, url)
	})

	t.Run("reaches the fetched page's script context", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><script>
window.__wcResolvePermalink = function(token) {
	return "https://x.com/alice/status/" + token;
};
</script></body></html>`))
		}))
		defer srv.Close()

		fetcher, err := wcrod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err = fetcher.Fetch(ctx, srv.URL)
		require.NoError(t, err)

		// The snapshot page stays live after Fetch, so the resolver can
		// still ask it for permalinks.
		url, err := fetcher.Resolver().ResolvePermalink(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "https://x.com/alice/status/42", url)
	})

	t.Run("pages without a hook answer not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>no resolver hook here</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := wcrod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err = fetcher.Fetch(ctx, srv.URL)
		require.NoError(t, err)

		url, err := fetcher.Resolver().ResolvePermalink(ctx, "token-1")
		require.NoError(t, err)
		assert.Empty(t, url)
	})
}

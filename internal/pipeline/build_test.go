package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shouni/go-article-enricher/internal/config"
	"github.com/shouni/go-article-enricher/pkg/classify"
	pkgpipeline "github.com/shouni/go-article-enricher/pkg/pipeline"
)

func testConfig() *config.Config {
	return &config.Config{
		Timeout:     2 * time.Second,
		Concurrency: 2,
		LogLevel:    "info",
	}
}

func TestBuild_RunsAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head><meta property="article:published_time" content="2024-03-15"></head>
				<body><p>Pakistan hit by terror attack near border</p></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c, err := Build(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	rows := c.Pipeline.Run(context.Background(), []pkgpipeline.Input{
		{Headline: "Pakistan terror attack", Link: server.URL + "/article"},
		{Headline: "Missing", Link: server.URL + "/missing"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "15/03/2024", rows[0].Date.String())
	assert.Equal(t, classify.AntiPakistan, rows[0].Label)
	assert.Greater(t, rows[0].Similarity, 0.0)

	assert.True(t, rows[1].Date.IsZero())
	assert.Equal(t, classify.Miscellaneous, rows[1].Label)
}

func TestBuild_RulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - label: Anti-China\n    subject: beijing\n    signals: [protest]\n"), 0o600))

	cfg := testConfig()
	cfg.RulesFile = path

	c, err := Build(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, classify.AntiChina, c.Classifier.Classify("Protest in Beijing"))
	assert.Equal(t, classify.Miscellaneous, c.Classifier.Classify("India sees strong economic success"))
}

func TestBuild_InvalidRulesFile(t *testing.T) {
	cfg := testConfig()
	cfg.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Build(cfg, nil)
	assert.Error(t, err)
}

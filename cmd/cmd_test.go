package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-article-enricher/internal/config"
	"github.com/shouni/go-article-enricher/pkg/classify"
	"github.com/shouni/go-article-enricher/pkg/dates"
	"github.com/shouni/go-article-enricher/pkg/httpclient"
	"github.com/shouni/go-article-enricher/pkg/pipeline"
)

func TestEnsureScheme(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "example.com/news", want: "https://example.com/news"},
		{in: "http://example.com", want: "http://example.com"},
		{in: " https://example.com/a ", want: "https://example.com/a"},
		{in: "ftp://example.com", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ensureScheme(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderResults(t *testing.T) {
	rows := []pipeline.ResultRow{
		{Headline: "India sees strong economic success this year", Date: dates.Date{Year: 2024, Month: time.March, Day: 15}, DateSource: dates.SourceMetaTag, Label: classify.ProIndia, Similarity: 0.5},
		{Headline: "Weather", Label: classify.Miscellaneous},
	}

	var buf bytes.Buffer
	renderResults(&buf, rows)
	out := buf.String()

	assert.Contains(t, out, "15/03/2024")
	assert.Contains(t, out, "Pro-India")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "meta-tag")
	// フッターは大文字で描画される
	assert.Contains(t, strings.ToLower(out), "2 rows")
	assert.Contains(t, strings.ToLower(out), "1 dated")
	assert.Contains(t, out, "Anti-Pakistan")
}

func TestRunInspectPipeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/article" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><head><meta name="pubdate" content="2021-06-06"></head>
			<body><time datetime="2018-01-02"></time><p>China faces new tariff sanctions</p></body></html>`))
	}))
	defer server.Close()

	appConfig = &config.Config{Timeout: time.Second}
	client := httpclient.New(time.Second)
	engine := dates.NewEngine(nil)
	p := pipeline.New(client, engine, nil, pipeline.WithRateLimit(0))

	res := runInspectPipeline(context.Background(), client, engine, p,
		pipeline.Input{Headline: "China tariffs", Link: server.URL + "/article"})

	require.NoError(t, res.FetchErr)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, dates.SourceMetaTag, res.Row.DateSource)
	assert.Equal(t, "06/06/2021", res.Row.Date.String())
	assert.Equal(t, classify.AntiChina, res.Row.Label)

	var buf bytes.Buffer
	renderInspection(&buf, res)
	assert.Contains(t, buf.String(), "2018-01-02")
	assert.Contains(t, buf.String(), "Classification: Anti-China")

	missing := runInspectPipeline(context.Background(), client, engine, p,
		pipeline.Input{Link: server.URL + "/missing"})
	assert.Error(t, missing.FetchErr)
	assert.Empty(t, missing.Candidates)
	assert.Equal(t, classify.Miscellaneous, missing.Row.Label)
}

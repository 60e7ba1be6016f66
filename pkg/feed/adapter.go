package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/shouni/go-article-enricher/pkg/pipeline"
)

// FeedAdapter は gofeed.Feed を pipeline.Source に適合させるためのアダプターです。
type FeedAdapter struct {
	*gofeed.Feed
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
func NewFeedAdapter(feed *gofeed.Feed) *FeedAdapter {
	return &FeedAdapter{Feed: feed}
}

// Inputs はアイテムのタイトルとリンクを処理対象の行として返します。
// リンクのないアイテムは除外します。
func (a *FeedAdapter) Inputs() []pipeline.Input {
	if a.Feed == nil || len(a.Items) == 0 {
		return []pipeline.Input{}
	}

	inputs := make([]pipeline.Input, 0, len(a.Items))
	for _, item := range a.Items {
		if item == nil {
			continue
		}
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		inputs = append(inputs, pipeline.Input{
			Headline: strings.TrimSpace(item.Title),
			Link:     link,
		})
	}
	return inputs
}

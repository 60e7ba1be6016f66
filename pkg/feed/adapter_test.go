package feed

import (
	"testing"

	"github.com/mmcdole/gofeed"

	"github.com/shouni/go-article-enricher/pkg/pipeline"
)

// TestFeedAdapter_Inputs は FeedAdapter が gofeed.Feed から正しく行を組み立てられるかをテストします。
func TestFeedAdapter_Inputs(t *testing.T) {
	tests := []struct {
		name     string
		feed     *gofeed.Feed
		expected []pipeline.Input
	}{
		{
			name: "正常ケース_複数のアイテム",
			feed: &gofeed.Feed{
				Items: []*gofeed.Item{
					{Title: " India success ", Link: "http://example.com/a"},
					{Title: "China tariffs", Link: "http://example.com/b"},
					{Title: "リンクなし", Link: ""}, // 空リンクは無視されるべき
					nil,
					{Title: "", Link: " http://example.com/c "},
				},
			},
			expected: []pipeline.Input{
				{Headline: "India success", Link: "http://example.com/a"},
				{Headline: "China tariffs", Link: "http://example.com/b"},
				{Headline: "", Link: "http://example.com/c"},
			},
		},
		{
			name:     "エッジケース_アイテムが空",
			feed:     &gofeed.Feed{Items: []*gofeed.Item{}},
			expected: []pipeline.Input{},
		},
		{
			name:     "エッジケース_フィードがnil",
			feed:     nil,
			expected: []pipeline.Input{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := pipeline.CollectInputs(NewFeedAdapter(tt.feed))

			if len(actual) != len(tt.expected) {
				t.Fatalf("行の数が一致しません。\n期待値: %d\n実際: %d", len(tt.expected), len(actual))
			}
			for i := range actual {
				if actual[i] != tt.expected[i] {
					t.Errorf("行 [%d] が一致しません。\n期待値: %+v\n実際: %+v", i, tt.expected[i], actual[i])
				}
			}
		})
	}
}

func TestCollectInputs_NilSource(t *testing.T) {
	if got := pipeline.CollectInputs(nil); len(got) != 0 {
		t.Errorf("空のスライスを期待しましたが、%d件が返されました", len(got))
	}
}

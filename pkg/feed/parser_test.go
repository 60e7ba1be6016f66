package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// MockFetcher はテスト対象の Parser.client が依存する Fetcher インターフェースのモックです。
type MockFetcher struct {
	FetchBytesFunc func(ctx context.Context, url string) ([]byte, error)
}

// FetchBytes は設定された関数を実行します。
func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return m.FetchBytesFunc(ctx, url)
}

func TestFetchAndParse(t *testing.T) {
	ctx := context.Background()
	testURL := "http://example.com/feed"

	validRSS := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>http://example.com/</link>
    <item>
      <title>India sees strong economic success</title>
      <link>http://example.com/item1</link>
    </item>
  </channel>
</rss>`

	validAtom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>China faces new tariff sanctions</title>
    <link href="http://example.com/atom1"/>
    <id>urn:uuid:1</id>
    <updated>2024-03-15T10:00:00Z</updated>
  </entry>
</feed>`

	tests := []struct {
		name          string
		mockFetchFunc func(ctx context.Context, url string) ([]byte, error)
		expectedTitle string
		expectError   bool
		errorContains string
	}{
		{
			name: "成功ケース_有効なRSS",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				if url != testURL {
					t.Fatalf("予期せぬURLが呼び出されました: %s", url)
				}
				return []byte(validRSS), nil
			},
			expectedTitle: "Test Feed",
		},
		{
			name: "成功ケース_有効なAtom",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				return []byte(validAtom), nil
			},
			expectedTitle: "Atom Feed",
		},
		{
			name: "エラーケース_フィード取得失敗",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				return nil, errors.New("HTTPエラー: 500 Internal Server Error")
			},
			expectError:   true,
			errorContains: "フィードの取得失敗",
		},
		{
			name: "エラーケース_パース失敗",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				return []byte(`<invalid><tag>`), nil
			},
			expectError:   true,
			errorContains: "RSSフィードのパース失敗",
		},
		{
			name: "エッジケース_空ボディ",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				return []byte(""), nil
			},
			expectError:   true,
			errorContains: "RSSフィードのパース失敗",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(&MockFetcher{FetchBytesFunc: tt.mockFetchFunc})

			feed, err := p.FetchAndParse(ctx, testURL)

			if tt.expectError {
				if err == nil {
					t.Fatalf("エラーを期待していましたが、nilが返されました。")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("エラーメッセージが期待するものを含んでいません。\n期待値(部分一致): %s\n実際: %s", tt.errorContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("エラーを期待していませんでしたが、エラーが返されました: %v", err)
			}
			if feed.Title != tt.expectedTitle {
				t.Errorf("フィードタイトルが一致しません。\n期待値: %s\n実際: %s", tt.expectedTitle, feed.Title)
			}
			if got := NewFeedAdapter(feed).Inputs(); len(got) != 1 {
				t.Errorf("行の数が一致しません。\n期待値: 1\n実際: %d", len(got))
			}
		})
	}
}

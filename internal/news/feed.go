package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"stock-assistant/internal/logger"
	"stock-assistant/internal/store"
	"stock-assistant/internal/types"
)

// Fetcher pulls market news items from the configured RSS feed.
type Fetcher struct {
	client    *http.Client
	feedURL   string
	userAgent string
}

// NewFetcher creates an RSS news fetcher.
func NewFetcher(cfg *store.Config) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: 15 * time.Second},
		feedURL:   cfg.News.FeedURL,
		userAgent: cfg.Scraper.UserAgent,
	}
}

// TopItems returns up to count feed entries in feed order. Failures are
// logged and degrade to an empty slice; callers render "no news" instead
// of an error.
func (f *Fetcher) TopItems(ctx context.Context, count int) []types.NewsItem {
	items := []types.NewsItem{}
	if count <= 0 {
		return items
	}

	feed, err := f.fetchFeed(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch news feed", err, "url", f.feedURL)
		return items
	}

	for _, entry := range feed.Items {
		if len(items) >= count {
			break
		}
		if entry == nil || entry.Title == "" {
			continue
		}
		items = append(items, types.NewsItem{
			Title:     entry.Title,
			Summary:   entry.Description,
			Link:      entry.Link,
			Published: entry.Published,
		})
	}

	logger.Info(ctx, "News feed fetched", "url", f.feedURL, "items", len(items))
	return items
}

func (f *Fetcher) fetchFeed(ctx context.Context) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed parse failed: %w", err)
	}
	return feed, nil
}

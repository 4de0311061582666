package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stock-assistant/internal/logger"
	"stock-assistant/internal/store"
	"stock-assistant/internal/types"
)

// Content placeholders shown to the user when a post body cannot be
// extracted. A ForumPost never leaves this package with an empty Content.
const (
	placeholderFetchFailed     = "無法獲取文章內容"
	placeholderContentNotFound = "無法找到文章內容"
	placeholderExtractError    = "獲取文章內容時發生錯誤"
)

// Scraper extracts post summaries and bodies from the PTT Stock board.
// All fetches go through one shared Fetcher; calls are sequential and
// blocking, one request at a time.
type Scraper struct {
	fetcher  *Fetcher
	baseURL  string
	boardURL string
}

// New creates a scraper from config.
func New(cfg *store.Config) *Scraper {
	return &Scraper{
		fetcher: NewFetcher(FetcherConfig{
			UserAgent:  cfg.Scraper.UserAgent,
			MaxRetries: cfg.Scraper.MaxRetries,
			RetryDelay: time.Duration(cfg.Scraper.RetryDelaySeconds) * time.Second,
			Timeout:    time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second,
		}),
		baseURL:  cfg.Scraper.BaseURL,
		boardURL: cfg.Scraper.BoardURL,
	}
}

// ListPosts fetches the listing page and returns up to count complete
// posts in document order. A failed listing fetch yields an empty slice,
// never an error; malformed entries are skipped.
func (s *Scraper) ListPosts(ctx context.Context, url string, count int) []types.ForumPost {
	if url == "" {
		url = s.boardURL
	}
	posts := []types.ForumPost{}
	if count <= 0 {
		return posts
	}

	result := s.fetcher.Fetch(ctx, url)
	if result == nil {
		logger.Error(ctx, "Listing page fetch failed, returning no posts", "url", url)
		return posts
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.Body))
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to parse listing page", err, "url", url)
		return posts
	}

	doc.Find("div.r-ent").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		post, ok := s.extractPostInfo(ctx, sel)
		if !ok {
			// Deleted or malformed entry, skip without distinction
			return true
		}
		post.Content = s.fetchContent(ctx, post.Link)
		posts = append(posts, post)
		return len(posts) < count
	})

	logger.Info(ctx, "Listing extraction completed", "url", url, "posts", len(posts))
	return posts
}

// extractPostInfo pulls title, link, author and date out of one
// post-entry container. The bool reports whether the entry is usable;
// entries without a title link are skipped.
func (s *Scraper) extractPostInfo(ctx context.Context, sel *goquery.Selection) (types.ForumPost, bool) {
	titleLink := sel.Find("div.title a").First()
	if titleLink.Length() == 0 {
		return types.ForumPost{}, false
	}

	href, ok := titleLink.Attr("href")
	if !ok || href == "" {
		logger.Error(ctx, "Post entry has title without href, skipping")
		return types.ForumPost{}, false
	}

	author := strings.TrimSpace(sel.Find("div.author").Text())
	if author == "" {
		author = "N/A"
	}
	date := strings.TrimSpace(sel.Find("div.date").Text())
	if date == "" {
		date = "N/A"
	}

	return types.ForumPost{
		Title:  CleanText(strings.TrimSpace(titleLink.Text())),
		Link:   s.baseURL + href,
		Author: CleanText(author),
		Date:   CleanText(date),
	}, true
}

// fetchContent fetches a post page and extracts its sanitized body text.
// Every failure mode degrades to a placeholder string; this never
// returns an error to callers.
func (s *Scraper) fetchContent(ctx context.Context, url string) string {
	result := s.fetcher.Fetch(ctx, url)
	if result == nil {
		return placeholderFetchFailed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.Body))
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to parse post page", err, "url", url)
		return placeholderExtractError
	}

	content := doc.Find("#main-content").First()
	if content.Length() == 0 {
		return placeholderContentNotFound
	}

	// Drop nested wrappers: push replies, signature blocks, metadata
	// lines. Only the top-level text of the container remains.
	content.Find("div, span").Remove()

	return CleanText(strings.TrimSpace(content.Text()))
}

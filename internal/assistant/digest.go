package assistant

import (
	"context"
	"time"

	"stock-assistant/internal/logger"
	"stock-assistant/internal/trace"
	"stock-assistant/internal/types"
)

// DailyDigest builds the daily market observation: latest index session
// plus the top news items, each run through sentiment analysis. Every
// failure degrades to a placeholder entry; the digest itself is always
// produced.
func (a *Assistant) DailyDigest(ctx context.Context) types.Digest {
	ctx, span := trace.StartSpan(ctx, "daily-digest")
	defer span.End()

	digest := types.Digest{GeneratedAt: time.Now().Unix()}

	indexSummary, err := a.market.IndexSummary(ctx, a.cfg.Market.IndexSymbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Index summary unavailable", err, "symbol", a.cfg.Market.IndexSymbol)
		indexSummary = "無法獲取 TAIEX 指數資料。"
	}
	digest.IndexSummary = indexSummary

	items := a.news.TopItems(ctx, a.cfg.News.Items)
	for _, item := range items {
		analysis, err := a.AnalyzeNews(ctx, item.Title, item.Summary)
		if err != nil {
			analysis = types.NewsAnalysis{
				Sentiment:   "N/A",
				Explanation: "分析失敗，請稍後再試。",
			}
		}
		digest.News = append(digest.News, types.DigestEntry{Item: item, Analysis: analysis})
	}

	if a.cfg.Report.Enabled {
		if path, err := a.WriteDigestReport(digest); err != nil {
			logger.ErrorWithErr(ctx, "Failed to write digest report", err)
		} else {
			logger.Info(ctx, "Digest report written", "path", path)
		}
	}

	logger.Info(ctx, "Daily digest generated", "news", len(digest.News))
	return digest
}

// ForumHighlights scrapes the configured board and summarizes each post.
func (a *Assistant) ForumHighlights(ctx context.Context, count int) []types.PostHighlight {
	ctx, span := trace.StartSpan(ctx, "forum-highlights")
	defer span.End()

	if count <= 0 {
		count = a.cfg.Scraper.DefaultPosts
	}

	posts := a.scraper.ListPosts(ctx, "", count)
	highlights := make([]types.PostHighlight, 0, len(posts))
	for _, post := range posts {
		highlights = append(highlights, types.PostHighlight{
			Post:    post,
			Summary: a.SummarizePost(ctx, post.Content, 3),
		})
	}
	return highlights
}

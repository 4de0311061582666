package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"stock-assistant/internal/llm"
	"stock-assistant/internal/logger"
	"stock-assistant/internal/market"
	"stock-assistant/internal/news"
	"stock-assistant/internal/scraper"
	"stock-assistant/internal/store"
	"stock-assistant/internal/types"
)

// Assistant ties the scraper, market data, news feed and text generator
// together behind the operations the CLI exposes.
type Assistant struct {
	cfg     *store.Config
	gen     llm.Generator
	scraper *scraper.Scraper
	news    *news.Fetcher
	market  *market.Client

	dirOnce   sync.Once
	directory *market.Directory
}

// New creates an assistant. The listed-company directory is loaded
// lazily on first search.
func New(cfg *store.Config, gen llm.Generator) *Assistant {
	return &Assistant{
		cfg:     cfg,
		gen:     gen,
		scraper: scraper.New(cfg),
		news:    news.NewFetcher(cfg),
		market:  market.NewClient(cfg),
	}
}

// ExplainTerm asks the generator to explain a financial term for a
// novice and parses the reply by line prefix.
func (a *Assistant) ExplainTerm(ctx context.Context, term string) (types.TermExplanation, error) {
	prompt := fmt.Sprintf(`角色：你是一位精通金融的AI助理。
任務：請用繁體中文向一位金融新手解釋「%s」是什麼。
請盡量使用生活化的比喻，並說明其重要性。避免提供任何投資建議。

請嚴格按照以下格式輸出（不要添加任何其他內容）：
名詞解釋：[此處填寫名詞解釋]
重要性：[此處填寫重要性說明]
生活比喻：[此處填寫生活化比喻]`, term)

	reply, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Term explanation failed", err, "term", term)
		return types.TermExplanation{}, fmt.Errorf("explain term %q: %w", term, err)
	}

	result := types.TermExplanation{
		Term:       term,
		Definition: "N/A",
		Importance: "N/A",
		Analogy:    "N/A",
	}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "名詞解釋："):
			result.Definition = strings.TrimSpace(strings.TrimPrefix(line, "名詞解釋："))
		case strings.HasPrefix(line, "重要性："):
			result.Importance = strings.TrimSpace(strings.TrimPrefix(line, "重要性："))
		case strings.HasPrefix(line, "生活比喻："):
			result.Analogy = strings.TrimSpace(strings.TrimPrefix(line, "生活比喻："))
		}
	}
	return result, nil
}

// AnalyzeNews runs one headline and summary through the sentiment
// prompt and parses the reply by line prefix.
func (a *Assistant) AnalyzeNews(ctx context.Context, title, summary string) (types.NewsAnalysis, error) {
	prompt := fmt.Sprintf(`角色：你是一位資深財經記者，也是一位擅長向新手解釋股市的導師。
任務：請閱讀以下財經新聞標題與摘要，並完成下列任務：
1. 判斷此新聞對相關股票的潛在影響是偏「利多」、「利空」，還是「中性」。
2. 針對這則新聞，撰寫一段約50-100字的「新手看法解釋」，說明這則新聞為什麼被認為是利多/利空/中性，以及它通常可能對股價產生什麼樣的初步影響。請避免使用過於專業的術語，並強調這不是投資建議。

新聞標題：%s
新聞摘要：%s

請嚴格按照以下格式輸出（不要添加任何其他內容）：
情感判斷：[利多/利空/中性]
新手看法：[此處填寫新手看法解釋]`, title, summary)

	reply, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "News analysis failed", err, "title", title)
		return types.NewsAnalysis{}, fmt.Errorf("analyze news: %w", err)
	}

	result := types.NewsAnalysis{Sentiment: "N/A", Explanation: "N/A"}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "情感判斷："):
			result.Sentiment = strings.TrimSpace(strings.TrimPrefix(line, "情感判斷："))
		case strings.HasPrefix(line, "新手看法："):
			result.Explanation = strings.TrimSpace(strings.TrimPrefix(line, "新手看法："))
		}
	}
	return result, nil
}

// SummarizePost summarizes forum post content in sentences sentences.
// Generator failures degrade to a visible message; this never returns an
// error to the presentation layer.
func (a *Assistant) SummarizePost(ctx context.Context, content string, sentences int) string {
	if sentences <= 0 {
		sentences = 3
	}
	prompt := fmt.Sprintf(`角色：你是一位專業的內容編輯。
任務：請將以下提供的文本內容，用繁體中文摘要成 %d 句話的重點。

文本內容：
---
%s
---
摘要：`, sentences, content)

	reply, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Post summarization failed", err)
		return fmt.Sprintf("摘要生成失敗: %v", err)
	}
	return strings.TrimSpace(reply)
}

// SearchStocks matches listed companies by name or code. The directory
// is fetched once per assistant instance; a load failure degrades to no
// results.
func (a *Assistant) SearchStocks(ctx context.Context, query string) []market.Listing {
	a.dirOnce.Do(func() {
		d, err := market.LoadDirectory(ctx, a.cfg)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to load listed-company directory", err)
			return
		}
		a.directory = d
	})

	if a.directory == nil {
		return nil
	}
	return a.directory.Search(query)
}

// StockInfo returns the quote snapshot and recent history for a ticker.
func (a *Assistant) StockInfo(ctx context.Context, ticker string) (types.Quote, []types.Candle, error) {
	quote, err := a.market.Quote(ctx, ticker)
	if err != nil {
		return types.Quote{}, nil, fmt.Errorf("quote %s: %w", ticker, err)
	}

	history, err := a.market.History(ctx, ticker, "5d")
	if err != nil {
		// A quote without history is still renderable
		logger.Warn(ctx, "History fetch failed", "ticker", ticker, "error", err)
		history = nil
	}
	return quote, history, nil
}

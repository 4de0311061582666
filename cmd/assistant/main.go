package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stock-assistant/internal/assistant"
	"stock-assistant/internal/logger"
	"stock-assistant/internal/market"
	"stock-assistant/internal/trace"
	"stock-assistant/internal/types"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: assistant <command> [arguments]

Commands:
  term <word>        explain a financial term for a novice
  stock <query>      quote and recent history for a ticker or company name
  digest             daily market observation (index + analyzed news)
  posts [-n N]       latest forum posts with generated summaries
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = trace.Shutdown(shutdownCtx)
	}()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	a := assistant.New(cfg, initializeGenerator(ctx, cfg))

	switch os.Args[1] {
	case "term":
		if len(os.Args) < 3 {
			usage()
		}
		runTerm(ctx, a, os.Args[2])
	case "stock":
		if len(os.Args) < 3 {
			usage()
		}
		runStock(ctx, a, strings.Join(os.Args[2:], " "))
	case "digest":
		runDigest(ctx, a)
	case "posts":
		fs := flag.NewFlagSet("posts", flag.ExitOnError)
		n := fs.Int("n", 0, "number of posts to fetch")
		_ = fs.Parse(os.Args[2:])
		runPosts(ctx, a, *n)
	default:
		usage()
	}
}

func runTerm(ctx context.Context, a *assistant.Assistant, term string) {
	got, err := a.ExplainTerm(ctx, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "無法解釋「%s」: %v\n", term, err)
		os.Exit(1)
	}
	fmt.Printf("名詞解釋：%s\n重要性：%s\n生活比喻：%s\n", got.Definition, got.Importance, got.Analogy)
}

func runStock(ctx context.Context, a *assistant.Assistant, query string) {
	ticker := query
	// Company names go through the listed-company directory first.
	if !looksLikeSymbol(query) {
		matches := a.SearchStocks(ctx, query)
		switch len(matches) {
		case 0:
			fmt.Printf("找不到符合「%s」的上市公司。\n", query)
			return
		case 1:
			ticker = matches[0].Code
		default:
			fmt.Printf("找到 %d 筆符合的公司，請改用股票代號查詢：\n", len(matches))
			for _, m := range matches {
				fmt.Printf("  %s %s\n", m.Code, m.Name)
			}
			return
		}
	}

	quote, history, err := a.StockInfo(ctx, ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "無法取得 %s 的報價: %v\n", ticker, err)
		os.Exit(1)
	}
	printQuote(quote, history)
}

func printQuote(q types.Quote, history []types.Candle) {
	fmt.Printf("%s (%s)\n", q.Name, q.Symbol)
	fmt.Printf("現價: %.2f %s  漲跌: %+.2f (%+.2f%%)\n", q.Price, q.Currency, q.Change, q.ChangePercent)
	if len(history) == 0 {
		return
	}
	fmt.Println("近期走勢:")
	for _, c := range history {
		fmt.Printf("  %s  開 %.2f  高 %.2f  低 %.2f  收 %.2f\n",
			time.Unix(c.Ts, 0).Format("2006-01-02"), c.Open, c.High, c.Low, c.Close)
	}
}

func runDigest(ctx context.Context, a *assistant.Assistant) {
	digest := a.DailyDigest(ctx)

	fmt.Println("每日市場觀察")
	fmt.Println(digest.IndexSummary)
	fmt.Println()
	if len(digest.News) == 0 {
		fmt.Println("今日無足夠新聞可供分析。")
		return
	}
	for i, entry := range digest.News {
		fmt.Printf("%d. %s\n", i+1, entry.Item.Title)
		if entry.Item.Link != "" {
			fmt.Printf("   %s\n", entry.Item.Link)
		}
		fmt.Printf("   情感判斷: %s\n", entry.Analysis.Sentiment)
		fmt.Printf("   新手看法: %s\n\n", entry.Analysis.Explanation)
	}
}

func runPosts(ctx context.Context, a *assistant.Assistant, count int) {
	highlights := a.ForumHighlights(ctx, count)
	if len(highlights) == 0 {
		fmt.Println("目前無法取得討論區文章。")
		return
	}
	for i, h := range highlights {
		fmt.Printf("%d. %s\n", i+1, h.Post.Title)
		fmt.Printf("   作者: %s  日期: %s\n", h.Post.Author, h.Post.Date)
		fmt.Printf("   %s\n", h.Post.Link)
		fmt.Printf("   摘要: %s\n\n", h.Summary)
	}
	logger.Info(ctx, "Forum highlights rendered", "count", len(highlights))
}

// looksLikeSymbol reports whether the query can go straight to the quote
// API without a directory lookup.
func looksLikeSymbol(q string) bool {
	if strings.HasPrefix(q, "^") {
		return true
	}
	norm := market.NormalizeSymbol(q)
	return strings.HasSuffix(norm, ".TW") || strings.HasSuffix(norm, ".TWO")
}

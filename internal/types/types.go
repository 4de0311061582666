package types

// ForumPost is one scraped PTT post. Every field is populated before the
// post is handed to callers; Content falls back to a placeholder string
// when extraction fails.
type ForumPost struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

// NewsItem is a single entry from the market news feed.
type NewsItem struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// Candle is one daily OHLC bar from the quote API.
type Candle struct {
	Ts                     int64
	Open, High, Low, Close float64
	Vol                    float64
}

// Quote holds the snapshot fields the presentation layer renders.
type Quote struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Currency       string  `json:"currency"`
	Price          float64 `json:"price"`
	Change         float64 `json:"change"`
	ChangePercent  float64 `json:"change_percent"`
	MarketCap      float64 `json:"market_cap,omitempty"`
	ExchangeName   string  `json:"exchange_name,omitempty"`
	PreviousClose  float64 `json:"previous_close,omitempty"`
}

// TermExplanation is the line-prefix parsed reply for a financial term.
type TermExplanation struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Importance string `json:"importance"`
	Analogy    string `json:"analogy"`
}

// NewsAnalysis is the line-prefix parsed sentiment reply for one news item.
type NewsAnalysis struct {
	Sentiment   string `json:"sentiment"` // 利多 / 利空 / 中性
	Explanation string `json:"explanation"`
}

// DigestEntry pairs a news item with its analysis inside a daily digest.
type DigestEntry struct {
	Item     NewsItem     `json:"item"`
	Analysis NewsAnalysis `json:"analysis"`
}

// Digest is the daily market observation report.
type Digest struct {
	IndexSummary string        `json:"index_summary"`
	News         []DigestEntry `json:"news"`
	GeneratedAt  int64         `json:"generated_at"`
}

// PostHighlight is a forum post together with its generated summary.
type PostHighlight struct {
	Post    ForumPost `json:"post"`
	Summary string    `json:"summary"`
}

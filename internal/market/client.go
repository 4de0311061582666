package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stock-assistant/internal/store"
	"stock-assistant/internal/types"
)

// Client handles quote and history lookups against the Yahoo Finance
// chart API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
}

// NewClient creates a quote API client.
func NewClient(cfg *store.Config) *Client {
	return &Client{
		baseURL: cfg.Market.QuoteBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		headers: map[string]string{
			"User-Agent": cfg.Scraper.UserAgent,
			"Accept":     "application/json",
		},
	}
}

type chartMeta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
}

type chartQuote struct {
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote returns the latest snapshot for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	symbol = NormalizeSymbol(symbol)

	r, err := c.fetchChart(ctx, symbol, "5d")
	if err != nil {
		return types.Quote{}, err
	}

	meta := r.Meta
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	if name == "" {
		name = meta.Symbol
	}

	q := types.Quote{
		Symbol:        meta.Symbol,
		Name:          name,
		Currency:      meta.Currency,
		Price:         meta.RegularMarketPrice,
		ExchangeName:  meta.ExchangeName,
		PreviousClose: meta.ChartPreviousClose,
	}
	if meta.ChartPreviousClose != 0 {
		q.Change = meta.RegularMarketPrice - meta.ChartPreviousClose
		q.ChangePercent = q.Change / meta.ChartPreviousClose * 100
	}
	return q, nil
}

// History returns daily candles for the given range (e.g. "5d").
func (c *Client) History(ctx context.Context, symbol, rng string) ([]types.Candle, error) {
	symbol = NormalizeSymbol(symbol)

	r, err := c.fetchChart(ctx, symbol, rng)
	if err != nil {
		return nil, err
	}
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	quote := r.Indicators.Quote[0]
	candles := make([]types.Candle, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		candle := types.Candle{Ts: ts, Close: quote.Close[i]}
		if i < len(quote.Open) {
			candle.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			candle.High = quote.High[i]
		}
		if i < len(quote.Low) {
			candle.Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			candle.Vol = quote.Volume[i]
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// IndexSummary formats the latest session of an index as a one-line
// digest entry.
func (c *Client) IndexSummary(ctx context.Context, symbol string) (string, error) {
	candles, err := c.History(ctx, symbol, "1d")
	if err != nil {
		return "", err
	}
	if len(candles) == 0 {
		return "", errors.New("no index data available")
	}

	latest := candles[len(candles)-1]
	day := time.Unix(latest.Ts, 0).Format("2006-01-02")
	return fmt.Sprintf(
		"台灣加權指數 (%s): 收盤 %.2f, 漲跌 %.2f (開盤: %.2f, 最高: %.2f, 最低: %.2f)",
		day, latest.Close, latest.Close-latest.Open, latest.Open, latest.High, latest.Low,
	), nil
}

func (c *Client) fetchChart(ctx context.Context, symbol, rng string) (*chartResult, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", c.baseURL, symbol, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("chart API decode: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	return &parsed.Chart.Result[0], nil
}

// NormalizeSymbol converts bare Taiwan ticker numbers to Yahoo format.
func NormalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || strings.HasPrefix(symbol, "^") {
		return symbol
	}
	if strings.HasSuffix(symbol, ".TW") || strings.HasSuffix(symbol, ".TWO") {
		return symbol
	}
	if isDigits(symbol) {
		return symbol + ".TW"
	}
	return symbol
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

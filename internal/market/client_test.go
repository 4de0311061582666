package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-assistant/internal/store"
)

const chartFixture = `{
	"chart": {
		"result": [{
			"meta": {
				"currency": "TWD",
				"symbol": "2330.TW",
				"exchangeName": "TAI",
				"shortName": "台積電",
				"longName": "Taiwan Semiconductor Manufacturing Company Limited",
				"regularMarketPrice": 1050.0,
				"chartPreviousClose": 1000.0
			},
			"timestamp": [1755993600, 1756080000],
			"indicators": {
				"quote": [{
					"open": [1010.0, 1030.0],
					"high": [1040.0, 1060.0],
					"low": [1000.0, 1020.0],
					"close": [1030.0, 1050.0],
					"volume": [21000000, 25000000]
				}]
			}
		}],
		"error": null
	}
}`

func newChartServer(t *testing.T, wantPath string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantPath != "" && !strings.HasPrefix(r.URL.Path, wantPath) {
			t.Errorf("Unexpected request path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartFixture))
	}))
}

func newMarketClient(url string) *Client {
	cfg := store.DefaultConfig()
	cfg.Market.QuoteBaseURL = url
	return NewClient(cfg)
}

func TestQuoteParsesSnapshot(t *testing.T) {
	srv := newChartServer(t, "/v8/finance/chart/2330.TW")
	defer srv.Close()

	c := newMarketClient(srv.URL)
	q, err := c.Quote(context.Background(), "2330")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if q.Symbol != "2330.TW" {
		t.Errorf("Expected symbol 2330.TW, got %q", q.Symbol)
	}
	if q.Price != 1050.0 {
		t.Errorf("Expected price 1050, got %f", q.Price)
	}
	if q.Change != 50.0 {
		t.Errorf("Expected change 50, got %f", q.Change)
	}
	if q.ChangePercent != 5.0 {
		t.Errorf("Expected change percent 5, got %f", q.ChangePercent)
	}
	if q.Currency != "TWD" {
		t.Errorf("Expected TWD currency, got %q", q.Currency)
	}
}

func TestHistoryParsesCandles(t *testing.T) {
	srv := newChartServer(t, "")
	defer srv.Close()

	c := newMarketClient(srv.URL)
	candles, err := c.History(context.Background(), "2330.TW", "5d")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(candles) != 2 {
		t.Fatalf("Expected 2 candles, got %d", len(candles))
	}
	last := candles[1]
	if last.Open != 1030.0 || last.High != 1060.0 || last.Low != 1020.0 || last.Close != 1050.0 {
		t.Errorf("Unexpected last candle: %+v", last)
	}
}

func TestIndexSummaryFormatsLatestSession(t *testing.T) {
	srv := newChartServer(t, "")
	defer srv.Close()

	c := newMarketClient(srv.URL)
	summary, err := c.IndexSummary(context.Background(), "^TWII")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, want := range []string{"台灣加權指數", "收盤 1050.00", "漲跌 20.00", "開盤: 1030.00"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Expected summary to contain %q, got %q", want, summary)
		}
	}
}

func TestQuoteAPIErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	c := newMarketClient(srv.URL)
	if _, err := c.Quote(context.Background(), "0000"); err == nil {
		t.Fatal("Expected error for API error response")
	}
}

func TestQuoteHTTPErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newMarketClient(srv.URL)
	if _, err := c.Quote(context.Background(), "2330"); err == nil {
		t.Fatal("Expected error for HTTP 429")
	}
}

func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{
		"2330":     "2330.TW",
		"2330.TW":  "2330.TW",
		"6488.TWO": "6488.TWO",
		"^TWII":    "^TWII",
		" aapl ":   "AAPL",
		"":         "",
	}
	for in, want := range cases {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

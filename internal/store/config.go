package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scraper struct {
		BaseURL           string `yaml:"base_url"`
		BoardURL          string `yaml:"board_url"`
		MaxRetries        int    `yaml:"max_retries"`
		RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		UserAgent         string `yaml:"user_agent"`
		DefaultPosts      int    `yaml:"default_posts"`
	} `yaml:"scraper"`
	News struct {
		FeedURL string `yaml:"feed_url"`
		Items   int    `yaml:"items"`
	} `yaml:"news"`
	Market struct {
		QuoteBaseURL string `yaml:"quote_base_url"`
		IndexSymbol  string `yaml:"index_symbol"`
		DirectoryURL string `yaml:"directory_url"`
	} `yaml:"market"`
	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
	Report struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"report"`
}

func (c *Config) Validate() error {
	if c.Scraper.MaxRetries <= 0 {
		return fmt.Errorf("scraper.max_retries must be positive, got %d", c.Scraper.MaxRetries)
	}
	if c.Scraper.RetryDelaySeconds < 0 {
		return fmt.Errorf("scraper.retry_delay_seconds cannot be negative, got %d", c.Scraper.RetryDelaySeconds)
	}
	if c.Scraper.DefaultPosts < 0 {
		return fmt.Errorf("scraper.default_posts cannot be negative, got %d", c.Scraper.DefaultPosts)
	}
	switch c.LLM.Provider {
	case "", "OPENAI", "CLAUDE", "NOOP":
	default:
		return fmt.Errorf("llm.provider must be 'OPENAI', 'CLAUDE' or 'NOOP', got '%s'", c.LLM.Provider)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// DefaultConfig returns a config populated with defaults only, usable
// when no config.yaml is present.
func DefaultConfig() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

func applyDefaults(c *Config) {
	if c.Scraper.BaseURL == "" {
		c.Scraper.BaseURL = "https://www.ptt.cc"
	}
	if c.Scraper.BoardURL == "" {
		c.Scraper.BoardURL = "https://www.ptt.cc/bbs/Stock/index.html"
	}
	if c.Scraper.MaxRetries == 0 {
		c.Scraper.MaxRetries = 3
	}
	if c.Scraper.RetryDelaySeconds == 0 {
		c.Scraper.RetryDelaySeconds = 5
	}
	if c.Scraper.TimeoutSeconds == 0 {
		c.Scraper.TimeoutSeconds = 10
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	if c.Scraper.DefaultPosts == 0 {
		c.Scraper.DefaultPosts = 5
	}
	if c.News.FeedURL == "" {
		c.News.FeedURL = "https://tw.stock.yahoo.com/rss"
	}
	if c.News.Items == 0 {
		c.News.Items = 3
	}
	if c.Market.QuoteBaseURL == "" {
		c.Market.QuoteBaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Market.IndexSymbol == "" {
		c.Market.IndexSymbol = "^TWII"
	}
	if c.Market.DirectoryURL == "" {
		c.Market.DirectoryURL = "https://isin.twse.com.tw/isin/class_main.jsp?owncode=&stockname=&isincode=&market=1&issuetype=1&industry_code=&Page=1&chklike=Y"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 800
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "logs"
	}
}

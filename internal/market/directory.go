package market

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"stock-assistant/internal/logger"
	"stock-assistant/internal/store"
)

// Listing is one listed company from the TWSE ISIN directory.
type Listing struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Directory holds the listed-company table and supports name/code search.
type Directory struct {
	listings []Listing
}

// LoadDirectory scrapes the TWSE listed-company table. The page is
// served in the MS950 (Big5) codepage without a charset header, so the
// body is decoded explicitly before parsing.
func LoadDirectory(ctx context.Context, cfg *store.Config) (*Directory, error) {
	var (
		listings []Listing
		parseErr error
	)

	c := colly.NewCollector(
		colly.UserAgent(cfg.Scraper.UserAgent),
		colly.MaxDepth(1),
	)

	c.OnResponse(func(r *colly.Response) {
		decoded := transform.NewReader(bytes.NewReader(r.Body), traditionalchinese.Big5.NewDecoder())
		doc, err := goquery.NewDocumentFromReader(decoded)
		if err != nil {
			parseErr = fmt.Errorf("directory parse: %w", err)
			return
		}

		// First row is the table header
		doc.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			cols := row.Find("td")
			if cols.Length() < 4 {
				return
			}
			code := strings.TrimSpace(cols.Eq(2).Text())
			name := strings.TrimSpace(cols.Eq(3).Text())
			if code == "" || name == "" || !isDigits(code) {
				return
			}
			listings = append(listings, Listing{Code: code, Name: name})
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		parseErr = fmt.Errorf("directory fetch: %w", err)
	})

	if err := c.Visit(cfg.Market.DirectoryURL); err != nil {
		return nil, fmt.Errorf("directory visit: %w", err)
	}
	c.Wait()

	if parseErr != nil {
		return nil, parseErr
	}

	logger.Info(ctx, "Listed-company directory loaded", "companies", len(listings))
	return &Directory{listings: listings}, nil
}

// Search matches companies by name substring or code prefix/substring.
// An empty query returns no results.
func (d *Directory) Search(query string) []Listing {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	lowered := strings.ToLower(query)
	var results []Listing
	for _, l := range d.listings {
		if strings.Contains(strings.ToLower(l.Name), lowered) || strings.Contains(l.Code, query) {
			results = append(results, l)
		}
	}
	return results
}

// Len reports how many companies were loaded.
func (d *Directory) Len() int {
	return len(d.listings)
}

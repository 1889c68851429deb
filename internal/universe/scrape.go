package universe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Tonxzz/Main-Screener/pkg/httputil"
	"github.com/Tonxzz/Main-Screener/pkg/logger"
)

// Scraper refreshes index constituents from a published HTML table
type Scraper struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewScraper creates a new constituent scraper
func NewScraper(httpClient *httputil.Client, log *logger.Logger) *Scraper {
	return &Scraper{
		httpClient: httpClient,
		logger:     log.Module("universe"),
	}
}

// Scrape fetches url and returns the .JK symbols found in the first
// column of its tables
func (s *Scraper) Scrape(ctx context.Context, url string) ([]string, error) {
	body, err := s.httpClient.GetBody(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch constituents: %w", err)
	}

	tickers, err := parseConstituents(body)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"url":   url,
		"count": len(tickers),
	}).Info("Scraped constituents")
	return tickers, nil
}

// parseConstituents reads the first cell of every table row. Header rows
// and cells that are not four-letter codes are skipped.
func parseConstituents(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse constituents html: %w", err)
	}

	var codes []string
	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cell := row.Find("td").First()
		if cell.Length() == 0 {
			return
		}
		code := strings.ToUpper(strings.TrimSpace(cell.Text()))
		code = strings.TrimSuffix(code, Suffix)
		if !codePattern.MatchString(code) {
			return
		}
		codes = append(codes, code)
	})

	if len(codes) == 0 {
		return nil, fmt.Errorf("no constituent codes found")
	}
	return Dedupe(codes), nil
}

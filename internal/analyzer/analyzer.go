package analyzer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"pageQualityGO/internal/config"
	"pageQualityGO/internal/models"
)

// Analyzer fetches pages and extracts the signals the scorer works on
type Analyzer struct {
	client *http.Client
	config config.AnalyzerConfig
	logger *slog.Logger
}

// reserveFunc blocks until memory for a page of the given size is available.
// The returned func gives it back.
type reserveFunc func(ctx context.Context, contentLength int64) (func(), error)

// New creates a new Analyzer
func New(cfg config.AnalyzerConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		config: cfg,
		logger: logger,
	}
}

// ScrapePage fetches a page and returns its signal. An empty pageType is detected from
// the final URL and the structured data found on the page.
func (a *Analyzer) ScrapePage(ctx context.Context, rawURL string, pageType models.PageType) (*models.ScrapedPageSignal, error) {
	return a.scrape(ctx, rawURL, pageType, nil)
}

func (a *Analyzer) scrape(ctx context.Context, rawURL string, pageType models.PageType, reserve reserveFunc) (*models.ScrapedPageSignal, error) {
	// Parse URL
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// Ensure scheme is set
	if parsedURL.Scheme == "" {
		parsedURL, err = url.Parse("https://" + rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", parsedURL.Scheme)
	}
	urlStr := parsedURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	a.logger.Info("Sending request", "url", urlStr)
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if reserve != nil {
		release, err := reserve(ctx, resp.ContentLength)
		if err != nil {
			return nil, fmt.Errorf("resource acquisition failed: %w", err)
		}
		defer release()
	}

	var reader io.Reader = resp.Body
	if a.config.MaxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, a.config.MaxBodyBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Redirects decide which host counts as internal
	finalURL := parsedURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	signal, err := ExtractSignal(body, finalURL, pageType)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Page scraped",
		"url", signal.URL,
		"page_type", signal.PageType,
		"word_count", signal.WordCount,
		"schema_types", len(signal.SchemaOrgTypes),
	)
	return signal, nil
}

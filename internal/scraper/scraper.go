package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	BaseURL   = "https://tickets.fringetheatre.ca"
	UserAgent = "fringe-scraper/1.0 (github.com/pfrederiksen/fringe-events)"
	Timeout   = 30 * time.Second

	// EventPrefix is the fixed organisation prefix in every upstream event ID ("601:1234").
	EventPrefix = "601"

	DefaultConcurrency = 25
	DefaultDelayMin    = 50 * time.Millisecond
	DefaultDelayMax    = 200 * time.Millisecond

	// Schedule window sent with every showtime request.
	DefaultWindowStart = "2025-08-11T00:00:00"
	DefaultWindowEnd   = "2025-08-24T23:59:59"
)

var (
	// ErrNoCards means the listing page carried no show cards at all.
	ErrNoCards = errors.New("no show cards found on listing page")
	// ErrNoShowIDs means cards were found but none yielded a show ID.
	ErrNoShowIDs = errors.New("no show IDs found on listing page")
)

// Options tunes a Scraper. Zero values fall back to the defaults above.
type Options struct {
	BaseURL     string
	Concurrency int
	DelayMin    time.Duration
	DelayMax    time.Duration
	WindowStart string
	WindowEnd   string
}

// Scraper handles fetching and parsing Fringe ticketing pages
type Scraper struct {
	client      *http.Client
	baseURL     string
	concurrency int
	delayMin    time.Duration
	delayMax    time.Duration
	windowStart string
	windowEnd   string
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:     BaseURL,
		concurrency: DefaultConcurrency,
		delayMin:    DefaultDelayMin,
		delayMax:    DefaultDelayMax,
		windowStart: DefaultWindowStart,
		windowEnd:   DefaultWindowEnd,
	}
	if opts.BaseURL != "" {
		s.baseURL = opts.BaseURL
	}
	if opts.Concurrency > 0 {
		s.concurrency = opts.Concurrency
	}
	if opts.DelayMin > 0 || opts.DelayMax > 0 {
		s.delayMin, s.delayMax = opts.DelayMin, opts.DelayMax
	}
	if opts.WindowStart != "" {
		s.windowStart = opts.WindowStart
	}
	if opts.WindowEnd != "" {
		s.windowEnd = opts.WindowEnd
	}
	return s
}

// IndexURL is the listing page holding every show card.
func (s *Scraper) IndexURL() string {
	return s.baseURL + "/events/"
}

// DetailURL is the detail page of one show.
func (s *Scraper) DetailURL(showID int) string {
	return fmt.Sprintf("%s/event/%s:%d", s.baseURL, EventPrefix, showID)
}

// AjaxURL is the endpoint serving showtime JSON.
func (s *Scraper) AjaxURL() string {
	return s.baseURL + "/wp-admin/admin-ajax.php"
}

// Concurrency returns the worker pool width.
func (s *Scraper) Concurrency() int {
	return s.concurrency
}

// getDocument fetches url and parses the body as HTML
func (s *Scraper) getDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

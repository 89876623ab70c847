package scraper

import (
	"context"
	"time"

	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

const (
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"
	Referer   = "https://fbref.com/"
	Timeout   = 10 * time.Second
)

// DefaultHeaders is the browser-like header set sent by both strategies
var DefaultHeaders = map[string]string{
	"User-Agent":      UserAgent,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         Referer,
}

// Strategy selects how a page is retrieved
type Strategy int

const (
	// StrategyPrimary is a standard GET with browser headers
	StrategyPrimary Strategy = iota
	// StrategyFallback emulates a full browser TLS fingerprint
	StrategyFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyPrimary:
		return "primary"
	case StrategyFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// nextStrategy decides whether a failed attempt gets another try.
// Only an access denial on the primary strategy moves to the fallback.
func nextStrategy(current Strategy, statusCode int) (Strategy, bool) {
	if current == StrategyPrimary && statusCode == 403 {
		return StrategyFallback, true
	}
	return current, false
}

// Result is a successfully fetched page
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
	Strategy   Strategy
}

// Scraper fetches statistics pages
type Scraper struct {
	transports map[Strategy]Transport
	timeout    time.Duration
	log        *logger.Logger
	metrics    *logger.Metrics
}

// Option configures a Scraper
type Option func(*Scraper)

// WithTimeout bounds each request
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger handle
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) {
		s.log = l
	}
}

// WithMetrics sets the metrics registry
func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) {
		s.metrics = m
	}
}

// WithTransport replaces the transport used for a strategy
func WithTransport(strategy Strategy, t Transport) Option {
	return func(s *Scraper) {
		s.transports[strategy] = t
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		transports: make(map[Strategy]Transport),
		timeout:    Timeout,
		log:        logger.Default(),
		metrics:    logger.NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, ok := s.transports[StrategyPrimary]; !ok {
		s.transports[StrategyPrimary] = NewPrimaryTransport(s.timeout)
	}
	if _, ok := s.transports[StrategyFallback]; !ok {
		s.transports[StrategyFallback] = NewFallbackTransport(s.timeout)
	}

	return s
}

// Fetch retrieves the raw markup at url
func (s *Scraper) Fetch(ctx context.Context, url string) (*Result, error) {
	strategy := StrategyPrimary

	for {
		start := time.Now()
		resp, err := s.transports[strategy].Get(ctx, url)
		s.metrics.RecordTiming("fetch."+strategy.String(), time.Since(start))
		if err != nil {
			return nil, &stats.NetworkError{URL: url, Strategy: strategy.String(), Err: err}
		}

		s.log.Debug("HTTP response", logger.Fields{
			"url":      url,
			"status":   resp.StatusCode,
			"strategy": strategy.String(),
			"bytes":    len(resp.Body),
		})

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return &Result{
				URL:        url,
				StatusCode: resp.StatusCode,
				Body:       resp.Body,
				Strategy:   strategy,
			}, nil
		}

		next, ok := nextStrategy(strategy, resp.StatusCode)
		if !ok {
			return nil, &stats.NetworkError{URL: url, StatusCode: resp.StatusCode, Strategy: strategy.String()}
		}

		s.log.Warn("Access denied, retrying with browser emulation", logger.Fields{
			"url":    url,
			"status": resp.StatusCode,
		})
		s.metrics.IncrCounter("fetch.fallback")
		strategy = next
	}
}

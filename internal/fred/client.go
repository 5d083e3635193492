// Package fred retrieves economic data from the FRED API
// (Federal Reserve Economic Data, api.stlouisfed.org).
package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.stlouisfed.org/fred"

// Well-known FRED source IDs.
const (
	SourceFed      = 1  // Board of Governors of the Federal Reserve System
	SourceBEA      = 18 // Bureau of Economic Analysis
	SourceCensus   = 19 // Census Bureau
	SourceBLS      = 22 // Bureau of Labor Statistics
	SourceEIA      = 53 // Energy Information Administration
	SourceNBER     = 55 // National Bureau of Economic Research
	SourceIMF      = 60 // International Monetary Fund
	SourceEurostat = 61 // Eurostat
)

// SourceID resolves a short source name to its FRED ID.
func SourceID(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "fed":
		return SourceFed, true
	case "bea":
		return SourceBEA, true
	case "census":
		return SourceCensus, true
	case "bls":
		return SourceBLS, true
	case "eia":
		return SourceEIA, true
	case "nber":
		return SourceNBER, true
	case "imf":
		return SourceIMF, true
	case "eurostat":
		return SourceEurostat, true
	}
	return 0, false
}

// Observation is a single dated value in a series. FRED reports missing
// values as "."; those are skipped during decoding.
type Observation struct {
	Date  time.Time
	Value float64
}

type Source struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

type Release struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Link         string `json:"link,omitempty"`
	PressRelease bool   `json:"press_release"`
	Source       string `json:"-"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("fred %s: status %d: %s", path, res.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

type rawObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// SeriesObservations fetches observations for a series between start and
// end. A zero start defaults to one year before end, a zero end to now.
func (c *Client) SeriesObservations(ctx context.Context, seriesID string, start, end time.Time) ([]Observation, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(-1, 0, 0)
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("observation_start", start.Format("2006-01-02"))
	params.Set("observation_end", end.Format("2006-01-02"))

	var body struct {
		Observations []rawObservation `json:"observations"`
	}
	if err := c.get(ctx, "/series/observations", params, &body); err != nil {
		return nil, fmt.Errorf("series %s: %w", seriesID, err)
	}

	obs := make([]Observation, 0, len(body.Observations))
	for _, raw := range body.Observations {
		if raw.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(raw.Value, 64)
		if err != nil {
			c.logger.Warn("skipping unparseable observation",
				zap.String("series_id", seriesID),
				zap.String("date", raw.Date),
				zap.String("value", raw.Value))
			continue
		}
		date, err := time.Parse("2006-01-02", raw.Date)
		if err != nil {
			continue
		}
		obs = append(obs, Observation{Date: date, Value: v})
	}

	c.logger.Debug("retrieved series",
		zap.String("series_id", seriesID),
		zap.Int("observations", len(obs)))
	return obs, nil
}

// Sources lists all data sources FRED knows about.
func (c *Client) Sources(ctx context.Context) ([]Source, error) {
	var body struct {
		Sources []Source `json:"sources"`
	}
	if err := c.get(ctx, "/sources", url.Values{}, &body); err != nil {
		return nil, err
	}
	return body.Sources, nil
}

// SourceReleases lists the most recent releases published by a source,
// newest release ID first.
func (c *Client) SourceReleases(ctx context.Context, sourceID, limit int) ([]Release, error) {
	params := url.Values{}
	params.Set("source_id", strconv.Itoa(sourceID))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("order_by", "release_id")
	params.Set("sort_order", "desc")

	var body struct {
		Releases []Release `json:"releases"`
	}
	if err := c.get(ctx, "/source/releases", params, &body); err != nil {
		return nil, fmt.Errorf("source %d releases: %w", sourceID, err)
	}
	return body.Releases, nil
}

// ReleaseDates lists publication dates for a release, newest first.
func (c *Client) ReleaseDates(ctx context.Context, releaseID, limit int) ([]time.Time, error) {
	params := url.Values{}
	params.Set("release_id", strconv.Itoa(releaseID))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort_order", "desc")

	var body struct {
		ReleaseDates []struct {
			Date string `json:"date"`
		} `json:"release_dates"`
	}
	if err := c.get(ctx, "/release/dates", params, &body); err != nil {
		return nil, fmt.Errorf("release %d dates: %w", releaseID, err)
	}

	dates := make([]time.Time, 0, len(body.ReleaseDates))
	for _, rd := range body.ReleaseDates {
		d, err := time.Parse("2006-01-02", rd.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// RecentReleases collects releases across several sources. Unknown source
// names are skipped. Source fetch errors skip that source rather than
// failing the whole call; the first error is returned alongside whatever
// was collected.
func (c *Client) RecentReleases(ctx context.Context, sources []string, limitPerSource int) ([]Release, error) {
	if len(sources) == 0 {
		sources = []string{"fed", "bea", "bls"}
	}

	var all []Release
	var firstErr error
	for _, name := range sources {
		id, ok := SourceID(name)
		if !ok {
			c.logger.Warn("unknown source", zap.String("source", name))
			continue
		}
		releases, err := c.SourceReleases(ctx, id, limitPerSource)
		if err != nil {
			c.logger.Warn("source releases failed", zap.String("source", name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for i := range releases {
			releases[i].Source = name
		}
		all = append(all, releases...)
	}
	return all, firstErr
}

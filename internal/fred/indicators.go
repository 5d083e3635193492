package fred

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Indicators maps short indicator names to FRED series IDs.
var Indicators = map[string]string{
	"GDP":        "GDP",        // Gross Domestic Product
	"GDPC1":      "GDPC1",      // Real GDP
	"UNRATE":     "UNRATE",     // Unemployment Rate
	"CPIAUCSL":   "CPIAUCSL",   // Consumer Price Index
	"FEDFUNDS":   "FEDFUNDS",   // Federal Funds Rate
	"T10Y2Y":     "T10Y2Y",     // 10-Year minus 2-Year Treasury spread
	"PAYEMS":     "PAYEMS",     // Total Nonfarm Payrolls
	"INDPRO":     "INDPRO",     // Industrial Production Index
	"HOUST":      "HOUST",      // Housing Starts
	"RSAFS":      "RSAFS",      // Retail Sales
	"PCE":        "PCE",        // Personal Consumption Expenditures
	"DCOILWTICO": "DCOILWTICO", // WTI Crude Oil
	"USREC":      "USREC",      // US Recession Indicator
	"UMCSENT":    "UMCSENT",    // Consumer Sentiment
	"BUSINV":     "BUSINV",     // Business Inventories
}

// KeyIndicators is the default set analyzed for a macro overview.
var KeyIndicators = []string{
	"GDP", "GDPC1", "UNRATE", "CPIAUCSL", "FEDFUNDS",
	"T10Y2Y", "PAYEMS", "INDPRO", "HOUST", "UMCSENT",
}

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendUnknown Trend = "unknown"
)

// IndicatorSummary describes the latest state of one indicator.
type IndicatorSummary struct {
	Name        string
	Current     float64
	Previous    float64
	ChangePct   float64
	Trend       Trend
	DataPoints  int
	LastUpdated time.Time
}

// trendOf classifies the direction of the last three observations.
func trendOf(obs []Observation) Trend {
	if len(obs) < 3 {
		return TrendUnknown
	}
	recent := obs[len(obs)-3:]

	ups, downs := 0, 0
	for i := 1; i < len(recent); i++ {
		switch {
		case recent[i].Value > recent[i-1].Value:
			ups++
		case recent[i].Value < recent[i-1].Value:
			downs++
		}
	}
	switch {
	case ups > downs:
		return TrendUp
	case downs > ups:
		return TrendDown
	}
	return TrendUnknown
}

// AnalyzeIndicators fetches and summarizes the named indicators over the
// past year. Indicators with insufficient data are skipped.
func (c *Client) AnalyzeIndicators(ctx context.Context, names []string) ([]IndicatorSummary, error) {
	if len(names) == 0 {
		names = make([]string, 0, len(Indicators))
		for name := range Indicators {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	var summaries []IndicatorSummary
	for _, name := range names {
		seriesID, ok := Indicators[name]
		if !ok {
			return nil, fmt.Errorf("unknown indicator %q", name)
		}

		obs, err := c.SeriesObservations(ctx, seriesID, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		if len(obs) < 2 {
			continue
		}

		current := obs[len(obs)-1]
		previous := obs[len(obs)-2]

		var changePct float64
		if previous.Value != 0 {
			changePct = (current.Value - previous.Value) / previous.Value * 100
		}

		summaries = append(summaries, IndicatorSummary{
			Name:        name,
			Current:     current.Value,
			Previous:    previous.Value,
			ChangePct:   changePct,
			Trend:       trendOf(obs),
			DataPoints:  len(obs),
			LastUpdated: current.Date,
		})
	}
	return summaries, nil
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskElevated RiskLevel = "Elevated"
	RiskHigh     RiskLevel = "High"
)

// RecessionRisk is a small rule-based assessment over three signals:
// yield curve inversion, a rising unemployment trend, and declining
// industrial production.
type RecessionRisk struct {
	Level   RiskLevel
	Factors int
	Details []string
}

// AssessRecessionRisk scores the three recession signals from current
// FRED data. Series that cannot be fetched simply contribute no factor.
func (c *Client) AssessRecessionRisk(ctx context.Context) (RecessionRisk, error) {
	risk := RecessionRisk{Level: RiskLow}

	yieldCurve, err := c.SeriesObservations(ctx, "T10Y2Y", time.Time{}, time.Time{})
	if err != nil {
		return risk, err
	}
	if len(yieldCurve) > 0 {
		latest := yieldCurve[len(yieldCurve)-1].Value
		if latest < 0 {
			risk.Factors++
			risk.Details = append(risk.Details, fmt.Sprintf("Yield curve is inverted: %.2f%%", latest))
		}
	}

	unemployment, err := c.SeriesObservations(ctx, "UNRATE", time.Time{}, time.Time{})
	if err != nil {
		return risk, err
	}
	if len(unemployment) > 6 {
		recent := unemployment[len(unemployment)-6:]
		first, last := recent[0].Value, recent[len(recent)-1].Value
		if last > first {
			risk.Factors++
			risk.Details = append(risk.Details,
				fmt.Sprintf("Unemployment rate is rising: %.1f%% to %.1f%%", first, last))
		}
	}

	production, err := c.SeriesObservations(ctx, "INDPRO", time.Time{}, time.Time{})
	if err != nil {
		return risk, err
	}
	if len(production) > 3 {
		recent := production[len(production)-3:]
		var diffSum float64
		for i := 1; i < len(recent); i++ {
			diffSum += recent[i].Value - recent[i-1].Value
		}
		if diffSum/float64(len(recent)-1) < 0 {
			risk.Factors++
			risk.Details = append(risk.Details, "Industrial production is declining")
		}
	}

	switch risk.Factors {
	case 0:
		risk.Level = RiskLow
	case 1:
		risk.Level = RiskModerate
	case 2:
		risk.Level = RiskElevated
	default:
		risk.Level = RiskHigh
	}
	return risk, nil
}

// DefaultReportKeywords prioritize the releases that move markets.
var DefaultReportKeywords = []string{
	"inflation", "gdp", "unemployment", "interest rate", "federal reserve",
	"monetary policy", "recession", "economic outlook", "fomc", "cpi",
}

// RankReleases orders releases by importance: 5 points per keyword found
// in the release name, plus 3 for press releases. The sort is stable so
// ties keep their incoming order.
func RankReleases(releases []Release, keywords []string) []Release {
	if len(keywords) == 0 {
		keywords = DefaultReportKeywords
	}

	score := func(r Release) int {
		s := 0
		name := strings.ToLower(r.Name)
		for _, kw := range keywords {
			if strings.Contains(name, strings.ToLower(kw)) {
				s += 5
			}
		}
		if r.PressRelease {
			s += 3
		}
		return s
	}

	ranked := make([]Release, len(releases))
	copy(ranked, releases)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})
	return ranked
}

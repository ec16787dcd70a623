package models

import "time"

// Rating labels produced by the summary engine, ordered worst to best.
const (
	RatingStrongSell = "Strong Sell"
	RatingSell       = "Sell"
	RatingHold       = "Hold"
	RatingBuy        = "Buy"
	RatingStrongBuy  = "Strong Buy"
	RatingNA         = "N/A"
)

// DomainScores holds the 0-10 score per analysis domain.
type DomainScores struct {
	Technical   float64 `json:"technical"`
	Fundamental float64 `json:"fundamental"`
	Risk        float64 `json:"risk"`
	Sentiment   float64 `json:"sentiment"`
}

// Mean returns the average of the four domain scores.
func (d DomainScores) Mean() float64 {
	return (d.Technical + d.Fundamental + d.Risk + d.Sentiment) / 4
}

// Recommendations groups recommendation strings by category.
type Recommendations struct {
	Action         []string `json:"action"`
	WatchPoints    []string `json:"watch_points"`
	RiskManagement []string `json:"risk_management"`
}

// Summary is the blended assessment across all four domains.
type Summary struct {
	Rating          string          `json:"rating"`
	Scores          DomainScores    `json:"scores"`
	KeyFindings     []string        `json:"key_findings"`
	Recommendations Recommendations `json:"recommendations"`
}

// ResearchReport is the complete research output for one ticker.
type ResearchReport struct {
	Ticker      string               `json:"ticker"`
	Name        string               `json:"name,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
	Technical   *TechnicalAnalysis   `json:"technical,omitempty"`
	Fundamental *FundamentalAnalysis `json:"fundamental,omitempty"`
	Risk        *RiskAnalysis        `json:"risk,omitempty"`
	Sentiment   *SentimentAnalysis   `json:"sentiment,omitempty"`
	Summary     *Summary             `json:"summary"`
}

// Package summary blends the four analysis domains into a single rating,
// key findings, and categorized recommendations.
package summary

import (
	"fmt"
	"math"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/models"
)

// neutralScore is the starting point for every domain score.
const neutralScore = 5.0

// Engine scores each analysis domain on a 0-10 scale and derives the
// blended assessment. It is a pure function of its inputs: no I/O, no
// shared state, safe for concurrent use.
type Engine struct {
	thresholds common.ScoringConfig
}

// NewEngine creates a summary engine with the given scoring thresholds.
func NewEngine(thresholds common.ScoringConfig) *Engine {
	return &Engine{thresholds: thresholds}
}

// NewDefaultEngine creates a summary engine with the stock thresholds.
func NewDefaultEngine() *Engine {
	return NewEngine(common.DefaultScoringConfig())
}

// Aggregate blends the four domain analyses. Nil inputs are valid and score
// neutral; a metric that was never computed never triggers a rule, so
// "neutral because unknown" is explicit rather than a swallowed failure.
func (e *Engine) Aggregate(technical *models.TechnicalAnalysis, fundamental *models.FundamentalAnalysis,
	risk *models.RiskAnalysis, sentiment *models.SentimentAnalysis) *models.Summary {

	scores := models.DomainScores{
		Technical:   e.ScoreTechnical(technical),
		Fundamental: e.ScoreFundamental(fundamental),
		Risk:        e.ScoreRisk(risk),
		Sentiment:   e.ScoreSentiment(sentiment),
	}

	return &models.Summary{
		Rating:          e.rating(scores),
		Scores:          scores,
		KeyFindings:     e.extractFindings(technical, fundamental, risk, sentiment),
		Recommendations: e.recommend(technical, fundamental, risk, sentiment),
	}
}

// clamp bounds a score to [0, 10].
func clamp(score float64) float64 {
	return math.Min(math.Max(score, 0), 10)
}

// ScoreTechnical scores trend and momentum direction.
func (e *Engine) ScoreTechnical(analysis *models.TechnicalAnalysis) float64 {
	score := neutralScore
	if analysis == nil {
		return score
	}

	if analysis.Trends != nil && analysis.Trends.Overall != nil {
		switch analysis.Trends.Overall.Direction {
		case models.TrendBullish:
			score++
		case models.TrendBearish:
			score--
		}
	}

	if analysis.Momentum != nil && analysis.Momentum.MACD != nil {
		switch analysis.Momentum.MACD.Trend {
		case models.TrendBullish:
			score++
		case models.TrendBearish:
			score--
		}
	}

	return clamp(score)
}

// ScoreFundamental scores margins and revenue growth.
func (e *Engine) ScoreFundamental(analysis *models.FundamentalAnalysis) float64 {
	score := neutralScore
	if analysis == nil {
		return score
	}

	if analysis.Profitability != nil && analysis.Profitability.NetMargin != nil {
		margin := *analysis.Profitability.NetMargin
		if margin > e.thresholds.NetMarginStrong {
			score++
		} else if margin < 0 {
			score--
		}
	}

	if analysis.Growth != nil && analysis.Growth.RevenueGrowth != nil {
		growth := *analysis.Growth.RevenueGrowth
		switch {
		case growth > e.thresholds.RevenueGrowthStrong:
			score += 2
		case growth > e.thresholds.RevenueGrowthGood:
			score++
		case growth < 0:
			score--
		}
	}

	return clamp(score)
}

// ScoreRisk penalizes volatility, deep VaR, and high beta; rewards low beta.
func (e *Engine) ScoreRisk(analysis *models.RiskAnalysis) float64 {
	score := neutralScore
	if analysis == nil {
		return score
	}

	if analysis.Volatility != nil {
		vol := analysis.Volatility.AnnualVolatility
		if vol > e.thresholds.VolatilityHigh {
			score -= 2
		} else if vol > e.thresholds.VolatilityElevated {
			score--
		}
	}

	if analysis.ValueAtRisk != nil && analysis.ValueAtRisk.HistoricalVaR < e.thresholds.VaRDeep {
		score--
	}

	if analysis.Beta != nil {
		if analysis.Beta.Beta > e.thresholds.BetaHigh {
			score--
		} else if analysis.Beta.Beta < e.thresholds.BetaLow {
			score++
		}
	}

	return clamp(score)
}

// ScoreSentiment scores the combined sentiment level and its trend.
func (e *Engine) ScoreSentiment(analysis *models.SentimentAnalysis) float64 {
	score := neutralScore
	if analysis == nil {
		return score
	}

	if analysis.OverallSentiment != nil {
		overall := *analysis.OverallSentiment
		switch {
		case overall > e.thresholds.SentimentVeryHigh:
			score += 2
		case overall > e.thresholds.SentimentHigh:
			score++
		case overall < e.thresholds.SentimentLow:
			score--
		case overall < e.thresholds.SentimentVeryLow:
			score -= 2
		}
	}

	if analysis.Trends != nil {
		switch analysis.Trends.Trend {
		case models.SentimentImproving:
			score++
		case models.SentimentDeteriorating:
			score--
		}
	}

	return clamp(score)
}

// rating maps the mean domain score to a discrete label. Breakpoints are
// inclusive at the lower bound.
func (e *Engine) rating(scores models.DomainScores) string {
	total := scores.Mean()
	if math.IsNaN(total) {
		return models.RatingNA
	}

	switch {
	case total >= 8:
		return models.RatingStrongBuy
	case total >= 6:
		return models.RatingBuy
	case total >= 4:
		return models.RatingHold
	case total >= 2:
		return models.RatingSell
	default:
		return models.RatingStrongSell
	}
}

// extractFindings collects one headline fact per domain where the underlying
// metric is present. Each domain is independent: an absent metric omits its
// finding without affecting the others.
func (e *Engine) extractFindings(technical *models.TechnicalAnalysis, fundamental *models.FundamentalAnalysis,
	risk *models.RiskAnalysis, sentiment *models.SentimentAnalysis) []string {

	findings := []string{}

	if technical != nil && technical.Trends != nil && technical.Trends.Overall != nil {
		findings = append(findings, fmt.Sprintf("Technical Trend: %s", technical.Trends.Overall.Direction))
	}

	if fundamental != nil && fundamental.Growth != nil && fundamental.Growth.RevenueGrowth != nil {
		findings = append(findings, fmt.Sprintf("Revenue Growth: %.1f%%", *fundamental.Growth.RevenueGrowth))
	}

	if risk != nil && risk.Volatility != nil {
		findings = append(findings, fmt.Sprintf("Annual Volatility: %.1f%%", risk.Volatility.AnnualVolatility*100))
	}

	if sentiment != nil && sentiment.OverallSentiment != nil {
		findings = append(findings, fmt.Sprintf("Market Sentiment: %s", e.ClassifySentiment(*sentiment.OverallSentiment)))
	}

	return findings
}

// ClassifySentiment buckets a sentiment score into a label using the same
// breakpoints the sentiment score rule uses.
func (e *Engine) ClassifySentiment(score float64) string {
	switch {
	case score > e.thresholds.SentimentVeryHigh:
		return "Very Positive"
	case score > e.thresholds.SentimentHigh:
		return "Positive"
	case score > e.thresholds.SentimentLow:
		return "Neutral"
	case score > e.thresholds.SentimentVeryLow:
		return "Negative"
	default:
		return "Very Negative"
	}
}

// recommend emits free-text guidance into the three recommendation lists.
func (e *Engine) recommend(technical *models.TechnicalAnalysis, fundamental *models.FundamentalAnalysis,
	risk *models.RiskAnalysis, sentiment *models.SentimentAnalysis) models.Recommendations {

	recs := models.Recommendations{
		Action:         []string{},
		WatchPoints:    []string{},
		RiskManagement: []string{},
	}

	if technical != nil && technical.Trends != nil && technical.Trends.Overall != nil {
		switch technical.Trends.Overall.Direction {
		case models.TrendBullish:
			recs.Action = append(recs.Action, "Consider entry points on pullbacks")
		case models.TrendBearish:
			recs.Action = append(recs.Action, "Consider reducing position size")
		}
	}

	if fundamental != nil {
		var growth, margin *float64
		if fundamental.Growth != nil {
			growth = fundamental.Growth.RevenueGrowth
		}
		if fundamental.Profitability != nil {
			margin = fundamental.Profitability.NetMargin
		}

		if growth != nil && margin != nil &&
			*growth > e.thresholds.RevenueGrowthStrong && *margin > e.thresholds.NetMarginStrong {
			recs.Action = append(recs.Action, "Consider long-term position building")
		} else if (growth != nil && *growth < 0) || (margin != nil && *margin < 0) {
			recs.Action = append(recs.Action, "Review fundamental factors before adding")
		}
	}

	if risk != nil {
		if risk.Volatility != nil && risk.Volatility.AnnualVolatility > e.thresholds.VolatilityWarn {
			recs.RiskManagement = append(recs.RiskManagement,
				fmt.Sprintf("Consider position sizing due to high volatility (%.1f%%)",
					risk.Volatility.AnnualVolatility*100))
		}
		if risk.ValueAtRisk != nil {
			recs.RiskManagement = append(recs.RiskManagement,
				fmt.Sprintf("Set stop loss considering VaR: %.1f%%", risk.ValueAtRisk.HistoricalVaR*100))
		}
	}

	if sentiment != nil && sentiment.OverallSentiment != nil {
		overall := *sentiment.OverallSentiment
		if overall > e.thresholds.SentimentVeryHigh {
			recs.WatchPoints = append(recs.WatchPoints, "Monitor for potential profit taking")
		} else if overall < e.thresholds.SentimentVeryLow {
			recs.WatchPoints = append(recs.WatchPoints, "Watch for sentiment reversal")
		}
	}

	return recs
}

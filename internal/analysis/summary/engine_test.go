package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/prism/internal/common"
	"github.com/bobmcallan/prism/internal/models"
)

func bullishTechnical() *models.TechnicalAnalysis {
	return &models.TechnicalAnalysis{
		Trends: &models.TrendMetrics{
			Overall: &models.OverallTrend{Direction: models.TrendBullish},
		},
		Momentum: &models.MomentumMetrics{
			MACD: &models.MACDMetrics{Trend: models.TrendBullish},
		},
	}
}

func bearishTechnical() *models.TechnicalAnalysis {
	return &models.TechnicalAnalysis{
		Trends: &models.TrendMetrics{
			Overall: &models.OverallTrend{Direction: models.TrendBearish},
		},
		Momentum: &models.MomentumMetrics{
			MACD: &models.MACDMetrics{Trend: models.TrendBearish},
		},
	}
}

func fundamentalWith(margin, growth float64) *models.FundamentalAnalysis {
	return &models.FundamentalAnalysis{
		Profitability: &models.ProfitabilityMetrics{NetMargin: models.Float(margin)},
		Growth:        &models.GrowthMetrics{RevenueGrowth: models.Float(growth)},
	}
}

func riskWith(vol, hVaR, beta float64) *models.RiskAnalysis {
	return &models.RiskAnalysis{
		Volatility:  &models.VolatilityMetrics{AnnualVolatility: vol},
		ValueAtRisk: &models.VaRMetrics{HistoricalVaR: hVaR},
		Beta:        &models.BetaMetrics{Beta: beta},
	}
}

func sentimentWith(overall float64, trend string) *models.SentimentAnalysis {
	return &models.SentimentAnalysis{
		OverallSentiment: models.Float(overall),
		Trends:           &models.SentimentTrendStats{Trend: trend},
	}
}

func TestScoreTechnical(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name     string
		analysis *models.TechnicalAnalysis
		expected float64
	}{
		{"nil analysis is neutral", nil, 5.0},
		{"empty analysis is neutral", &models.TechnicalAnalysis{}, 5.0},
		{"bullish trend and MACD", bullishTechnical(), 7.0},
		{"bearish trend and MACD", bearishTechnical(), 3.0},
		{
			"bullish trend only",
			&models.TechnicalAnalysis{
				Trends: &models.TrendMetrics{Overall: &models.OverallTrend{Direction: models.TrendBullish}},
			},
			6.0,
		},
		{
			"neutral trend does not move the score",
			&models.TechnicalAnalysis{
				Trends: &models.TrendMetrics{Overall: &models.OverallTrend{Direction: models.TrendNeutral}},
			},
			5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.ScoreTechnical(tt.analysis))
		})
	}
}

func TestScoreFundamental(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name     string
		analysis *models.FundamentalAnalysis
		expected float64
	}{
		{"nil analysis is neutral", nil, 5.0},
		{"strong margin and strong growth", fundamentalWith(0.20, 25), 8.0},
		{"strong margin, good growth", fundamentalWith(0.20, 15), 7.0},
		{"negative margin and shrinking revenue", fundamentalWith(-0.05, -10), 3.0},
		{"zero margin does not move the score", fundamentalWith(0.0, 5), 5.0},
		{"growth at threshold is not strong", fundamentalWith(0.0, 20), 6.0},
		{
			"absent metrics are neutral",
			&models.FundamentalAnalysis{Profitability: &models.ProfitabilityMetrics{}},
			5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.ScoreFundamental(tt.analysis))
		})
	}
}

func TestScoreFundamentalGrowthMonotonicity(t *testing.T) {
	engine := NewDefaultEngine()

	// Higher growth never lowers the score, all else equal
	growths := []float64{-20, -1, 0, 5, 10.5, 15, 20.5, 50}
	prev := -1.0
	for _, g := range growths {
		score := engine.ScoreFundamental(fundamentalWith(0.10, g))
		assert.GreaterOrEqual(t, score, prev, "growth %.1f", g)
		prev = score
	}
}

func TestScoreRisk(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name     string
		analysis *models.RiskAnalysis
		expected float64
	}{
		{"nil analysis is neutral", nil, 5.0},
		{"calm low-beta stock", riskWith(0.15, -0.03, 0.5), 6.0},
		{"elevated volatility", riskWith(0.30, -0.03, 1.0), 4.0},
		{"high volatility", riskWith(0.50, -0.03, 1.0), 3.0},
		{"deep VaR", riskWith(0.15, -0.15, 1.0), 4.0},
		{"high beta", riskWith(0.15, -0.03, 2.0), 4.0},
		{"everything risky", riskWith(0.50, -0.15, 2.0), 1.0},
		{
			"missing beta is neutral",
			&models.RiskAnalysis{Volatility: &models.VolatilityMetrics{AnnualVolatility: 0.15}},
			5.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.ScoreRisk(tt.analysis))
		})
	}
}

func TestScoreSentiment(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name     string
		analysis *models.SentimentAnalysis
		expected float64
	}{
		{"nil analysis is neutral", nil, 5.0},
		{"very positive improving", sentimentWith(0.7, models.SentimentImproving), 8.0},
		{"positive stable", sentimentWith(0.3, models.SentimentStable), 6.0},
		{"neutral stable", sentimentWith(0.0, models.SentimentStable), 5.0},
		{"negative deteriorating", sentimentWith(-0.3, models.SentimentDeteriorating), 3.0},
		{"very negative deteriorating", sentimentWith(-0.7, models.SentimentDeteriorating), 3.0},
		{"negative band checked before very negative", sentimentWith(-0.6, models.SentimentStable), 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.ScoreSentiment(tt.analysis))
		})
	}
}

func TestScoresStayInRange(t *testing.T) {
	engine := NewDefaultEngine()

	// Even with extreme inputs, scores are clamped to [0, 10]
	inputs := []struct {
		technical   *models.TechnicalAnalysis
		fundamental *models.FundamentalAnalysis
		risk        *models.RiskAnalysis
		sentiment   *models.SentimentAnalysis
	}{
		{bullishTechnical(), fundamentalWith(0.9, 500), riskWith(0.01, 0.0, 0.1), sentimentWith(1.0, models.SentimentImproving)},
		{bearishTechnical(), fundamentalWith(-0.9, -90), riskWith(5.0, -0.9, 9.0), sentimentWith(-1.0, models.SentimentDeteriorating)},
		{nil, nil, nil, nil},
	}

	for _, in := range inputs {
		summary := engine.Aggregate(in.technical, in.fundamental, in.risk, in.sentiment)
		for _, score := range []float64{
			summary.Scores.Technical,
			summary.Scores.Fundamental,
			summary.Scores.Risk,
			summary.Scores.Sentiment,
		} {
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 10.0)
		}
	}
}

func TestRatingBreakpoints(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		scores   models.DomainScores
		expected string
	}{
		{models.DomainScores{Technical: 8, Fundamental: 8, Risk: 8, Sentiment: 8}, models.RatingStrongBuy},
		{models.DomainScores{Technical: 8, Fundamental: 8, Risk: 8, Sentiment: 7.96}, models.RatingBuy},
		{models.DomainScores{Technical: 6, Fundamental: 6, Risk: 6, Sentiment: 6}, models.RatingBuy},
		{models.DomainScores{Technical: 5, Fundamental: 5, Risk: 5, Sentiment: 5}, models.RatingHold},
		{models.DomainScores{Technical: 4, Fundamental: 4, Risk: 4, Sentiment: 4}, models.RatingHold},
		{models.DomainScores{Technical: 2, Fundamental: 2, Risk: 2, Sentiment: 2}, models.RatingSell},
		{models.DomainScores{Technical: 1, Fundamental: 1, Risk: 1, Sentiment: 1}, models.RatingStrongSell},
		{models.DomainScores{}, models.RatingStrongSell},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, engine.rating(tt.scores), "scores %+v", tt.scores)
	}
}

func TestAggregateScenarios(t *testing.T) {
	engine := NewDefaultEngine()

	t.Run("strong stock", func(t *testing.T) {
		summary := engine.Aggregate(
			bullishTechnical(),          // 7.0
			fundamentalWith(0.20, 25),   // 8.0
			riskWith(0.15, -0.03, 0.5),  // 6.0
			sentimentWith(0.7, models.SentimentImproving), // 8.0
		)
		require.NotNil(t, summary)
		assert.Equal(t, 7.0, summary.Scores.Technical)
		assert.Equal(t, 8.0, summary.Scores.Fundamental)
		assert.Equal(t, 6.0, summary.Scores.Risk)
		assert.Equal(t, 8.0, summary.Scores.Sentiment)
		assert.Equal(t, models.RatingBuy, summary.Rating)
	})

	t.Run("weak stock", func(t *testing.T) {
		summary := engine.Aggregate(
			bearishTechnical(),           // 3.0
			fundamentalWith(-0.05, -10),  // 3.0
			riskWith(0.50, -0.15, 2.0),   // 1.0
			sentimentWith(-0.7, models.SentimentDeteriorating), // 3.0
		)
		assert.Equal(t, models.RatingSell, summary.Rating)
	})

	t.Run("no data is a hold", func(t *testing.T) {
		summary := engine.Aggregate(nil, nil, nil, nil)
		assert.Equal(t, models.RatingHold, summary.Rating)
		assert.Equal(t, 5.0, summary.Scores.Mean())
		assert.Empty(t, summary.KeyFindings)
	})
}

func TestAggregateIdempotent(t *testing.T) {
	engine := NewDefaultEngine()

	technical := bullishTechnical()
	fundamental := fundamentalWith(0.20, 25)
	risk := riskWith(0.15, -0.03, 0.5)
	sentiment := sentimentWith(0.7, models.SentimentImproving)

	first := engine.Aggregate(technical, fundamental, risk, sentiment)
	second := engine.Aggregate(technical, fundamental, risk, sentiment)
	assert.Equal(t, first, second)
}

func TestExtractFindings(t *testing.T) {
	engine := NewDefaultEngine()

	t.Run("one finding per domain", func(t *testing.T) {
		summary := engine.Aggregate(
			bullishTechnical(),
			fundamentalWith(0.20, 25),
			riskWith(0.35, -0.03, 1.0),
			sentimentWith(0.7, models.SentimentStable),
		)
		require.Len(t, summary.KeyFindings, 4)
		assert.Equal(t, "Technical Trend: bullish", summary.KeyFindings[0])
		assert.Equal(t, "Revenue Growth: 25.0%", summary.KeyFindings[1])
		assert.Equal(t, "Annual Volatility: 35.0%", summary.KeyFindings[2])
		assert.Equal(t, "Market Sentiment: Very Positive", summary.KeyFindings[3])
	})

	t.Run("zero growth still yields a finding", func(t *testing.T) {
		summary := engine.Aggregate(nil, fundamentalWith(0.10, 0), nil, nil)
		require.Len(t, summary.KeyFindings, 1)
		assert.Equal(t, "Revenue Growth: 0.0%", summary.KeyFindings[0])
	})

	t.Run("absent domains are omitted without affecting others", func(t *testing.T) {
		summary := engine.Aggregate(bullishTechnical(), nil, nil, sentimentWith(0.0, models.SentimentStable))
		require.Len(t, summary.KeyFindings, 2)
		assert.Equal(t, "Technical Trend: bullish", summary.KeyFindings[0])
		assert.Equal(t, "Market Sentiment: Neutral", summary.KeyFindings[1])
	})
}

func TestClassifySentiment(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		score    float64
		expected string
	}{
		{0.8, "Very Positive"},
		{0.3, "Positive"},
		{0.0, "Neutral"},
		{-0.3, "Negative"},
		{-0.8, "Very Negative"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, engine.ClassifySentiment(tt.score))
	}
}

func TestRecommendations(t *testing.T) {
	engine := NewDefaultEngine()

	t.Run("strong stock", func(t *testing.T) {
		recs := engine.recommend(
			bullishTechnical(),
			fundamentalWith(0.20, 25),
			riskWith(0.15, -0.03, 0.5),
			sentimentWith(0.7, models.SentimentStable),
		)
		assert.Contains(t, recs.Action, "Consider entry points on pullbacks")
		assert.Contains(t, recs.Action, "Consider long-term position building")
		assert.Contains(t, recs.WatchPoints, "Monitor for potential profit taking")
		assert.Contains(t, recs.RiskManagement, "Set stop loss considering VaR: -3.0%")
	})

	t.Run("risky stock", func(t *testing.T) {
		recs := engine.recommend(
			bearishTechnical(),
			fundamentalWith(-0.05, -10),
			riskWith(0.50, -0.15, 2.0),
			sentimentWith(-0.7, models.SentimentStable),
		)
		assert.Contains(t, recs.Action, "Consider reducing position size")
		assert.Contains(t, recs.Action, "Review fundamental factors before adding")
		assert.Contains(t, recs.RiskManagement, "Consider position sizing due to high volatility (50.0%)")
		assert.Contains(t, recs.WatchPoints, "Watch for sentiment reversal")
	})

	t.Run("no VaR means no stop loss recommendation", func(t *testing.T) {
		recs := engine.recommend(nil, nil, &models.RiskAnalysis{
			Volatility: &models.VolatilityMetrics{AnnualVolatility: 0.20},
		}, nil)
		assert.Empty(t, recs.RiskManagement)
	})

	t.Run("lists are never nil", func(t *testing.T) {
		recs := engine.recommend(nil, nil, nil, nil)
		assert.NotNil(t, recs.Action)
		assert.NotNil(t, recs.WatchPoints)
		assert.NotNil(t, recs.RiskManagement)
	})
}

func TestCustomThresholds(t *testing.T) {
	cfg := common.DefaultScoringConfig()
	cfg.RevenueGrowthStrong = 5
	engine := NewEngine(cfg)

	// 10% growth clears the lowered strong threshold
	assert.Equal(t, 7.0, engine.ScoreFundamental(fundamentalWith(0.0, 10)))
}

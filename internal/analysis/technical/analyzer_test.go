package technical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/prism/internal/models"
)

func TestAnalyzePriceActionEmpty(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.AnalyzePriceAction(nil)
	require.NotNil(t, analysis)
	assert.Nil(t, analysis.Trends)
	assert.Nil(t, analysis.Momentum)
	assert.Nil(t, analysis.Volatility)
	assert.Nil(t, analysis.Volume)
	assert.Nil(t, analysis.Signals)
}

func TestAnalyzePriceActionShortHistory(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.AnalyzePriceAction(generateTrendBars(100, 0.5, 10))
	require.NotNil(t, analysis)
	assert.Nil(t, analysis.Trends, "needs 21 bars for the shortest MA")
	assert.Nil(t, analysis.Momentum, "needs 15 bars for RSI")
	assert.Nil(t, analysis.Volatility)
	assert.Nil(t, analysis.Volume)
	assert.NotNil(t, analysis.SupportResistance)
	assert.Nil(t, analysis.Signals)
}

func TestAnalyzePriceActionUptrend(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.AnalyzePriceAction(generateTrendBars(300, 1.0, 250))

	require.NotNil(t, analysis.Trends)
	assert.Len(t, analysis.Trends.SMA, 3)
	require.NotNil(t, analysis.Trends.Overall)
	assert.Equal(t, models.TrendBullish, analysis.Trends.Overall.Direction)
	assert.Equal(t, "above_ma", analysis.Trends.Overall.PricePosition)

	require.NotNil(t, analysis.Momentum)
	require.NotNil(t, analysis.Momentum.MACD)
	assert.Equal(t, models.TrendBullish, analysis.Momentum.MACD.Trend)
	require.NotNil(t, analysis.Momentum.RSI)
	assert.Greater(t, analysis.Momentum.RSI.Value, 50.0)

	require.NotNil(t, analysis.Volatility)
	assert.Greater(t, analysis.Volatility.BollingerUpper, analysis.Volatility.BollingerLower)

	require.NotNil(t, analysis.Signals)
	assert.Equal(t, models.TrendBullish, analysis.Signals.Trend)
	assert.Equal(t, models.TrendBullish, analysis.Signals.Momentum)
	assert.Equal(t, models.TrendBullish, analysis.Signals.Overall)
}

func TestAnalyzePriceActionDowntrend(t *testing.T) {
	analyzer := NewAnalyzer()

	analysis := analyzer.AnalyzePriceAction(generateTrendBars(50, -1.0, 250))

	require.NotNil(t, analysis.Trends)
	require.NotNil(t, analysis.Trends.Overall)
	assert.Equal(t, models.TrendBearish, analysis.Trends.Overall.Direction)
	assert.Equal(t, "below_ma", analysis.Trends.Overall.PricePosition)

	require.NotNil(t, analysis.Signals)
	assert.Equal(t, models.TrendBearish, analysis.Signals.Overall)
}

func TestAnalyzePriceActionPartialMAs(t *testing.T) {
	analyzer := NewAnalyzer()

	// 60 bars: 20 and 50 day MAs compute, 200 does not
	analysis := analyzer.AnalyzePriceAction(generateTrendBars(150, 1.0, 60))

	require.NotNil(t, analysis.Trends)
	assert.Len(t, analysis.Trends.SMA, 2)
	assert.Nil(t, analysis.Trends.Overall, "overall call needs all three MAs")
	require.NotNil(t, analysis.Momentum)
}

func TestGenerateSignals(t *testing.T) {
	analyzer := NewAnalyzer()

	tests := []struct {
		name     string
		analysis *models.TechnicalAnalysis
		expected string
	}{
		{
			name: "trend and momentum agree bullish",
			analysis: &models.TechnicalAnalysis{
				Trends:   &models.TrendMetrics{Overall: &models.OverallTrend{Direction: models.TrendBullish}},
				Momentum: &models.MomentumMetrics{MACD: &models.MACDMetrics{Trend: models.TrendBullish}},
			},
			expected: models.TrendBullish,
		},
		{
			name: "trend and momentum agree bearish",
			analysis: &models.TechnicalAnalysis{
				Trends:   &models.TrendMetrics{Overall: &models.OverallTrend{Direction: models.TrendBearish}},
				Momentum: &models.MomentumMetrics{MACD: &models.MACDMetrics{Trend: models.TrendBearish}},
			},
			expected: models.TrendBearish,
		},
		{
			name: "trend outweighs momentum",
			analysis: &models.TechnicalAnalysis{
				Trends:   &models.TrendMetrics{Overall: &models.OverallTrend{Direction: models.TrendBullish}},
				Momentum: &models.MomentumMetrics{MACD: &models.MACDMetrics{Trend: models.TrendBearish}},
			},
			// 0.4 - 0.3 = 0.1 is inside the neutral band
			expected: models.TrendNeutral,
		},
		{
			name: "momentum with volume confirmation",
			analysis: &models.TechnicalAnalysis{
				Momentum: &models.MomentumMetrics{MACD: &models.MACDMetrics{Trend: models.TrendBullish}},
				Volume:   &models.VolumeMetrics{VolumeTrend: "up", OBVTrend: "up"},
			},
			// 0.3 + 0.3 = 0.6
			expected: models.TrendBullish,
		},
		{
			name: "rising volume against OBV is distribution",
			analysis: &models.TechnicalAnalysis{
				Trends: &models.TrendMetrics{Overall: &models.OverallTrend{Direction: models.TrendBullish}},
				Volume: &models.VolumeMetrics{VolumeTrend: "up", OBVTrend: "down"},
			},
			// 0.4 - 0.3 = 0.1
			expected: models.TrendNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := analyzer.generateSignals(tt.analysis)
			require.NotNil(t, signals)
			assert.Equal(t, tt.expected, signals.Overall)
		})
	}
}

func TestGenerateSignalsAllNeutral(t *testing.T) {
	analyzer := NewAnalyzer()
	assert.Nil(t, analyzer.generateSignals(&models.TechnicalAnalysis{}))
}

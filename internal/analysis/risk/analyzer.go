// Package risk computes return-distribution risk metrics from EOD bars.
package risk

import (
	"math"
	"sort"

	"github.com/bobmcallan/prism/internal/models"
)

const (
	confidenceLevel  = 0.95
	tradingDays      = 252
	rollingWindow    = 30
	ewmaSpan         = 30
	minReturnSamples = 20
)

// Analyzer computes risk metrics for a ticker.
type Analyzer struct{}

// NewAnalyzer creates a risk analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeReturns computes the full risk metric bundle from price bars.
// benchmarkBars may be nil, in which case the beta block is omitted.
// Bars are ordered most recent first.
func (a *Analyzer) AnalyzeReturns(bars, benchmarkBars []models.EODBar) *models.RiskAnalysis {
	analysis := &models.RiskAnalysis{}

	returns := dailyReturns(bars)
	if len(returns) < minReturnSamples {
		return analysis
	}

	analysis.Volatility = a.analyzeVolatility(returns)
	analysis.ValueAtRisk = a.analyzeVaR(returns)
	analysis.Beta = a.analyzeBeta(bars, benchmarkBars)
	analysis.Drawdown = a.analyzeDrawdown(bars)
	analysis.TailRisk = a.analyzeTailRisk(returns)

	return analysis
}

// dailyReturns computes simple daily returns, most recent first.
func dailyReturns(bars []models.EODBar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(bars)-1)
	for i := 0; i < len(bars)-1; i++ {
		if bars[i+1].Close == 0 {
			continue
		}
		returns = append(returns, bars[i].Close/bars[i+1].Close-1)
	}
	return returns
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func (a *Analyzer) analyzeVolatility(returns []float64) *models.VolatilityMetrics {
	daily := stddev(returns)

	metrics := &models.VolatilityMetrics{
		DailyVolatility:  daily,
		AnnualVolatility: daily * math.Sqrt(tradingDays),
	}

	if len(returns) >= rollingWindow {
		rolling := stddev(returns[:rollingWindow]) * math.Sqrt(tradingDays)
		metrics.RollingVol = models.Float(rolling)
		metrics.EWMAVol = models.Float(ewmaVolatility(returns, ewmaSpan) * math.Sqrt(tradingDays))
	}

	return metrics
}

// ewmaVolatility estimates forward volatility with an exponentially weighted
// moving variance over the return series.
func ewmaVolatility(returns []float64, span int) float64 {
	alpha := 2.0 / float64(span+1)
	m := mean(returns)

	variance := 0.0
	// Oldest to newest so recent returns carry the most weight
	for i := len(returns) - 1; i >= 0; i-- {
		d := returns[i] - m
		variance = (1-alpha)*variance + alpha*d*d
	}
	return math.Sqrt(variance)
}

func (a *Analyzer) analyzeVaR(returns []float64) *models.VaRMetrics {
	histVaR := percentile(returns, 1-confidenceLevel)

	// Parametric VaR via the normal quantile
	m := mean(returns)
	sd := stddev(returns)
	paramVaR := m + sd*normQuantile(1-confidenceLevel)

	// Conditional VaR: mean of returns at or below the historical VaR
	var tail []float64
	for _, r := range returns {
		if r <= histVaR {
			tail = append(tail, r)
		}
	}
	cvar := histVaR
	if len(tail) > 0 {
		cvar = mean(tail)
	}

	return &models.VaRMetrics{
		HistoricalVaR:  histVaR,
		ParametricVaR:  paramVaR,
		ConditionalVaR: cvar,
		Confidence:     confidenceLevel,
	}
}

// percentile returns the p-th quantile (0 <= p <= 1) by linear interpolation.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// normQuantile returns the standard normal quantile for probability p.
func normQuantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

func (a *Analyzer) analyzeBeta(bars, benchmarkBars []models.EODBar) *models.BetaMetrics {
	if len(benchmarkBars) == 0 {
		return nil
	}

	stock, market := alignedReturns(bars, benchmarkBars)
	if len(stock) < minReturnSamples {
		return nil
	}

	marketVar := variance(market)
	if marketVar == 0 {
		return nil
	}

	cov := covariance(stock, market)
	corr := 0.0
	if sv, mv := stddev(stock), stddev(market); sv > 0 && mv > 0 {
		corr = cov / (sv * mv)
	}

	return &models.BetaMetrics{
		Beta:        cov / marketVar,
		RSquared:    corr * corr,
		Correlation: corr,
	}
}

// alignedReturns pairs stock and benchmark returns by date.
func alignedReturns(bars, benchmarkBars []models.EODBar) (stock, market []float64) {
	benchByDate := make(map[string]int, len(benchmarkBars))
	for i, b := range benchmarkBars {
		benchByDate[b.Date.Format("2006-01-02")] = i
	}

	for i := 0; i < len(bars)-1; i++ {
		j, ok := benchByDate[bars[i].Date.Format("2006-01-02")]
		if !ok || j+1 >= len(benchmarkBars) {
			continue
		}
		if bars[i+1].Close == 0 || benchmarkBars[j+1].Close == 0 {
			continue
		}
		stock = append(stock, bars[i].Close/bars[i+1].Close-1)
		market = append(market, benchmarkBars[j].Close/benchmarkBars[j+1].Close-1)
	}
	return stock, market
}

func variance(values []float64) float64 {
	sd := stddev(values)
	return sd * sd
}

func covariance(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	mx, my := mean(x), mean(y)
	var sum float64
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x)-1)
}

func (a *Analyzer) analyzeDrawdown(bars []models.EODBar) *models.DrawdownMetrics {
	if len(bars) < 2 {
		return nil
	}

	// Oldest to newest
	runningMax := 0.0
	var drawdowns []float64
	var lastPeakIdx int

	for i := len(bars) - 1; i >= 0; i-- {
		close := bars[i].Close
		if close > runningMax {
			runningMax = close
			lastPeakIdx = i
		}
		dd := 0.0
		if runningMax > 0 {
			dd = (close - runningMax) / runningMax
		}
		drawdowns = append(drawdowns, dd)
	}

	maxDD := 0.0
	for _, dd := range drawdowns {
		if dd < maxDD {
			maxDD = dd
		}
	}

	duration := 0
	if drawdowns[len(drawdowns)-1] < 0 {
		duration = int(bars[0].Date.Sub(bars[lastPeakIdx].Date).Hours() / 24)
	}

	return &models.DrawdownMetrics{
		Current:      drawdowns[len(drawdowns)-1],
		Max:          maxDD,
		Average:      mean(drawdowns),
		DurationDays: duration,
	}
}

func (a *Analyzer) analyzeTailRisk(returns []float64) *models.TailRiskMetrics {
	m := mean(returns)
	sd := stddev(returns)
	if sd == 0 {
		return nil
	}

	var skewSum, kurtSum float64
	for _, r := range returns {
		z := (r - m) / sd
		skewSum += z * z * z
		kurtSum += z * z * z * z
	}
	n := float64(len(returns))

	upper := math.Abs(percentile(returns, 0.99))
	lower := math.Abs(percentile(returns, 0.01))
	tailRatio := 0.0
	if lower > 0 {
		tailRatio = upper / lower
	}

	return &models.TailRiskMetrics{
		Skewness:  skewSum / n,
		Kurtosis:  kurtSum/n - 3, // excess kurtosis
		TailRatio: tailRatio,
	}
}

// Package technical provides technical indicator calculations and
// price-action analysis. Bars are ordered most recent first.
package technical

import (
	"math"
	"sort"

	"github.com/bobmcallan/prism/internal/models"
)

// SMA calculates Simple Moving Average for the given period
func SMA(bars []models.EODBar, period int) float64 {
	if len(bars) < period || period <= 0 {
		return 0
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// closesOldestFirst extracts closing prices in chronological order.
func closesOldestFirst(bars []models.EODBar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[len(bars)-1-i] = bar.Close
	}
	return closes
}

// emaSeries computes an EMA series over values in chronological order.
// The first period-1 entries are zero; entry i is the EMA through values[i].
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) < period || period <= 0 {
		return out
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema

	multiplier := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out
}

// EMA calculates the current Exponential Moving Average for the given period
func EMA(bars []models.EODBar, period int) float64 {
	closes := closesOldestFirst(bars)
	series := emaSeries(closes, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// RSI calculates Relative Strength Index
func RSI(bars []models.EODBar, period int) float64 {
	if len(bars) < period+1 {
		return 50 // Neutral default
	}

	var gains, losses float64
	for i := 0; i < period; i++ {
		change := bars[i].Close - bars[i+1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD calculates Moving Average Convergence Divergence.
// Returns MACD line, signal line (EMA of the MACD line), and histogram.
func MACD(bars []models.EODBar, fastPeriod, slowPeriod, signalPeriod int) (float64, float64, float64) {
	if len(bars) < slowPeriod+signalPeriod {
		return 0, 0, 0
	}

	closes := closesOldestFirst(bars)
	fast := emaSeries(closes, fastPeriod)
	slow := emaSeries(closes, slowPeriod)

	macd := make([]float64, 0, len(closes)-slowPeriod+1)
	for i := slowPeriod - 1; i < len(closes); i++ {
		macd = append(macd, fast[i]-slow[i])
	}

	signal := emaSeries(macd, signalPeriod)

	macdLine := macd[len(macd)-1]
	signalLine := signal[len(signal)-1]
	return macdLine, signalLine, macdLine - signalLine
}

// ATR calculates Average True Range
func ATR(bars []models.EODBar, period int) float64 {
	if len(bars) < period+1 {
		return 0
	}

	trSum := 0.0
	for i := 0; i < period; i++ {
		high := bars[i].High
		low := bars[i].Low
		prevClose := bars[i+1].Close

		tr1 := high - low
		tr2 := math.Abs(high - prevClose)
		tr3 := math.Abs(low - prevClose)

		trSum += math.Max(tr1, math.Max(tr2, tr3))
	}

	return trSum / float64(period)
}

// ADX calculates the Average Directional Index over the given period.
// Used to classify trend strength (>25 moderate, >50 strong).
func ADX(bars []models.EODBar, period int) float64 {
	if len(bars) < 2*period+1 {
		return 0
	}

	// Work oldest to newest
	n := len(bars)
	var dxSum float64
	var dxCount int

	var smTR, smPlusDM, smMinusDM float64
	for i := n - 2; i >= 0; i-- {
		cur, prev := bars[i], bars[i+1]

		upMove := cur.High - prev.High
		downMove := prev.Low - cur.Low

		var plusDM, minusDM float64
		if upMove > downMove && upMove > 0 {
			plusDM = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM = downMove
		}

		tr := math.Max(cur.High-cur.Low,
			math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))

		// Wilder smoothing
		smTR = smTR - smTR/float64(period) + tr
		smPlusDM = smPlusDM - smPlusDM/float64(period) + plusDM
		smMinusDM = smMinusDM - smMinusDM/float64(period) + minusDM

		if n-1-i < period || smTR == 0 {
			continue
		}

		plusDI := 100 * smPlusDM / smTR
		minusDI := 100 * smMinusDM / smTR
		if plusDI+minusDI == 0 {
			continue
		}
		dx := 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
		dxSum += dx
		dxCount++
		if dxCount == period {
			break
		}
	}

	if dxCount == 0 {
		return 0
	}
	return dxSum / float64(dxCount)
}

// Stochastic calculates the slow stochastic oscillator (%K smoothed, %D).
func Stochastic(bars []models.EODBar, kPeriod, smoothK, dPeriod int) (float64, float64) {
	need := kPeriod + smoothK + dPeriod
	if len(bars) < need {
		return 50, 50
	}

	rawK := func(offset int) float64 {
		window := bars[offset : offset+kPeriod]
		high, low := window[0].High, window[0].Low
		for _, b := range window {
			if b.High > high {
				high = b.High
			}
			if b.Low < low {
				low = b.Low
			}
		}
		if high == low {
			return 50
		}
		return 100 * (bars[offset].Close - low) / (high - low)
	}

	slowK := func(offset int) float64 {
		sum := 0.0
		for i := 0; i < smoothK; i++ {
			sum += rawK(offset + i)
		}
		return sum / float64(smoothK)
	}

	k := slowK(0)
	dSum := 0.0
	for i := 0; i < dPeriod; i++ {
		dSum += slowK(i)
	}
	return k, dSum / float64(dPeriod)
}

// Bollinger calculates Bollinger bands: upper, middle (SMA), lower.
func Bollinger(bars []models.EODBar, period int, mult float64) (float64, float64, float64) {
	if len(bars) < period {
		return 0, 0, 0
	}

	middle := SMA(bars, period)
	var variance float64
	for i := 0; i < period; i++ {
		d := bars[i].Close - middle
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))

	return middle + mult*std, middle, middle - mult*std
}

// OBV calculates On-Balance Volume across the full series.
func OBV(bars []models.EODBar) (current, previous float64) {
	if len(bars) < 2 {
		return 0, 0
	}

	obv := 0.0
	// Oldest to newest
	for i := len(bars) - 2; i >= 0; i-- {
		previous = obv
		switch {
		case bars[i].Close > bars[i+1].Close:
			obv += float64(bars[i].Volume)
		case bars[i].Close < bars[i+1].Close:
			obv -= float64(bars[i].Volume)
		}
	}
	return obv, previous
}

// AverageVolume calculates average volume over a period
func AverageVolume(bars []models.EODBar, period int) int64 {
	if len(bars) < period || period <= 0 {
		return 0
	}

	var sum int64
	for i := 0; i < period; i++ {
		sum += bars[i].Volume
	}
	return sum / int64(period)
}

// DetectSupportResistance finds support and resistance levels from
// quartile clusters of recent highs and lows.
func DetectSupportResistance(bars []models.EODBar, lookback int) (support, resistance float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	if len(bars) < lookback {
		lookback = len(bars)
	}

	highs := make([]float64, lookback)
	lows := make([]float64, lookback)
	for i := 0; i < lookback; i++ {
		highs[i] = bars[i].High
		lows[i] = bars[i].Low
	}

	sort.Float64s(highs)
	sort.Float64s(lows)

	resistance = highs[int(float64(len(highs))*0.75)]
	support = lows[int(float64(len(lows))*0.25)]

	return support, resistance
}

// DetectCrossover detects SMA crossovers between two periods.
// Returns "golden_cross", "death_cross", or "none".
func DetectCrossover(bars []models.EODBar, shortPeriod, longPeriod int) string {
	if len(bars) < longPeriod+1 {
		return "none"
	}

	shortSMA := SMA(bars, shortPeriod)
	longSMA := SMA(bars, longPeriod)

	prevShortSMA := SMA(bars[1:], shortPeriod)
	prevLongSMA := SMA(bars[1:], longPeriod)

	if prevShortSMA <= prevLongSMA && shortSMA > longSMA {
		return "golden_cross"
	}
	if prevShortSMA >= prevLongSMA && shortSMA < longSMA {
		return "death_cross"
	}

	return "none"
}

// ClassifyRSI classifies an RSI value
func ClassifyRSI(rsi float64) string {
	if rsi > 70 {
		return "overbought"
	}
	if rsi < 30 {
		return "oversold"
	}
	return "neutral"
}

// ClassifyStochastic classifies a slow %K value
func ClassifyStochastic(k float64) string {
	if k > 80 {
		return "overbought"
	}
	if k < 20 {
		return "oversold"
	}
	return "neutral"
}

// ClassifyTrendStrength maps an ADX value to a strength label
func ClassifyTrendStrength(adx float64) string {
	if adx > 50 {
		return "strong"
	}
	if adx > 25 {
		return "moderate"
	}
	return "weak"
}

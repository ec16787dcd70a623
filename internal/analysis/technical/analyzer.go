package technical

import (
	"github.com/bobmcallan/prism/internal/models"
)

// Default indicator parameters.
const (
	rsiPeriod        = 14
	macdFast         = 12
	macdSlow         = 26
	macdSignal       = 9
	adxPeriod        = 14
	bollingerPeriod  = 20
	bollingerMult    = 2.0
	atrPeriod        = 14
	volumeMAPeriod   = 20
	levelLookback    = 60
	stochKPeriod     = 14
	stochSmooth      = 3
	stochDPeriod     = 3
)

var maPeriods = []int{20, 50, 200}

// Analyzer performs price-action analysis over EOD bars.
type Analyzer struct{}

// NewAnalyzer creates a technical analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzePriceAction computes the full technical metric bundle.
// Sub-results that cannot be computed from the available history are nil;
// an empty series yields an empty (but non-nil) analysis.
func (a *Analyzer) AnalyzePriceAction(bars []models.EODBar) *models.TechnicalAnalysis {
	analysis := &models.TechnicalAnalysis{}
	if len(bars) == 0 {
		return analysis
	}

	analysis.Trends = a.analyzeTrends(bars)
	analysis.Momentum = a.analyzeMomentum(bars)
	analysis.Volatility = a.analyzeVolatility(bars)
	analysis.Volume = a.analyzeVolume(bars)
	analysis.SupportResistance = a.findLevels(bars)
	analysis.Signals = a.generateSignals(analysis)

	return analysis
}

// analyzeTrends builds moving-average state and the overall trend call.
func (a *Analyzer) analyzeTrends(bars []models.EODBar) *models.TrendMetrics {
	trends := &models.TrendMetrics{SMA: make(map[int]models.MASnapshot)}

	for _, period := range maPeriods {
		if len(bars) < period+1 {
			continue
		}
		current := SMA(bars, period)
		prev := SMA(bars[1:], period)
		trend := "down"
		if current > prev {
			trend = "up"
		}
		trends.SMA[period] = models.MASnapshot{Current: current, Trend: trend}
	}

	if len(trends.SMA) == 0 {
		return nil
	}

	// Overall direction needs all three MAs
	if len(trends.SMA) == len(maPeriods) {
		price := bars[0].Close
		aligned := true
		for _, period := range maPeriods {
			if price <= trends.SMA[period].Current {
				aligned = false
				break
			}
		}

		direction := models.TrendBearish
		position := "below_ma"
		if aligned {
			direction = models.TrendBullish
			position = "above_ma"
		}

		trends.Overall = &models.OverallTrend{
			Direction:     direction,
			Strength:      ClassifyTrendStrength(ADX(bars, adxPeriod)),
			PricePosition: position,
		}
	}

	return trends
}

func (a *Analyzer) analyzeMomentum(bars []models.EODBar) *models.MomentumMetrics {
	momentum := &models.MomentumMetrics{}

	if len(bars) >= rsiPeriod+1 {
		rsi := RSI(bars, rsiPeriod)
		momentum.RSI = &models.RSIMetrics{
			Value:     rsi,
			Condition: ClassifyRSI(rsi),
		}
	}

	if len(bars) >= macdSlow+macdSignal {
		line, signal, hist := MACD(bars, macdFast, macdSlow, macdSignal)
		trend := models.TrendBearish
		if hist > 0 {
			trend = models.TrendBullish
		}
		momentum.MACD = &models.MACDMetrics{
			MACD:      line,
			Signal:    signal,
			Histogram: hist,
			Trend:     trend,
		}
	}

	if len(bars) >= stochKPeriod+stochSmooth+stochDPeriod {
		k, d := Stochastic(bars, stochKPeriod, stochSmooth, stochDPeriod)
		momentum.Stochastic = &models.StochasticMetrics{
			K:         k,
			D:         d,
			Condition: ClassifyStochastic(k),
		}
	}

	if momentum.RSI == nil && momentum.MACD == nil && momentum.Stochastic == nil {
		return nil
	}
	return momentum
}

func (a *Analyzer) analyzeVolatility(bars []models.EODBar) *models.BandMetrics {
	if len(bars) < bollingerPeriod {
		return nil
	}

	upper, middle, lower := Bollinger(bars, bollingerPeriod, bollingerMult)
	price := bars[0].Close

	position := "inside"
	if price > upper {
		position = "above"
	} else if price < lower {
		position = "below"
	}

	bandwidth := 0.0
	if middle != 0 {
		bandwidth = (upper - lower) / middle
	}

	metrics := &models.BandMetrics{
		BollingerUpper:  upper,
		BollingerMiddle: middle,
		BollingerLower:  lower,
		Bandwidth:       bandwidth,
		BandPosition:    position,
	}

	if atr := ATR(bars, atrPeriod); atr > 0 && price > 0 {
		metrics.ATR = atr
		metrics.ATRPct = (atr / price) * 100
	}

	return metrics
}

func (a *Analyzer) analyzeVolume(bars []models.EODBar) *models.VolumeMetrics {
	if len(bars) < volumeMAPeriod {
		return nil
	}

	obv, prevOBV := OBV(bars)
	obvTrend := "down"
	if obv > prevOBV {
		obvTrend = "up"
	}

	volumeMA := float64(AverageVolume(bars, volumeMAPeriod))
	current := bars[0].Volume
	volumeTrend := "down"
	if float64(current) > volumeMA {
		volumeTrend = "up"
	}

	return &models.VolumeMetrics{
		OBV:           obv,
		OBVTrend:      obvTrend,
		VolumeMA:      volumeMA,
		CurrentVolume: current,
		VolumeTrend:   volumeTrend,
	}
}

func (a *Analyzer) findLevels(bars []models.EODBar) *models.LevelMetrics {
	if len(bars) < 2 {
		return nil
	}

	support, resistance := DetectSupportResistance(bars, levelLookback)
	price := bars[0].Close

	return &models.LevelMetrics{
		Support:          support,
		Resistance:       resistance,
		NearSupport:      price <= support*1.02,
		NearResistance:   price >= resistance*0.98,
		SMA20CrossSMA50:  DetectCrossover(bars, 20, 50),
		SMA50CrossSMA200: DetectCrossover(bars, 50, 200),
	}
}

// generateSignals combines trend, momentum, and volume sub-signals into an
// overall call with weights 0.4 / 0.3 / 0.3.
func (a *Analyzer) generateSignals(analysis *models.TechnicalAnalysis) *models.SignalAssessment {
	trendSignal := models.TrendNeutral
	if analysis.Trends != nil && analysis.Trends.Overall != nil {
		trendSignal = analysis.Trends.Overall.Direction
	}

	momentumSignal := models.TrendNeutral
	if analysis.Momentum != nil && analysis.Momentum.MACD != nil {
		momentumSignal = analysis.Momentum.MACD.Trend
	}

	volumeSignal := models.TrendNeutral
	if analysis.Volume != nil {
		// Rising volume confirms the trend direction; falling volume is neutral
		if analysis.Volume.VolumeTrend == "up" && analysis.Volume.OBVTrend == "up" {
			volumeSignal = models.TrendBullish
		} else if analysis.Volume.VolumeTrend == "up" && analysis.Volume.OBVTrend == "down" {
			volumeSignal = models.TrendBearish
		}
	}

	if trendSignal == models.TrendNeutral && momentumSignal == models.TrendNeutral &&
		volumeSignal == models.TrendNeutral {
		return nil
	}

	score := func(signal string) float64 {
		switch signal {
		case models.TrendBullish:
			return 1
		case models.TrendBearish:
			return -1
		}
		return 0
	}

	total := score(trendSignal)*0.4 + score(momentumSignal)*0.3 + score(volumeSignal)*0.3

	overall := models.TrendNeutral
	if total > 0.2 {
		overall = models.TrendBullish
	} else if total < -0.2 {
		overall = models.TrendBearish
	}

	return &models.SignalAssessment{
		Trend:    trendSignal,
		Momentum: momentumSignal,
		Volume:   volumeSignal,
		Overall:  overall,
	}
}

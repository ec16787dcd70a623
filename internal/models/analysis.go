package models

import "time"

// Trend directions shared by the technical analyzer and the summary engine.
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"
)

// Sentiment trend directions.
const (
	SentimentImproving     = "improving"
	SentimentDeteriorating = "deteriorating"
	SentimentStable        = "stable"
)

// Float returns a pointer to v. Analysis results use *float64 for metrics
// that may be absent, so "not computed" is distinguishable from zero.
func Float(v float64) *float64 { return &v }

// TechnicalAnalysis holds the technical metric bundle for one ticker.
// Nil sub-structs mean the underlying series was too short to compute them.
type TechnicalAnalysis struct {
	Trends            *TrendMetrics      `json:"trends,omitempty"`
	Momentum          *MomentumMetrics   `json:"momentum,omitempty"`
	Volatility        *BandMetrics       `json:"volatility,omitempty"`
	Volume            *VolumeMetrics     `json:"volume,omitempty"`
	SupportResistance *LevelMetrics      `json:"support_resistance,omitempty"`
	Signals           *SignalAssessment  `json:"signals,omitempty"`
}

// TrendMetrics describes moving-average trend state.
type TrendMetrics struct {
	SMA     map[int]MASnapshot `json:"sma"` // keyed by period (20, 50, 200)
	Overall *OverallTrend      `json:"overall,omitempty"`
}

// MASnapshot is the current state of one moving average.
type MASnapshot struct {
	Current float64 `json:"current"`
	Trend   string  `json:"trend"` // up or down
}

// OverallTrend is the combined trend assessment.
type OverallTrend struct {
	Direction     string `json:"direction"` // bullish or bearish
	Strength      string `json:"strength"`  // weak, moderate, strong
	PricePosition string `json:"price_position"`
}

// MomentumMetrics holds momentum indicators.
type MomentumMetrics struct {
	RSI        *RSIMetrics        `json:"rsi,omitempty"`
	MACD       *MACDMetrics       `json:"macd,omitempty"`
	Stochastic *StochasticMetrics `json:"stochastic,omitempty"`
}

// RSIMetrics is the RSI reading with its classification.
type RSIMetrics struct {
	Value     float64 `json:"value"`
	Condition string  `json:"condition"` // overbought, oversold, neutral
}

// MACDMetrics is the MACD reading.
type MACDMetrics struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
	Trend     string  `json:"trend"` // bullish or bearish
}

// StochasticMetrics is the slow stochastic reading.
type StochasticMetrics struct {
	K         float64 `json:"k"`
	D         float64 `json:"d"`
	Condition string  `json:"condition"`
}

// BandMetrics holds Bollinger band and ATR readings.
type BandMetrics struct {
	BollingerUpper  float64 `json:"bollinger_upper"`
	BollingerMiddle float64 `json:"bollinger_middle"`
	BollingerLower  float64 `json:"bollinger_lower"`
	Bandwidth       float64 `json:"bandwidth"`
	BandPosition    string  `json:"band_position"` // above, inside, below
	ATR             float64 `json:"atr"`
	ATRPct          float64 `json:"atr_pct"`
}

// VolumeMetrics holds volume indicators.
type VolumeMetrics struct {
	OBV           float64 `json:"obv"`
	OBVTrend      string  `json:"obv_trend"`
	VolumeMA      float64 `json:"volume_ma"`
	CurrentVolume int64   `json:"current_volume"`
	VolumeTrend   string  `json:"volume_trend"`
}

// LevelMetrics holds support/resistance levels and crossover state.
type LevelMetrics struct {
	Support          float64 `json:"support"`
	Resistance       float64 `json:"resistance"`
	NearSupport      bool    `json:"near_support"`
	NearResistance   bool    `json:"near_resistance"`
	SMA20CrossSMA50  string  `json:"sma20_cross_sma50"`  // golden_cross, death_cross, none
	SMA50CrossSMA200 string  `json:"sma50_cross_sma200"`
}

// SignalAssessment combines sub-signals into an overall signal.
type SignalAssessment struct {
	Trend    string `json:"trend"`
	Momentum string `json:"momentum"`
	Volume   string `json:"volume"`
	Overall  string `json:"overall"`
}

// FundamentalAnalysis holds the fundamental metric bundle.
type FundamentalAnalysis struct {
	Profitability *ProfitabilityMetrics `json:"profitability,omitempty"`
	Growth        *GrowthMetrics        `json:"growth,omitempty"`
	Liquidity     *LiquidityMetrics     `json:"liquidity,omitempty"`
	Solvency      *SolvencyMetrics      `json:"solvency,omitempty"`
	Valuation     *ValuationMetrics     `json:"valuation,omitempty"`
	CashFlows     *CashFlowMetrics      `json:"cash_flows,omitempty"`
	DuPont        *DuPontMetrics        `json:"dupont,omitempty"`
}

// ProfitabilityMetrics holds margin and return ratios. Margins are fractions
// of 1 (0.15 means 15%).
type ProfitabilityMetrics struct {
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
}

// GrowthMetrics holds year-over-year growth rates in percent points
// (20 means 20%, not a fraction).
type GrowthMetrics struct {
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	NetIncomeGrowth *float64 `json:"net_income_growth,omitempty"`
	EPSGrowth       *float64 `json:"eps_growth,omitempty"`
}

// LiquidityMetrics holds short-term coverage ratios.
type LiquidityMetrics struct {
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	QuickRatio     *float64 `json:"quick_ratio,omitempty"`
	CashRatio      *float64 `json:"cash_ratio,omitempty"`
	WorkingCapital *float64 `json:"working_capital,omitempty"`
}

// SolvencyMetrics holds leverage ratios.
type SolvencyMetrics struct {
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	DebtToAssets     *float64 `json:"debt_to_assets,omitempty"`
	InterestCoverage *float64 `json:"interest_coverage,omitempty"`
	EquityMultiplier *float64 `json:"equity_multiplier,omitempty"`
}

// ValuationMetrics holds market valuation ratios.
type ValuationMetrics struct {
	PE            *float64 `json:"pe_ratio,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	PriceToBook   *float64 `json:"price_to_book,omitempty"`
	EVToEBITDA    *float64 `json:"ev_to_ebitda,omitempty"`
	PEG           *float64 `json:"peg_ratio,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
}

// CashFlowMetrics holds cash-flow derived ratios.
type CashFlowMetrics struct {
	OperatingCFRatio *float64 `json:"operating_cash_flow_ratio,omitempty"`
	FreeCashFlow     *float64 `json:"free_cash_flow,omitempty"`
	FCFYield         *float64 `json:"fcf_yield,omitempty"`
	CapexToRevenue   *float64 `json:"capex_to_revenue,omitempty"`
}

// DuPontMetrics decomposes ROE.
type DuPontMetrics struct {
	NetMargin     float64 `json:"net_margin"`
	AssetTurnover float64 `json:"asset_turnover"`
	Leverage      float64 `json:"leverage"`
	ROE           float64 `json:"roe"`
}

// RiskAnalysis holds the risk metric bundle. Fractions throughout
// (0.25 annual volatility means 25%).
type RiskAnalysis struct {
	Volatility  *VolatilityMetrics `json:"volatility,omitempty"`
	ValueAtRisk *VaRMetrics        `json:"value_at_risk,omitempty"`
	Beta        *BetaMetrics       `json:"beta,omitempty"`
	Drawdown    *DrawdownMetrics   `json:"drawdown,omitempty"`
	TailRisk    *TailRiskMetrics   `json:"tail_risk,omitempty"`
}

// VolatilityMetrics holds realized and estimated volatility.
type VolatilityMetrics struct {
	DailyVolatility  float64  `json:"daily_volatility"`
	AnnualVolatility float64  `json:"annual_volatility"`
	RollingVol       *float64 `json:"current_rolling_vol,omitempty"`
	EWMAVol          *float64 `json:"forward_vol_estimate,omitempty"`
}

// VaRMetrics holds value-at-risk estimates, typically negative fractions.
type VaRMetrics struct {
	HistoricalVaR  float64 `json:"historical_var"`
	ParametricVaR  float64 `json:"parametric_var"`
	ConditionalVaR float64 `json:"conditional_var"`
	Confidence     float64 `json:"var_confidence"`
}

// BetaMetrics holds market sensitivity measures.
type BetaMetrics struct {
	Beta        float64 `json:"beta"`
	RSquared    float64 `json:"r_squared"`
	Correlation float64 `json:"correlation_with_market"`
}

// DrawdownMetrics holds drawdown state.
type DrawdownMetrics struct {
	Current      float64 `json:"current_drawdown"`
	Max          float64 `json:"max_drawdown"`
	Average      float64 `json:"avg_drawdown"`
	DurationDays int     `json:"drawdown_duration"`
}

// TailRiskMetrics holds distribution-shape measures.
type TailRiskMetrics struct {
	Skewness  float64 `json:"skewness"`
	Kurtosis  float64 `json:"kurtosis"`
	TailRatio float64 `json:"tail_ratio"`
}

// SentimentAnalysis holds the sentiment metric bundle.
type SentimentAnalysis struct {
	OverallSentiment *float64             `json:"overall_sentiment,omitempty"` // roughly [-1, 1]
	News             *NewsSentiment       `json:"news_sentiment,omitempty"`
	Filings          *FilingSentiment     `json:"report_sentiment,omitempty"`
	Trends           *SentimentTrendStats `json:"sentiment_trends,omitempty"`
}

// NewsSentiment aggregates per-article polarity.
type NewsSentiment struct {
	AverageScore float64            `json:"average_score"`
	Distribution SentimentBuckets   `json:"sentiment_distribution"`
	BySource     map[string]float64 `json:"source_analysis,omitempty"`
	Articles     []ArticleSentiment `json:"recent_sentiments,omitempty"`
}

// SentimentBuckets counts articles by polarity bucket.
type SentimentBuckets struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// ArticleSentiment is polarity for one headline.
type ArticleSentiment struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"date"`
	Score       float64   `json:"score"`
}

// FilingSentiment is the LLM tone assessment of filing text.
type FilingSentiment struct {
	Score     float64  `json:"sentiment_score"`
	KeyPoints []string `json:"key_points,omitempty"`
}

// SentimentTrendStats describes how sentiment is moving over time.
type SentimentTrendStats struct {
	Trend      string  `json:"trend"` // improving, deteriorating, stable
	Volatility float64 `json:"volatility"`
	Momentum   float64 `json:"momentum"`
}

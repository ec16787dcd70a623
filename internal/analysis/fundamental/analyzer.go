// Package fundamental derives ratio groups from financial statements.
package fundamental

import (
	"github.com/bobmcallan/prism/internal/models"
)

// Analyzer computes fundamental ratios from financial statements.
type Analyzer struct{}

// NewAnalyzer creates a fundamental analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeStatements computes the full fundamental metric bundle.
// Each ratio group is nil when the rows it needs are missing; individual
// ratios are nil when their denominator is zero or the row lacks the line item.
func (a *Analyzer) AnalyzeStatements(st *models.Statements) *models.FundamentalAnalysis {
	analysis := &models.FundamentalAnalysis{}
	if st == nil {
		return analysis
	}

	analysis.Profitability = a.analyzeProfitability(st)
	analysis.Growth = a.analyzeGrowth(st)
	analysis.Liquidity = a.analyzeLiquidity(st)
	analysis.Solvency = a.analyzeSolvency(st)
	analysis.Valuation = a.analyzeValuation(st)
	analysis.CashFlows = a.analyzeCashFlows(st)
	analysis.DuPont = a.dupont(st)

	return analysis
}

// ratio returns numerator/denominator, or nil when the denominator is zero.
func ratio(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	return models.Float(numerator / denominator)
}

// growthRate returns the year-over-year change in percent points, or nil
// when the prior value is zero.
func growthRate(current, prior float64) *float64 {
	if prior == 0 {
		return nil
	}
	return models.Float((current/prior - 1) * 100)
}

func (a *Analyzer) analyzeProfitability(st *models.Statements) *models.ProfitabilityMetrics {
	if len(st.Income) == 0 {
		return nil
	}
	income := st.Income[0]

	p := &models.ProfitabilityMetrics{
		GrossMargin:     ratio(income.GrossProfit, income.TotalRevenue),
		OperatingMargin: ratio(income.OperatingIncome, income.TotalRevenue),
		NetMargin:       ratio(income.NetIncome, income.TotalRevenue),
	}

	if len(st.Balance) > 0 {
		p.ROA = ratio(income.NetIncome, st.Balance[0].TotalAssets)
		p.ROE = ratio(income.NetIncome, st.Balance[0].StockholderEquity)
	}

	return p
}

func (a *Analyzer) analyzeGrowth(st *models.Statements) *models.GrowthMetrics {
	if len(st.Income) < 2 {
		return nil
	}
	current, prior := st.Income[0], st.Income[1]

	return &models.GrowthMetrics{
		RevenueGrowth:   growthRate(current.TotalRevenue, prior.TotalRevenue),
		NetIncomeGrowth: growthRate(current.NetIncome, prior.NetIncome),
		EPSGrowth:       growthRate(current.EPS, prior.EPS),
	}
}

func (a *Analyzer) analyzeLiquidity(st *models.Statements) *models.LiquidityMetrics {
	if len(st.Balance) == 0 {
		return nil
	}
	balance := st.Balance[0]

	return &models.LiquidityMetrics{
		CurrentRatio:   ratio(balance.CurrentAssets, balance.CurrentLiabilities),
		QuickRatio:     ratio(balance.CurrentAssets-balance.Inventory, balance.CurrentLiabilities),
		CashRatio:      ratio(balance.Cash, balance.CurrentLiabilities),
		WorkingCapital: models.Float(balance.CurrentAssets - balance.CurrentLiabilities),
	}
}

func (a *Analyzer) analyzeSolvency(st *models.Statements) *models.SolvencyMetrics {
	if len(st.Balance) == 0 {
		return nil
	}
	balance := st.Balance[0]

	s := &models.SolvencyMetrics{
		DebtToEquity:     ratio(balance.TotalLiabilities, balance.StockholderEquity),
		DebtToAssets:     ratio(balance.TotalLiabilities, balance.TotalAssets),
		EquityMultiplier: ratio(balance.TotalAssets, balance.StockholderEquity),
	}

	if len(st.Income) > 0 {
		s.InterestCoverage = ratio(st.Income[0].OperatingIncome, st.Income[0].InterestExpense)
	}

	return s
}

func (a *Analyzer) analyzeValuation(st *models.Statements) *models.ValuationMetrics {
	info := st.Info
	v := &models.ValuationMetrics{}

	if info.PE != 0 {
		v.PE = models.Float(info.PE)
	}
	if info.ForwardPE != 0 {
		v.ForwardPE = models.Float(info.ForwardPE)
	}
	if info.PEG != 0 {
		v.PEG = models.Float(info.PEG)
	}
	if info.DividendYield != 0 {
		v.DividendYield = models.Float(info.DividendYield * 100)
	}

	if len(st.Balance) > 0 {
		balance := st.Balance[0]
		v.PriceToBook = ratio(info.MarketCap, balance.StockholderEquity)

		if len(st.Income) > 0 {
			// Enterprise value = market cap + total debt - cash
			ev := info.MarketCap + balance.TotalDebt - balance.Cash
			v.EVToEBITDA = ratio(ev, st.Income[0].EBITDA)
		}
	}

	if *v == (models.ValuationMetrics{}) {
		return nil
	}
	return v
}

func (a *Analyzer) analyzeCashFlows(st *models.Statements) *models.CashFlowMetrics {
	if len(st.CashFlow) == 0 {
		return nil
	}
	cf := st.CashFlow[0]
	fcf := cf.OperatingCashFlow - cf.CapitalExpenditure

	metrics := &models.CashFlowMetrics{
		FreeCashFlow: models.Float(fcf),
	}

	if len(st.Income) > 0 {
		metrics.OperatingCFRatio = ratio(cf.OperatingCashFlow, st.Income[0].NetIncome)
		metrics.CapexToRevenue = ratio(cf.CapitalExpenditure, st.Income[0].TotalRevenue)
	}

	if st.Info.MarketCap > 0 {
		metrics.FCFYield = models.Float(fcf / st.Info.MarketCap * 100)
	}

	return metrics
}

// dupont decomposes ROE into margin, turnover, and leverage.
func (a *Analyzer) dupont(st *models.Statements) *models.DuPontMetrics {
	if len(st.Income) == 0 || len(st.Balance) == 0 {
		return nil
	}
	income, balance := st.Income[0], st.Balance[0]

	if income.TotalRevenue == 0 || balance.TotalAssets == 0 || balance.StockholderEquity == 0 {
		return nil
	}

	margin := income.NetIncome / income.TotalRevenue
	turnover := income.TotalRevenue / balance.TotalAssets
	leverage := balance.TotalAssets / balance.StockholderEquity

	return &models.DuPontMetrics{
		NetMargin:     margin,
		AssetTurnover: turnover,
		Leverage:      leverage,
		ROE:           margin * turnover * leverage,
	}
}

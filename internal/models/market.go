// Package models defines data structures for Prism
package models

import (
	"time"
)

// MarketData holds all collected data for a ticker
type MarketData struct {
	Ticker     string      `json:"ticker"`
	Exchange   string      `json:"exchange"`
	Name       string      `json:"name"`
	EOD        []EODBar    `json:"eod"`
	Statements *Statements `json:"statements,omitempty"`
	News       []*NewsItem `json:"news,omitempty"`
	FilingText string      `json:"filing_text,omitempty"`

	// Per-component freshness timestamps
	EODUpdatedAt        time.Time `json:"eod_updated_at"`
	StatementsUpdatedAt time.Time `json:"statements_updated_at"`
	NewsUpdatedAt       time.Time `json:"news_updated_at"`
}

// EODBar represents a single day's price data, most recent first
type EODBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// Statements bundles the financial statements and market info used by the
// fundamental analyzer. Statement rows are ordered most recent first.
type Statements struct {
	Ticker        string          `json:"ticker"`
	Income        []IncomeRow     `json:"income"`
	Balance       []BalanceRow    `json:"balance"`
	CashFlow      []CashFlowRow   `json:"cash_flow"`
	Info          CompanyInfo     `json:"info"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// IncomeRow is one fiscal year of the income statement.
type IncomeRow struct {
	Date            time.Time `json:"date"`
	TotalRevenue    float64   `json:"total_revenue"`
	GrossProfit     float64   `json:"gross_profit"`
	OperatingIncome float64   `json:"operating_income"`
	InterestExpense float64   `json:"interest_expense"`
	NetIncome       float64   `json:"net_income"`
	EBITDA          float64   `json:"ebitda"`
	EPS             float64   `json:"eps"`
}

// BalanceRow is one fiscal year of the balance sheet.
type BalanceRow struct {
	Date               time.Time `json:"date"`
	TotalAssets        float64   `json:"total_assets"`
	TotalLiabilities   float64   `json:"total_liabilities"`
	CurrentAssets      float64   `json:"current_assets"`
	CurrentLiabilities float64   `json:"current_liabilities"`
	Inventory          float64   `json:"inventory"`
	Cash               float64   `json:"cash"`
	TotalDebt          float64   `json:"total_debt"`
	StockholderEquity  float64   `json:"stockholder_equity"`
}

// CashFlowRow is one fiscal year of the cash flow statement.
type CashFlowRow struct {
	Date               time.Time `json:"date"`
	OperatingCashFlow  float64   `json:"operating_cash_flow"`
	CapitalExpenditure float64   `json:"capital_expenditure"`
}

// CompanyInfo holds market-level facts that come with fundamentals.
type CompanyInfo struct {
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	MarketCap     float64 `json:"market_cap"`
	PE            float64 `json:"pe_ratio"`
	ForwardPE     float64 `json:"forward_pe"`
	PEG           float64 `json:"peg_ratio"`
	DividendYield float64 `json:"dividend_yield"`
	Beta          float64 `json:"beta"`
}

// NewsItem represents a news article
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

package eodhd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bobmcallan/prism/internal/models"
)

// fundamentalsResponse mirrors the nested EODHD fundamentals payload.
// Financial line items arrive as strings, hence flexFloat64 throughout.
type fundamentalsResponse struct {
	General struct {
		Name     string `json:"Name"`
		Sector   string `json:"Sector"`
		Industry string `json:"Industry"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization flexFloat64 `json:"MarketCapitalization"`
		PERatio              flexFloat64 `json:"PERatio"`
		DividendYield        flexFloat64 `json:"DividendYield"`
		EarningsShare        flexFloat64 `json:"EarningsShare"`
	} `json:"Highlights"`
	Valuation struct {
		ForwardPE flexFloat64 `json:"ForwardPE"`
		PEGRatio  flexFloat64 `json:"PEGRatio"`
	} `json:"Valuation"`
	Technicals struct {
		Beta flexFloat64 `json:"Beta"`
	} `json:"Technicals"`
	Financials struct {
		IncomeStatement struct {
			Yearly map[string]incomeStatementRow `json:"yearly"`
		} `json:"Income_Statement"`
		BalanceSheet struct {
			Yearly map[string]balanceSheetRow `json:"yearly"`
		} `json:"Balance_Sheet"`
		CashFlow struct {
			Yearly map[string]cashFlowRow `json:"yearly"`
		} `json:"Cash_Flow"`
	} `json:"Financials"`
}

type incomeStatementRow struct {
	Date            string      `json:"date"`
	TotalRevenue    flexFloat64 `json:"totalRevenue"`
	GrossProfit     flexFloat64 `json:"grossProfit"`
	OperatingIncome flexFloat64 `json:"operatingIncome"`
	InterestExpense flexFloat64 `json:"interestExpense"`
	NetIncome       flexFloat64 `json:"netIncome"`
	EBITDA          flexFloat64 `json:"ebitda"`
}

type balanceSheetRow struct {
	Date                    string      `json:"date"`
	TotalAssets             flexFloat64 `json:"totalAssets"`
	TotalLiab               flexFloat64 `json:"totalLiab"`
	TotalCurrentAssets      flexFloat64 `json:"totalCurrentAssets"`
	TotalCurrentLiabilities flexFloat64 `json:"totalCurrentLiabilities"`
	Inventory               flexFloat64 `json:"inventory"`
	Cash                    flexFloat64 `json:"cash"`
	ShortLongTermDebtTotal  flexFloat64 `json:"shortLongTermDebtTotal"`
	TotalStockholderEquity  flexFloat64 `json:"totalStockholderEquity"`
}

type cashFlowRow struct {
	DateStr                          string      `json:"date"`
	TotalCashFromOperatingActivities flexFloat64 `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures              flexFloat64 `json:"capitalExpenditures"`
}

// GetStatements retrieves fundamentals and maps them to financial statements,
// rows ordered most recent first.
func (c *Client) GetStatements(ctx context.Context, ticker string) (*models.Statements, error) {
	path := fmt.Sprintf("/fundamentals/%s", ticker)

	var resp fundamentalsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	st := &models.Statements{
		Ticker: ticker,
		Info: models.CompanyInfo{
			Name:          resp.General.Name,
			Sector:        resp.General.Sector,
			Industry:      resp.General.Industry,
			MarketCap:     float64(resp.Highlights.MarketCapitalization),
			PE:            float64(resp.Highlights.PERatio),
			ForwardPE:     float64(resp.Valuation.ForwardPE),
			PEG:           float64(resp.Valuation.PEGRatio),
			DividendYield: float64(resp.Highlights.DividendYield),
			Beta:          float64(resp.Technicals.Beta),
		},
		LastUpdated: time.Now(),
	}

	eps := float64(resp.Highlights.EarningsShare)

	for _, row := range resp.Financials.IncomeStatement.Yearly {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		st.Income = append(st.Income, models.IncomeRow{
			Date:            date,
			TotalRevenue:    float64(row.TotalRevenue),
			GrossProfit:     float64(row.GrossProfit),
			OperatingIncome: float64(row.OperatingIncome),
			InterestExpense: float64(row.InterestExpense),
			NetIncome:       float64(row.NetIncome),
			EBITDA:          float64(row.EBITDA),
		})
	}
	sort.Slice(st.Income, func(i, j int) bool { return st.Income[i].Date.After(st.Income[j].Date) })

	// EPS is only reported for the trailing period; derive history from
	// net income ratios where possible
	if len(st.Income) > 0 && eps != 0 {
		st.Income[0].EPS = eps
		base := st.Income[0].NetIncome
		for i := 1; i < len(st.Income) && base != 0; i++ {
			st.Income[i].EPS = eps * st.Income[i].NetIncome / base
		}
	}

	for _, row := range resp.Financials.BalanceSheet.Yearly {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		st.Balance = append(st.Balance, models.BalanceRow{
			Date:               date,
			TotalAssets:        float64(row.TotalAssets),
			TotalLiabilities:   float64(row.TotalLiab),
			CurrentAssets:      float64(row.TotalCurrentAssets),
			CurrentLiabilities: float64(row.TotalCurrentLiabilities),
			Inventory:          float64(row.Inventory),
			Cash:               float64(row.Cash),
			TotalDebt:          float64(row.ShortLongTermDebtTotal),
			StockholderEquity:  float64(row.TotalStockholderEquity),
		})
	}
	sort.Slice(st.Balance, func(i, j int) bool { return st.Balance[i].Date.After(st.Balance[j].Date) })

	for _, row := range resp.Financials.CashFlow.Yearly {
		date, err := time.Parse("2006-01-02", row.DateStr)
		if err != nil {
			continue
		}
		st.CashFlow = append(st.CashFlow, models.CashFlowRow{
			Date:               date,
			OperatingCashFlow:  float64(row.TotalCashFromOperatingActivities),
			CapitalExpenditure: float64(row.CapitalExpenditures),
		})
	}
	sort.Slice(st.CashFlow, func(i, j int) bool { return st.CashFlow[i].Date.After(st.CashFlow[j].Date) })

	return st, nil
}

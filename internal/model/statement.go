package model

import (
	"sort"

	"github.com/rotisserie/eris"
)

// FinancialStatement is one period's set of statements.
type FinancialStatement struct {
	Year              int               `json:"year" yaml:"year" validate:"gt=1900"`
	BalanceSheet      BalanceSheet      `json:"balanceSheet" yaml:"balanceSheet"`
	IncomeStatement   IncomeStatement   `json:"incomeStatement" yaml:"incomeStatement"`
	CashFlowStatement CashFlowStatement `json:"cashFlowStatement" yaml:"cashFlowStatement"`
}

// BalanceSheet holds the statement of financial position.
type BalanceSheet struct {
	CurrentAssets             CurrentAssets         `json:"currentAssets" yaml:"currentAssets"`
	NonCurrentAssets          NonCurrentAssets      `json:"nonCurrentAssets" yaml:"nonCurrentAssets"`
	TotalAssets               float64               `json:"totalAssets" yaml:"totalAssets"`
	CurrentLiabilities        CurrentLiabilities    `json:"currentLiabilities" yaml:"currentLiabilities"`
	NonCurrentLiabilities     NonCurrentLiabilities `json:"nonCurrentLiabilities" yaml:"nonCurrentLiabilities"`
	TotalLiabilities          float64               `json:"totalLiabilities" yaml:"totalLiabilities"`
	ShareholdersEquity        ShareholdersEquity    `json:"shareholdersEquity" yaml:"shareholdersEquity"`
	TotalLiabilitiesAndEquity float64               `json:"totalLiabilitiesAndEquity" yaml:"totalLiabilitiesAndEquity"`
}

type CurrentAssets struct {
	Cash                 float64 `json:"cash" yaml:"cash"`
	MarketableSecurities float64 `json:"marketableSecurities" yaml:"marketableSecurities"`
	AccountsReceivable   float64 `json:"accountsReceivable" yaml:"accountsReceivable"`
	Inventory            float64 `json:"inventory" yaml:"inventory"`
	PrepaidExpenses      float64 `json:"prepaidExpenses" yaml:"prepaidExpenses"`
	OtherCurrentAssets   float64 `json:"otherCurrentAssets" yaml:"otherCurrentAssets"`
	TotalCurrentAssets   float64 `json:"totalCurrentAssets" yaml:"totalCurrentAssets"`
}

type NonCurrentAssets struct {
	PropertyPlantEquipment  float64 `json:"propertyPlantEquipment" yaml:"propertyPlantEquipment"`
	AccumulatedDepreciation float64 `json:"accumulatedDepreciation" yaml:"accumulatedDepreciation"`
	NetPPE                  float64 `json:"netPPE" yaml:"netPPE"`
	IntangibleAssets        float64 `json:"intangibleAssets" yaml:"intangibleAssets"`
	Goodwill                float64 `json:"goodwill" yaml:"goodwill"`
	LongTermInvestments     float64 `json:"longTermInvestments" yaml:"longTermInvestments"`
	OtherNonCurrentAssets   float64 `json:"otherNonCurrentAssets" yaml:"otherNonCurrentAssets"`
	TotalNonCurrentAssets   float64 `json:"totalNonCurrentAssets" yaml:"totalNonCurrentAssets"`
}

type CurrentLiabilities struct {
	AccountsPayable            float64 `json:"accountsPayable" yaml:"accountsPayable"`
	ShortTermDebt              float64 `json:"shortTermDebt" yaml:"shortTermDebt"`
	CurrentPortionLongTermDebt float64 `json:"currentPortionLongTermDebt" yaml:"currentPortionLongTermDebt"`
	AccruedExpenses            float64 `json:"accruedExpenses" yaml:"accruedExpenses"`
	DeferredRevenue            float64 `json:"deferredRevenue" yaml:"deferredRevenue"`
	OtherCurrentLiabilities    float64 `json:"otherCurrentLiabilities" yaml:"otherCurrentLiabilities"`
	TotalCurrentLiabilities    float64 `json:"totalCurrentLiabilities" yaml:"totalCurrentLiabilities"`
}

type NonCurrentLiabilities struct {
	LongTermDebt               float64 `json:"longTermDebt" yaml:"longTermDebt"`
	DeferredTaxLiabilities     float64 `json:"deferredTaxLiabilities" yaml:"deferredTaxLiabilities"`
	OtherNonCurrentLiabilities float64 `json:"otherNonCurrentLiabilities" yaml:"otherNonCurrentLiabilities"`
	TotalNonCurrentLiabilities float64 `json:"totalNonCurrentLiabilities" yaml:"totalNonCurrentLiabilities"`
}

type ShareholdersEquity struct {
	CommonStock                         float64 `json:"commonStock" yaml:"commonStock"`
	PreferredStock                      float64 `json:"preferredStock" yaml:"preferredStock"`
	AdditionalPaidInCapital             float64 `json:"additionalPaidInCapital" yaml:"additionalPaidInCapital"`
	RetainedEarnings                    float64 `json:"retainedEarnings" yaml:"retainedEarnings"`
	TreasuryStock                       float64 `json:"treasuryStock" yaml:"treasuryStock"`
	AccumulatedOtherComprehensiveIncome float64 `json:"accumulatedOtherComprehensiveIncome" yaml:"accumulatedOtherComprehensiveIncome"`
	TotalShareholdersEquity             float64 `json:"totalShareholdersEquity" yaml:"totalShareholdersEquity"`
}

// IncomeStatement holds one period's results of operations.
type IncomeStatement struct {
	Revenue            float64            `json:"revenue" yaml:"revenue"`
	CostOfGoodsSold    float64            `json:"costOfGoodsSold" yaml:"costOfGoodsSold"`
	GrossProfit        float64            `json:"grossProfit" yaml:"grossProfit"`
	OperatingExpenses  OperatingExpenses  `json:"operatingExpenses" yaml:"operatingExpenses"`
	OperatingIncome    float64            `json:"operatingIncome" yaml:"operatingIncome"`
	OtherIncomeExpense OtherIncomeExpense `json:"otherIncomeExpense" yaml:"otherIncomeExpense"`
	IncomeBeforeTax    float64            `json:"incomeBeforeTax" yaml:"incomeBeforeTax"`
	IncomeTaxExpense   float64            `json:"incomeTaxExpense" yaml:"incomeTaxExpense"`
	NetIncome          float64            `json:"netIncome" yaml:"netIncome"`
	EarningsPerShare   float64            `json:"earningsPerShare" yaml:"earningsPerShare"`
	DilutedEPS         float64            `json:"dilutedEPS" yaml:"dilutedEPS"`
	SharesOutstanding  float64            `json:"sharesOutstanding" yaml:"sharesOutstanding"`
}

type OperatingExpenses struct {
	SellingGeneralAdministrative float64 `json:"sellingGeneralAdministrative" yaml:"sellingGeneralAdministrative"`
	ResearchDevelopment          float64 `json:"researchDevelopment" yaml:"researchDevelopment"`
	Depreciation                 float64 `json:"depreciation" yaml:"depreciation"`
	Amortization                 float64 `json:"amortization" yaml:"amortization"`
	OtherOperatingExpenses       float64 `json:"otherOperatingExpenses" yaml:"otherOperatingExpenses"`
	TotalOperatingExpenses       float64 `json:"totalOperatingExpenses" yaml:"totalOperatingExpenses"`
}

type OtherIncomeExpense struct {
	InterestIncome          float64 `json:"interestIncome" yaml:"interestIncome"`
	InterestExpense         float64 `json:"interestExpense" yaml:"interestExpense"`
	OtherIncome             float64 `json:"otherIncome" yaml:"otherIncome"`
	OtherExpense            float64 `json:"otherExpense" yaml:"otherExpense"`
	TotalOtherIncomeExpense float64 `json:"totalOtherIncomeExpense" yaml:"totalOtherIncomeExpense"`
}

// CashFlowStatement holds one period's cash movements.
type CashFlowStatement struct {
	OperatingActivities OperatingActivities `json:"operatingActivities" yaml:"operatingActivities"`
	InvestingActivities InvestingActivities `json:"investingActivities" yaml:"investingActivities"`
	FinancingActivities FinancingActivities `json:"financingActivities" yaml:"financingActivities"`
	NetChangeInCash     float64             `json:"netChangeInCash" yaml:"netChangeInCash"`
	CashBeginningPeriod float64             `json:"cashBeginningPeriod" yaml:"cashBeginningPeriod"`
	CashEndPeriod       float64             `json:"cashEndPeriod" yaml:"cashEndPeriod"`
}

type OperatingActivities struct {
	NetIncome              float64                `json:"netIncome" yaml:"netIncome"`
	Depreciation           float64                `json:"depreciation" yaml:"depreciation"`
	Amortization           float64                `json:"amortization" yaml:"amortization"`
	StockBasedCompensation float64                `json:"stockBasedCompensation" yaml:"stockBasedCompensation"`
	ChangeInWorkingCapital ChangeInWorkingCapital `json:"changeInWorkingCapital" yaml:"changeInWorkingCapital"`
	OtherOperating         float64                `json:"otherOperatingActivities" yaml:"otherOperatingActivities"`
	NetCashFromOperating   float64                `json:"netCashFromOperating" yaml:"netCashFromOperating"`
}

type ChangeInWorkingCapital struct {
	AccountsReceivable float64 `json:"accountsReceivable" yaml:"accountsReceivable"`
	Inventory          float64 `json:"inventory" yaml:"inventory"`
	AccountsPayable    float64 `json:"accountsPayable" yaml:"accountsPayable"`
	Other              float64 `json:"other" yaml:"other"`
}

type InvestingActivities struct {
	CapitalExpenditures  float64 `json:"capitalExpenditures" yaml:"capitalExpenditures"`
	Acquisitions         float64 `json:"acquisitions" yaml:"acquisitions"`
	InvestmentPurchases  float64 `json:"investmentPurchases" yaml:"investmentPurchases"`
	InvestmentSales      float64 `json:"investmentSales" yaml:"investmentSales"`
	OtherInvesting       float64 `json:"otherInvestingActivities" yaml:"otherInvestingActivities"`
	NetCashFromInvesting float64 `json:"netCashFromInvesting" yaml:"netCashFromInvesting"`
}

type FinancingActivities struct {
	DebtIssuance         float64 `json:"debtIssuance" yaml:"debtIssuance"`
	DebtRepayment        float64 `json:"debtRepayment" yaml:"debtRepayment"`
	StockIssuance        float64 `json:"stockIssuance" yaml:"stockIssuance"`
	StockRepurchase      float64 `json:"stockRepurchase" yaml:"stockRepurchase"`
	DividendsPaid        float64 `json:"dividendsPaid" yaml:"dividendsPaid"`
	OtherFinancing       float64 `json:"otherFinancingActivities" yaml:"otherFinancingActivities"`
	NetCashFromFinancing float64 `json:"netCashFromFinancing" yaml:"netCashFromFinancing"`
}

// SortStatements orders statements oldest to newest in place.
func SortStatements(stmts []FinancialStatement) {
	sort.SliceStable(stmts, func(i, j int) bool { return stmts[i].Year < stmts[j].Year })
}

// ValidateStatements checks that a run has at least one period and no
// repeated years.
func ValidateStatements(stmts []FinancialStatement) error {
	if len(stmts) == 0 {
		return eris.New("model: at least one financial statement is required")
	}
	seen := make(map[int]bool, len(stmts))
	for i, s := range stmts {
		if err := validate.Struct(s); err != nil {
			return eris.Wrapf(err, "model: invalid statement at index %d", i)
		}
		if seen[s.Year] {
			return eris.Errorf("model: duplicate statement year %d", s.Year)
		}
		seen[s.Year] = true
	}
	return nil
}

// Latest returns the newest statement. It panics on an empty slice; callers
// validate length first.
func Latest(stmts []FinancialStatement) FinancialStatement {
	return stmts[len(stmts)-1]
}

// TotalDebt is interest-bearing debt: short-term, current portion and long-term.
func (b BalanceSheet) TotalDebt() float64 {
	return b.CurrentLiabilities.ShortTermDebt + b.CurrentLiabilities.CurrentPortionLongTermDebt + b.NonCurrentLiabilities.LongTermDebt
}

// WorkingCapital is current assets less current liabilities.
func (b BalanceSheet) WorkingCapital() float64 {
	return b.CurrentAssets.TotalCurrentAssets - b.CurrentLiabilities.TotalCurrentLiabilities
}

// FreeCashFlow is operating cash flow less capital expenditures. Capex is
// reported either signed negative or as a positive outflow; both are handled.
func (c CashFlowStatement) FreeCashFlow() float64 {
	capex := c.InvestingActivities.CapitalExpenditures
	if capex > 0 {
		capex = -capex
	}
	return c.OperatingActivities.NetCashFromOperating + capex
}

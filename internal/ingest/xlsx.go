package ingest

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/finanalysis/internal/model"
)

type sheetKind int

const (
	sheetUnknown sheetKind = iota
	sheetCompany
	sheetBalance
	sheetIncome
	sheetCashFlow
)

var sheetHints = []struct {
	kind  sheetKind
	hints []string
}{
	{sheetCompany, []string{"company", "الشركة"}},
	{sheetBalance, []string{"balance", "financial position", "مركز", "الميزانية"}},
	{sheetIncome, []string{"income", "profit", "دخل", "الأرباح"}},
	{sheetCashFlow, []string{"cash", "تدفق"}},
}

func classifySheet(name string) sheetKind {
	n := strings.ToLower(name)
	for _, h := range sheetHints {
		for _, hint := range h.hints {
			if strings.Contains(n, hint) {
				return h.kind
			}
		}
	}
	return sheetUnknown
}

var (
	balanceIndex  = buildIndex(reflect.TypeOf(model.BalanceSheet{}), balanceAliases)
	incomeIndex   = buildIndex(reflect.TypeOf(model.IncomeStatement{}), incomeAliases)
	cashFlowIndex = buildIndex(reflect.TypeOf(model.CashFlowStatement{}), cashFlowAliases)
)

// ReadWorkbook parses an XLSX workbook. Statement sheets are recognised by
// name: column A holds the line item and the header row holds the years.
// An optional "Company" sheet holds key/value rows. The result is not
// validated.
func ReadWorkbook(data []byte) (*Document, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open workbook")
	}

	byYear := map[int]*model.FinancialStatement{}
	var order []int
	period := func(year int) *model.FinancialStatement {
		s, ok := byYear[year]
		if !ok {
			s = &model.FinancialStatement{Year: year}
			byYear[year] = s
			order = append(order, year)
		}
		return s
	}

	doc := &Document{}
	found := false
	for _, sheet := range f.Sheets {
		rows := sheetRows(sheet)
		switch kind := classifySheet(sheet.Name); kind {
		case sheetCompany:
			doc.Company = readCompany(rows)
		case sheetBalance, sheetIncome, sheetCashFlow:
			found = true
			if err := readStatementSheet(sheet.Name, kind, rows, period); err != nil {
				return nil, err
			}
		default:
			zap.L().Debug("ingest: skipping sheet", zap.String("sheet", sheet.Name))
		}
	}
	if !found {
		return nil, eris.New("ingest: workbook has no balance, income or cash flow sheet")
	}

	for _, y := range order {
		doc.Statements = append(doc.Statements, *byYear[y])
	}
	return doc, nil
}

func sheetRows(sheet *xlsx.Sheet) [][]string {
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		rows = append(rows, cells)
	}
	return rows
}

func readStatementSheet(name string, kind sheetKind, rows [][]string, period func(int) *model.FinancialStatement) error {
	if len(rows) == 0 {
		return nil
	}
	years := make([]int, len(rows[0]))
	for j := 1; j < len(rows[0]); j++ {
		y, err := strconv.Atoi(strings.TrimSpace(rows[0][j]))
		if err != nil {
			return eris.Errorf("ingest: sheet %q column %d header %q is not a year", name, j+1, rows[0][j])
		}
		years[j] = y
	}

	for i, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		for j := 1; j < len(row) && j < len(years); j++ {
			if row[j] == "" {
				continue
			}
			v, err := parseAmount(row[j])
			if err != nil {
				return eris.Wrapf(err, "ingest: sheet %q row %d (%s)", name, i+2, row[0])
			}
			s := period(years[j])
			var ok bool
			switch kind {
			case sheetBalance:
				ok = balanceIndex.set(&s.BalanceSheet, row[0], v)
			case sheetIncome:
				ok = incomeIndex.set(&s.IncomeStatement, row[0], v)
			case sheetCashFlow:
				ok = cashFlowIndex.set(&s.CashFlowStatement, row[0], v)
			}
			if !ok {
				zap.L().Debug("ingest: unknown line item", zap.String("sheet", name), zap.String("label", row[0]))
				break
			}
		}
	}
	return nil
}

// parseAmount accepts thousands separators, a trailing percent sign and
// accounting negatives in parentheses.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	if neg {
		s = s[1 : len(s)-1]
	}
	pct := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer(",", "", " ", "", "٬", "").Replace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Errorf("ingest: %q is not a number", s)
	}
	if pct {
		v /= 100
	}
	if neg {
		v = -v
	}
	return v, nil
}

func readCompany(rows [][]string) model.Company {
	var c model.Company
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		v := row[1]
		switch normLabel(row[0]) {
		case "id":
			c.ID = v
		case "name", "الاسم", "اسمالشركة":
			c.Name = v
		case "nameen":
			c.NameEn = v
		case "sector", "القطاع":
			c.Sector = v
		case "activity", "النشاط":
			c.Activity = v
		case "legalentity", "الكيانالقانوني":
			c.LegalEntity = v
		case "country", "الدولة":
			c.Country = v
		case "comparisonlevel", "مستوىالمقارنة":
			c.ComparisonLevel = model.ComparisonLevel(v)
		case "analysistier", "tier":
			c.AnalysisTier = model.Tier(v)
		case "yearstoanalyze":
			c.YearsToAnalyze, _ = strconv.Atoi(v)
		case "language", "اللغة":
			c.Language = model.ParseLanguage(v)
		}
	}
	return c
}

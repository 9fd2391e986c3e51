package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/finanalysis/internal/model"
)

type sheetSpec struct {
	name string
	rows [][]string
}

func workbook(t *testing.T, sheets ...sheetSpec) []byte {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, v := range rowData {
				row.AddCell().SetString(v)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	data := workbook(t,
		sheetSpec{"Company", [][]string{
			{"Name", "Gulf Cement"},
			{"Sector", "industrial"},
			{"Comparison level", "gcc"},
			{"Language", "en-US"},
		}},
		sheetSpec{"Balance Sheet", [][]string{
			{"Item", "2023", "2024"},
			{"Cash", "100", "150"},
			{"currentAssets.totalCurrentAssets", "400", "450"},
			{"Total assets", "1,000", "1,200"},
			{"Unknown item", "1", "2"},
		}},
		sheetSpec{"قائمة الدخل", [][]string{
			{"البند", "2023", "2024"},
			{"الإيرادات", "800", "900"},
			{"صافي الدخل", "(20)", "90"},
		}},
		sheetSpec{"Cash Flow", [][]string{
			{"Item", "2024"},
			{"Capex", "-50"},
			{"netCashFromOperating", "120"},
		}},
		sheetSpec{"Notes", [][]string{{"anything"}}},
	)

	doc, err := ReadWorkbook(data)
	require.NoError(t, err)

	assert.Equal(t, "Gulf Cement", doc.Company.Name)
	assert.Equal(t, model.ComparisonGCC, doc.Company.ComparisonLevel)
	assert.Equal(t, model.LanguageEnglish, doc.Company.Language)

	require.Len(t, doc.Statements, 2)
	s23, s24 := doc.Statements[0], doc.Statements[1]
	assert.Equal(t, 2023, s23.Year)
	assert.Equal(t, 100.0, s23.BalanceSheet.CurrentAssets.Cash)
	assert.Equal(t, 450.0, s24.BalanceSheet.CurrentAssets.TotalCurrentAssets)
	assert.Equal(t, 1200.0, s24.BalanceSheet.TotalAssets)
	assert.Equal(t, -20.0, s23.IncomeStatement.NetIncome)
	assert.Equal(t, 900.0, s24.IncomeStatement.Revenue)
	assert.Equal(t, -50.0, s24.CashFlowStatement.InvestingActivities.CapitalExpenditures)
	assert.Equal(t, 120.0, s24.CashFlowStatement.OperatingActivities.NetCashFromOperating)

	require.NoError(t, doc.Validate())
}

func TestReadWorkbook_NoStatementSheets(t *testing.T) {
	_, err := ReadWorkbook(workbook(t, sheetSpec{"Notes", [][]string{{"x"}}}))
	assert.ErrorContains(t, err, "no balance")
}

func TestReadWorkbook_BadYearHeader(t *testing.T) {
	_, err := ReadWorkbook(workbook(t, sheetSpec{"Income", [][]string{{"Item", "FY24"}}}))
	assert.ErrorContains(t, err, "is not a year")
}

func TestReadWorkbook_BadAmount(t *testing.T) {
	_, err := ReadWorkbook(workbook(t, sheetSpec{"Income", [][]string{{"Item", "2024"}, {"Revenue", "n/a"}}}))
	assert.ErrorContains(t, err, "Revenue")
}

func TestReadWorkbook_Garbage(t *testing.T) {
	_, err := ReadWorkbook([]byte("not a zip"))
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := map[string]float64{
		"1,234.5": 1234.5,
		"(300)":   -300,
		"-7":      -7,
		"12.5%":   0.125,
		" 42 ":    42,
	}
	for in, want := range tests {
		got, err := parseAmount(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
}

func TestClassifySheet(t *testing.T) {
	assert.Equal(t, sheetBalance, classifySheet("Statement of Financial Position"))
	assert.Equal(t, sheetBalance, classifySheet("قائمة المركز المالي"))
	assert.Equal(t, sheetIncome, classifySheet("Income Statement"))
	assert.Equal(t, sheetCashFlow, classifySheet("التدفقات النقدية"))
	assert.Equal(t, sheetCompany, classifySheet("company info"))
	assert.Equal(t, sheetUnknown, classifySheet("Notes"))
}

func TestFieldIndex_LeafAndPath(t *testing.T) {
	var bs model.BalanceSheet
	assert.True(t, balanceIndex.set(&bs, "Inventory", 5))
	assert.True(t, balanceIndex.set(&bs, "nonCurrentLiabilities.longTermDebt", 9))
	assert.True(t, balanceIndex.set(&bs, "إجمالي حقوق الملكية", 11))
	assert.False(t, balanceIndex.set(&bs, "revenue", 1))

	assert.Equal(t, 5.0, bs.CurrentAssets.Inventory)
	assert.Equal(t, 9.0, bs.NonCurrentLiabilities.LongTermDebt)
	assert.Equal(t, 11.0, bs.ShareholdersEquity.TotalShareholdersEquity)
}

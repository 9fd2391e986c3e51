package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
)

const sampleJSON = `{
  "company": {"name": "Gulf Cement", "sector": "industrial", "activity": "cement", "comparisonLevel": "gcc", "analysisTier": "basic"},
  "statements": [
    {"year": 2024, "balanceSheet": {"totalAssets": 1200}, "incomeStatement": {"revenue": 900, "netIncome": 90}},
    {"year": 2023, "balanceSheet": {"totalAssets": 1000}, "incomeStatement": {"revenue": 800, "netIncome": 70}}
  ]
}`

const sampleYAML = `
company:
  name: شركة الخليج
  sector: retail
  language: en
statements:
  - year: 2022
    incomeStatement:
      revenue: 500
      netIncome: 40
`

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json": FormatJSON, "b.YAML": FormatYAML, "c.yml": FormatYAML, "d.xlsx": FormatXLSX,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("report.pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecode_JSONSortsStatements(t *testing.T) {
	doc, err := Decode([]byte(sampleJSON), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "Gulf Cement", doc.Company.Name)
	assert.Equal(t, model.ComparisonGCC, doc.Company.ComparisonLevel)
	require.Len(t, doc.Statements, 2)
	assert.Equal(t, 2023, doc.Statements[0].Year)
	assert.Equal(t, 900.0, doc.Statements[1].IncomeStatement.Revenue)
}

func TestDecode_JSONUnknownField(t *testing.T) {
	_, err := Decode([]byte(`{"company": {"name": "x", "sector": "y"}, "statments": []}`), FormatJSON)
	require.Error(t, err)
}

func TestDecode_YAML(t *testing.T) {
	doc, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, model.LanguageEnglish, doc.Company.Language)
	assert.Equal(t, 40.0, doc.Statements[0].IncomeStatement.NetIncome)
}

func TestDecode_Validation(t *testing.T) {
	tests := map[string]string{
		"no statements":   `{"company": {"name": "x", "sector": "y"}, "statements": []}`,
		"missing sector":  `{"company": {"name": "x"}, "statements": [{"year": 2020}]}`,
		"duplicate years": `{"company": {"name": "x", "sector": "y"}, "statements": [{"year": 2020}, {"year": 2020}]}`,
		"bad level":       `{"company": {"name": "x", "sector": "y", "comparisonLevel": "mars"}, "statements": [{"year": 2020}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(in), FormatJSON)
			assert.Error(t, err)
		})
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode([]byte("x"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "company.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "retail", doc.Company.Sector)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

package ingest

import (
	"reflect"
	"strings"
	"unicode"
)

// fieldIndex maps normalised row labels of one statement sheet to the
// float64 fields of the statement struct. Labels match either the leaf json
// name ("cash"), the dotted path ("currentAssets.cash") or an alias.
type fieldIndex map[string][]int

func normLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func buildIndex(t reflect.Type, aliases map[string]string) fieldIndex {
	idx := fieldIndex{}
	var walk func(t reflect.Type, prefix string, path []int)
	walk = func(t reflect.Type, prefix string, path []int) {
		for i := range t.NumField() {
			f := t.Field(i)
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			p := append(append([]int(nil), path...), i)
			switch f.Type.Kind() {
			case reflect.Struct:
				walk(f.Type, prefix+name+".", p)
			case reflect.Float64:
				idx[normLabel(prefix+name)] = p
				if _, dup := idx[normLabel(name)]; !dup {
					idx[normLabel(name)] = p
				}
			}
		}
	}
	walk(t, "", nil)
	for alias, target := range aliases {
		if p, ok := idx[normLabel(target)]; ok {
			idx[normLabel(alias)] = p
		}
	}
	return idx
}

// set stores v at the field named by label and reports whether the label
// was known. dst must be a pointer to the indexed struct.
func (idx fieldIndex) set(dst any, label string, v float64) bool {
	p, ok := idx[normLabel(label)]
	if !ok {
		return false
	}
	reflect.ValueOf(dst).Elem().FieldByIndex(p).SetFloat(v)
	return true
}

var balanceAliases = map[string]string{
	"Cash and cash equivalents":   "currentAssets.cash",
	"النقدية":                     "currentAssets.cash",
	"النقد وما في حكمه":           "currentAssets.cash",
	"Receivables":                 "currentAssets.accountsReceivable",
	"الذمم المدينة":               "currentAssets.accountsReceivable",
	"المخزون":                     "currentAssets.inventory",
	"Current assets":              "currentAssets.totalCurrentAssets",
	"إجمالي الأصول المتداولة":     "currentAssets.totalCurrentAssets",
	"PP&E":                        "nonCurrentAssets.netPPE",
	"صافي الأصول الثابتة":         "nonCurrentAssets.netPPE",
	"Total non-current assets":    "nonCurrentAssets.totalNonCurrentAssets",
	"إجمالي الأصول غير المتداولة": "nonCurrentAssets.totalNonCurrentAssets",
	"إجمالي الأصول":               "totalAssets",
	"Payables":                    "currentLiabilities.accountsPayable",
	"الذمم الدائنة":               "currentLiabilities.accountsPayable",
	"Current liabilities":         "currentLiabilities.totalCurrentLiabilities",
	"إجمالي الخصوم المتداولة":     "currentLiabilities.totalCurrentLiabilities",
	"القروض طويلة الأجل":          "nonCurrentLiabilities.longTermDebt",
	"إجمالي الخصوم":               "totalLiabilities",
	"Total equity":                "shareholdersEquity.totalShareholdersEquity",
	"إجمالي حقوق الملكية":         "shareholdersEquity.totalShareholdersEquity",
	"الأرباح المحتجزة":            "shareholdersEquity.retainedEarnings",
	"إجمالي الخصوم وحقوق الملكية": "totalLiabilitiesAndEquity",
}

var incomeAliases = map[string]string{
	"Sales":               "revenue",
	"الإيرادات":           "revenue",
	"المبيعات":            "revenue",
	"COGS":                "costOfGoodsSold",
	"تكلفة المبيعات":      "costOfGoodsSold",
	"مجمل الربح":          "grossProfit",
	"Operating expenses":  "operatingExpenses.totalOperatingExpenses",
	"المصروفات التشغيلية": "operatingExpenses.totalOperatingExpenses",
	"EBIT":                "operatingIncome",
	"الدخل التشغيلي":      "operatingIncome",
	"Interest expense":    "otherIncomeExpense.interestExpense",
	"مصروف الفوائد":       "otherIncomeExpense.interestExpense",
	"الدخل قبل الضريبة":   "incomeBeforeTax",
	"الضريبة":             "incomeTaxExpense",
	"Net profit":          "netIncome",
	"صافي الدخل":          "netIncome",
	"صافي الربح":          "netIncome",
	"EPS":                 "earningsPerShare",
	"ربحية السهم":         "earningsPerShare",
	"عدد الأسهم":          "sharesOutstanding",
}

var cashFlowAliases = map[string]string{
	"Operating cash flow":     "operatingActivities.netCashFromOperating",
	"صافي النقد من التشغيل":   "operatingActivities.netCashFromOperating",
	"Capex":                   "investingActivities.capitalExpenditures",
	"النفقات الرأسمالية":      "investingActivities.capitalExpenditures",
	"صافي النقد من الاستثمار": "investingActivities.netCashFromInvesting",
	"Dividends":               "financingActivities.dividendsPaid",
	"توزيعات الأرباح":         "financingActivities.dividendsPaid",
	"صافي النقد من التمويل":   "financingActivities.netCashFromFinancing",
	"صافي التغير في النقد":    "netChangeInCash",
}

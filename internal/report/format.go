// Package report renders analysis runs for terminals and exports them as
// XLSX workbooks.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/finanalysis/internal/model"
)

// maxCellText bounds rendered composite results.
const maxCellText = 120

// Formatter renders values for one language. Arabic output uses the
// locale's digits and separators.
type Formatter struct {
	lang model.Language
	p    *message.Printer
}

// NewFormatter creates a Formatter for lang.
func NewFormatter(lang model.Language) Formatter {
	tag := language.Arabic
	if lang == model.LanguageEnglish {
		tag = language.English
	}
	return Formatter{lang: lang, p: message.NewPrinter(tag)}
}

// Number formats v with up to two decimals and grouping.
func (f Formatter) Number(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return f.NA()
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return f.p.Sprintf("%d", int64(v))
	}
	return f.p.Sprintf("%.2f", v)
}

// Percent formats a fraction as a percentage.
func (f Formatter) Percent(v float64) string {
	return f.p.Sprintf("%.1f%%", v*100)
}

// NA is the not-available marker.
func (f Formatter) NA() string {
	if f.lang == model.LanguageEnglish {
		return "N/A"
	}
	return "غير متوفر"
}

// Value renders an opaque analysis payload: scalars directly, small maps as
// sorted key=value pairs, everything else as truncated JSON.
func (f Formatter) Value(v any) string {
	switch x := v.(type) {
	case nil:
		return f.NA()
	case float64:
		return f.Number(x)
	case float32:
		return f.Number(float64(x))
	case int:
		return f.Number(float64(x))
	case int64:
		return f.Number(float64(x))
	case string:
		return truncate(x)
	case map[string]float64:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + f.Number(x[k])
		}
		return truncate(strings.Join(parts, ", "))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return truncate(fmt.Sprint(v))
	}
	return truncate(string(b))
}

// Rating returns the localised rating label.
func (f Formatter) Rating(r model.Rating) string {
	if f.lang == model.LanguageEnglish {
		return ratingEn[r]
	}
	return ratingAr[r]
}

var ratingAr = map[model.Rating]string{
	model.RatingExcellent:  "ممتاز",
	model.RatingVeryGood:   "جيد جداً",
	model.RatingGood:       "جيد",
	model.RatingAcceptable: "مقبول",
	model.RatingWeak:       "ضعيف",
}

var ratingEn = map[model.Rating]string{
	model.RatingExcellent:  "Excellent",
	model.RatingVeryGood:   "Very good",
	model.RatingGood:       "Good",
	model.RatingAcceptable: "Acceptable",
	model.RatingWeak:       "Weak",
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellText {
		return s
	}
	return string(r[:maxCellText-1]) + "…"
}

// Package summary builds the executive summary of a completed run from its
// analysis results.
package summary

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"

	"github.com/sells-group/finanalysis/internal/model"
)

// ErrAggregation is returned when the results cannot be summarised.
var ErrAggregation = eris.New("summary: aggregation failed")

// MaxTableRows bounds the summary table.
const MaxTableRows = 20

// Aggregator produces executive summaries. Now supplies the analysis date
// and defaults to time.Now.
type Aggregator struct {
	Now func() time.Time
}

// Summarize is a convenience wrapper around a zero Aggregator.
func Summarize(results []model.AnalysisResult, company model.Company) (*model.ExecutiveSummary, error) {
	return Aggregator{}.Summarize(results, company)
}

// Summarize aggregates results into an executive summary. The output
// depends only on the inputs and the injected clock.
func (a Aggregator) Summarize(results []model.AnalysisResult, company model.Company) (*model.ExecutiveSummary, error) {
	for i, r := range results {
		if !r.Rating.Valid() {
			return nil, eris.Wrapf(ErrAggregation, "result %d (%s) has rating %q", i, r.Type, r.Rating)
		}
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	lang := company.Lang()

	ratings := overallRatings(results)
	risks := mergeRisks(results)
	return &model.ExecutiveSummary{
		Company: model.SummaryCompany{
			Name:         company.Name,
			Sector:       company.Sector,
			Activity:     company.Activity,
			AnalysisDate: now(),
			AnalysisTier: company.AnalysisTier,
		},
		Overview: model.Overview{
			TotalAnalyses:      len(results),
			CategorizedResults: categorize(results),
			OverallRatings:     ratings,
		},
		KeyInsights:     keyInsights(results, ratings, lang),
		SWOT:            mergeSWOT(results),
		Risks:           risks,
		Recommendations: recommend(results, risks, lang),
		SummaryTable:    table(results, lang),
	}, nil
}

func categorize(results []model.AnalysisResult) map[model.Category]int {
	out := make(map[model.Category]int)
	for _, r := range results {
		out[r.Category]++
	}
	return out
}

func overallRatings(results []model.AnalysisResult) model.OverallRatings {
	dist := make(map[model.Rating]int, len(model.Ratings))
	for _, r := range model.Ratings {
		dist[r] = 0
	}
	var sum int
	for _, r := range results {
		sum += r.Rating.Score()
		if r.Rating.Valid() {
			dist[r.Rating]++
		}
	}
	var avg float64
	if len(results) > 0 {
		avg = float64(sum) / float64(len(results))
	}
	return model.OverallRatings{Average: avg, Distribution: dist}
}

// categoryScores returns the mean rating score per category, sorted by
// score descending with ties broken by category name.
func categoryScores(results []model.AnalysisResult) []categoryScore {
	sums := map[model.Category]int{}
	counts := map[model.Category]int{}
	for _, r := range results {
		sums[r.Category] += r.Rating.Score()
		counts[r.Category]++
	}
	out := make([]categoryScore, 0, len(sums))
	for c, s := range sums {
		out = append(out, categoryScore{c, float64(s) / float64(counts[c])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].avg != out[j].avg {
			return out[i].avg > out[j].avg
		}
		return out[i].category < out[j].category
	})
	return out
}

type categoryScore struct {
	category model.Category
	avg      float64
}

func keyInsights(results []model.AnalysisResult, ratings model.OverallRatings, lang model.Language) []string {
	insights := []string{}
	if n := ratings.Distribution[model.RatingExcellent]; n > 0 {
		insights = append(insights, msg(lang, "أداء ممتاز في %d مؤشر مالي", "Excellent performance in %d financial indicators", n))
	}
	if n := ratings.Distribution[model.RatingWeak]; n > 0 {
		insights = append(insights, msg(lang, "يتطلب تحسين عاجل في %d مؤشر", "Urgent improvement required in %d indicators", n))
	}
	if len(results) == 0 {
		return insights
	}

	scores := categoryScores(results)
	if len(scores) > 1 {
		best, worst := scores[0], scores[len(scores)-1]
		if best.avg > worst.avg {
			insights = append(insights,
				msg(lang, "أقوى أداء في فئة %s", "Strongest performance in the %s category", categoryName(best.category, lang)),
				msg(lang, "أضعف أداء في فئة %s", "Weakest performance in the %s category", categoryName(worst.category, lang)),
			)
		}
	}
	insights = append(insights, averageBand(ratings.Average, lang))
	return insights
}

func averageBand(avg float64, lang model.Language) string {
	switch {
	case avg >= 4:
		return msg(lang, "الأداء المالي العام قوي (متوسط التقييم %.2f من 5)", "Overall financial performance is strong (average %.2f of 5)", avg)
	case avg >= 3:
		return msg(lang, "الأداء المالي العام جيد (متوسط التقييم %.2f من 5)", "Overall financial performance is good (average %.2f of 5)", avg)
	case avg >= 2:
		return msg(lang, "الأداء المالي العام مقبول (متوسط التقييم %.2f من 5)", "Overall financial performance is acceptable (average %.2f of 5)", avg)
	default:
		return msg(lang, "الأداء المالي العام ضعيف (متوسط التقييم %.2f من 5)", "Overall financial performance is weak (average %.2f of 5)", avg)
	}
}

// dedup appends items not already seen, keeping first-occurrence order.
type dedup struct {
	seen map[string]bool
	out  []string
}

func newDedup() *dedup { return &dedup{seen: map[string]bool{}, out: []string{}} }

func (d *dedup) add(items ...string) {
	for _, s := range items {
		if !d.seen[s] {
			d.seen[s] = true
			d.out = append(d.out, s)
		}
	}
}

func mergeSWOT(results []model.AnalysisResult) model.SWOT {
	s, w, o, t := newDedup(), newDedup(), newDedup(), newDedup()
	for _, r := range results {
		if r.SWOT == nil {
			continue
		}
		s.add(r.SWOT.Strengths...)
		w.add(r.SWOT.Weaknesses...)
		o.add(r.SWOT.Opportunities...)
		t.add(r.SWOT.Threats...)
	}
	return model.SWOT{Strengths: s.out, Weaknesses: w.out, Opportunities: o.out, Threats: t.out}
}

func mergeRisks(results []model.AnalysisResult) []string {
	d := newDedup()
	for _, r := range results {
		d.add(r.Risks...)
	}
	return d.out
}

func table(results []model.AnalysisResult, lang model.Language) []model.SummaryRow {
	n := min(len(results), MaxTableRows)
	rows := make([]model.SummaryRow, n)
	na := notAvailable(lang)
	for i, r := range results[:n] {
		avg := na
		if r.IndustryAverage != nil {
			avg = humanize.CommafWithDigits(*r.IndustryAverage, 4)
		}
		cmp := r.ComparisonWithIndustry
		if cmp == "" {
			cmp = na
		}
		name := r.Name
		if lang == model.LanguageEnglish && r.NameEn != "" {
			name = r.NameEn
		}
		rows[i] = model.SummaryRow{
			Number:          i + 1,
			AnalysisName:    name,
			Definition:      r.Definition,
			Measurement:     r.WhatItMeasures,
			Result:          r.Result,
			Interpretation:  r.Interpretation,
			IndustryAverage: avg,
			Comparison:      cmp,
			Rating:          r.Rating,
			Recommendation:  r.Recommendation,
		}
	}
	return rows
}

func notAvailable(lang model.Language) string {
	if lang == model.LanguageEnglish {
		return "Not available"
	}
	return "غير متوفر"
}

func msg(lang model.Language, ar, en string, args ...any) string {
	if lang == model.LanguageEnglish {
		return fmt.Sprintf(en, args...)
	}
	return fmt.Sprintf(ar, args...)
}

package model

// Category groups analysis types into families.
type Category string

const (
	CategoryStructural  Category = "structural"
	CategoryRatios      Category = "ratios"
	CategoryFlow        Category = "flow"
	CategoryComparative Category = "comparative"
	CategoryValuation   Category = "valuation"
	CategoryPerformance Category = "performance"
	CategoryModeling    Category = "modeling"
	CategoryStatistical Category = "statistical"
	CategoryPortfolio   Category = "portfolio"
	CategoryDetection   Category = "detection"
)

var typeIndex = func() map[AnalysisType]int {
	m := make(map[AnalysisType]int, len(typeTable))
	for i, ti := range typeTable {
		m[ti.typ] = i
	}
	return m
}()

// AllAnalysisTypes returns every known analysis type in declaration order.
func AllAnalysisTypes() []AnalysisType {
	out := make([]AnalysisType, len(typeTable))
	for i, ti := range typeTable {
		out[i] = ti.typ
	}
	return out
}

// Known reports whether t is a declared analysis type.
func (t AnalysisType) Known() bool {
	_, ok := typeIndex[t]
	return ok
}

// Category returns the family t belongs to, or "" for unknown types.
func (t AnalysisType) Category() Category {
	if i, ok := typeIndex[t]; ok {
		return typeTable[i].category
	}
	return ""
}

// DisplayName returns the human-readable name of t in the given language.
// Unknown types fall back to the raw identifier.
func (t AnalysisType) DisplayName(lang Language) string {
	i, ok := typeIndex[t]
	if !ok {
		return string(t)
	}
	if lang == LanguageEnglish {
		return typeTable[i].nameEn
	}
	return typeTable[i].name
}

// Rating is a discrete quality bucket assigned to an analysis result.
type Rating string

const (
	RatingExcellent  Rating = "excellent"
	RatingVeryGood   Rating = "veryGood"
	RatingGood       Rating = "good"
	RatingAcceptable Rating = "acceptable"
	RatingWeak       Rating = "weak"
)

// Ratings lists the five buckets from best to worst.
var Ratings = []Rating{RatingExcellent, RatingVeryGood, RatingGood, RatingAcceptable, RatingWeak}

// Valid reports whether r is one of the five fixed ratings.
func (r Rating) Valid() bool {
	return r.Score() > 0
}

// Score maps a rating to 5..1. Anything else scores 0.
func (r Rating) Score() int {
	switch r {
	case RatingExcellent:
		return 5
	case RatingVeryGood:
		return 4
	case RatingGood:
		return 3
	case RatingAcceptable:
		return 2
	case RatingWeak:
		return 1
	default:
		return 0
	}
}

// RatingFromScore converts a 0..100 score into a rating.
func RatingFromScore(score float64) Rating {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 75:
		return RatingVeryGood
	case score >= 60:
		return RatingGood
	case score >= 40:
		return RatingAcceptable
	default:
		return RatingWeak
	}
}

// SWOT is a strengths/weaknesses/opportunities/threats fragment.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Chart describes a visualisation the UI may render for a result.
type Chart struct {
	Type  string         `json:"type"`
	Title string         `json:"title,omitempty"`
	Data  map[string]any `json:"data"`
}

// AnalysisResult is the output of one analysis function. Result is an
// opaque, JSON-serialisable payload whose shape depends on the type.
type AnalysisResult struct {
	ID                     string       `json:"id"`
	Type                   AnalysisType `json:"type"`
	Name                   string       `json:"name"`
	NameEn                 string       `json:"nameEn"`
	Category               Category     `json:"category"`
	Definition             string       `json:"definition"`
	WhatItMeasures         string       `json:"whatItMeasures"`
	Importance             string       `json:"importance"`
	Calculation            string       `json:"calculation"`
	Result                 any          `json:"result"`
	Interpretation         string       `json:"interpretation"`
	IndustryAverage        *float64     `json:"industryAverage,omitempty"`
	ComparisonWithIndustry string       `json:"comparisonWithIndustry,omitempty"`
	Rating                 Rating       `json:"rating"`
	Recommendation         string       `json:"recommendation"`
	Charts                 []Chart      `json:"charts,omitempty"`
	DetailedAnalysis       any          `json:"detailedAnalysis,omitempty"`
	Risks                  []string     `json:"risks,omitempty"`
	Opportunities          []string     `json:"opportunities,omitempty"`
	SWOT                   *SWOT        `json:"swot,omitempty"`
}

// Benchmarks is a bag of industry reference values keyed by metric name.
// A nil map is valid and behaves as empty.
type Benchmarks map[string]float64

// Get returns the value for key and whether it was present.
func (b Benchmarks) Get(key string) (float64, bool) {
	v, ok := b[key]
	return v, ok
}

// GetOr returns the value for key or def when it is absent.
func (b Benchmarks) GetOr(key string, def float64) float64 {
	if v, ok := b[key]; ok {
		return v
	}
	return def
}

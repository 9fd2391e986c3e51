// Package catalog holds the concrete analysis functions keyed by
// model.AnalysisType. Each function is pure: it reads the statements,
// company and benchmarks and returns a single result.
package catalog

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/finanalysis/internal/model"
)

// Func computes one analysis. Statements are ordered oldest to newest and
// contain at least one period. Benchmarks may be nil.
type Func func(stmts []model.FinancialStatement, company model.Company, bm model.Benchmarks) (*model.AnalysisResult, error)

// Registry maps analysis types to their implementation.
type Registry struct {
	funcs map[model.AnalysisType]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[model.AnalysisType]Func)}
}

// Default returns a registry populated with every analysis this package
// implements. Types without an entry are reported as not implemented by
// the engine.
func Default() *Registry {
	r := NewRegistry()
	registerStructural(r)
	registerRatios(r)
	registerFlow(r)
	registerComparative(r)
	registerValuation(r)
	registerPerformance(r)
	registerModeling(r)
	registerStatistical(r)
	registerRisk(r)
	registerDetection(r)
	return r
}

// Register adds fn under t, replacing any previous entry. The stored
// function normalises the identity fields and rating of whatever fn
// returns.
func (r *Registry) Register(t model.AnalysisType, fn Func) {
	r.funcs[t] = normalize(t, fn)
}

// Lookup returns the function registered for t.
func (r *Registry) Lookup(t model.AnalysisType) (Func, bool) {
	fn, ok := r.funcs[t]
	return fn, ok
}

// Types returns the registered types in declaration order.
func (r *Registry) Types() []model.AnalysisType {
	var out []model.AnalysisType
	for _, t := range model.AllAnalysisTypes() {
		if _, ok := r.funcs[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Len reports the number of registered types.
func (r *Registry) Len() int {
	return len(r.funcs)
}

func normalize(t model.AnalysisType, fn Func) Func {
	return func(stmts []model.FinancialStatement, company model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
		if len(stmts) == 0 {
			return nil, eris.Errorf("catalog: %s: no financial statements", t)
		}
		res, err := fn(stmts, company, bm)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, eris.Errorf("catalog: %s: nil result", t)
		}
		res.Type = t
		if res.ID == "" {
			res.ID = string(t)
		}
		res.Name = t.DisplayName(model.LanguageArabic)
		res.NameEn = t.DisplayName(model.LanguageEnglish)
		res.Category = t.Category()
		if !res.Rating.Valid() {
			res.Rating = model.RatingAcceptable
		}
		return res, nil
	}
}

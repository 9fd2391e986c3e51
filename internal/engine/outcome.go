package engine

import "github.com/sells-group/finanalysis/internal/model"

// Outcome records a single analysis attempt. Exactly one of Result and Err
// is set.
type Outcome struct {
	Type   model.AnalysisType
	Result *model.AnalysisResult
	Err    error
}

// OK reports whether the attempt produced a result.
func (o Outcome) OK() bool { return o.Err == nil && o.Result != nil }

// Successes returns the results of the successful outcomes in order.
func Successes(outcomes []Outcome) []model.AnalysisResult {
	out := make([]model.AnalysisResult, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			out = append(out, *o.Result)
		}
	}
	return out
}

// Failures returns the errors of the failed outcomes in order.
func Failures(outcomes []Outcome) []error {
	var out []error
	for _, o := range outcomes {
		if !o.OK() {
			out = append(out, o.Err)
		}
	}
	return out
}

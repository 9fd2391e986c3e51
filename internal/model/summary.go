package model

import "time"

// ExecutiveSummary is the cross-analysis synthesis produced after a run.
type ExecutiveSummary struct {
	Company         SummaryCompany  `json:"company"`
	Overview        Overview        `json:"overview"`
	KeyInsights     []string        `json:"keyInsights"`
	SWOT            SWOT            `json:"swotAnalysis"`
	Risks           []string        `json:"risks"`
	Recommendations Recommendations `json:"recommendations"`
	SummaryTable    []SummaryRow    `json:"summaryTable"`
}

// SummaryCompany echoes the company attributes relevant to the report.
type SummaryCompany struct {
	Name         string    `json:"name"`
	Sector       string    `json:"sector"`
	Activity     string    `json:"activity"`
	AnalysisDate time.Time `json:"analysisDate"`
	AnalysisTier Tier      `json:"analysisType"`
}

// Overview carries counts and the rating distribution.
type Overview struct {
	TotalAnalyses      int              `json:"totalAnalyses"`
	CategorizedResults map[Category]int `json:"categorizedResults"`
	OverallRatings     OverallRatings   `json:"overallRatings"`
}

// OverallRatings is the mean score plus a count per rating bucket.
type OverallRatings struct {
	Average      float64        `json:"average"`
	Distribution map[Rating]int `json:"distribution"`
}

// Recommendations holds stakeholder-specific advice. All five lists are
// always present in the serialised form.
type Recommendations struct {
	ForOwners    []string `json:"forOwners"`
	ForBanks     []string `json:"forBanks"`
	ForInvestors []string `json:"forInvestors"`
	ForValuators []string `json:"forValuators"`
	ForOthers    []string `json:"forOthers"`
}

// SummaryRow is one line of the bounded summary table.
type SummaryRow struct {
	Number          int    `json:"number"`
	AnalysisName    string `json:"analysisName"`
	Definition      string `json:"definition"`
	Measurement     string `json:"measurement"`
	Result          any    `json:"result"`
	Interpretation  string `json:"interpretation"`
	IndustryAverage string `json:"industryAverage"`
	Comparison      string `json:"comparison"`
	Rating          Rating `json:"rating"`
	Recommendation  string `json:"recommendation"`
}

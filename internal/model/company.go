package model

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
)

// ComparisonLevel is the geographic scope used when selecting benchmarks.
type ComparisonLevel string

const (
	ComparisonLocal        ComparisonLevel = "local"
	ComparisonGCC          ComparisonLevel = "gcc"
	ComparisonArab         ComparisonLevel = "arab"
	ComparisonAsia         ComparisonLevel = "asia"
	ComparisonAfrica       ComparisonLevel = "africa"
	ComparisonEurope       ComparisonLevel = "europe"
	ComparisonNorthAmerica ComparisonLevel = "northAmerica"
	ComparisonSouthAmerica ComparisonLevel = "southAmerica"
	ComparisonAustralia    ComparisonLevel = "australia"
	ComparisonGlobal       ComparisonLevel = "global"
)

// Tier names a curated bundle of analysis types.
type Tier string

const (
	TierBasic         Tier = "basic"
	TierIntermediate  Tier = "intermediate"
	TierAdvanced      Tier = "advanced"
	TierComprehensive Tier = "comprehensive"
)

// Language selects the wording of generated messages.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// ParseLanguage maps a BCP 47 tag (e.g. "en-US", "ar-SA") to a supported
// Language. Anything that is not English resolves to Arabic.
func ParseLanguage(s string) Language {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return LanguageArabic
	}
	base, _ := tag.Base()
	if base.String() == "en" {
		return LanguageEnglish
	}
	return LanguageArabic
}

// Company identifies the entity under analysis. It is read-only for the
// duration of a run.
type Company struct {
	ID              string          `json:"id,omitempty" yaml:"id"`
	Name            string          `json:"name" yaml:"name" validate:"required"`
	NameEn          string          `json:"nameEn,omitempty" yaml:"nameEn"`
	Sector          string          `json:"sector" yaml:"sector" validate:"required"`
	Activity        string          `json:"activity,omitempty" yaml:"activity"`
	LegalEntity     string          `json:"legalEntity,omitempty" yaml:"legalEntity"`
	Country         string          `json:"country,omitempty" yaml:"country"`
	ComparisonLevel ComparisonLevel `json:"comparisonLevel,omitempty" yaml:"comparisonLevel" validate:"omitempty,oneof=local gcc arab asia africa europe northAmerica southAmerica australia global"`
	AnalysisTier    Tier            `json:"analysisTier,omitempty" yaml:"analysisTier"`
	YearsToAnalyze  int             `json:"yearsToAnalyze,omitempty" yaml:"yearsToAnalyze" validate:"gte=0,lte=20"`
	Language        Language        `json:"language,omitempty" yaml:"language" validate:"omitempty,oneof=ar en"`
}

// Lang returns the company's language, defaulting to Arabic.
func (c Company) Lang() Language {
	if c.Language == LanguageEnglish {
		return LanguageEnglish
	}
	return LanguageArabic
}

// Region returns the comparison level, defaulting to global.
func (c Company) Region() ComparisonLevel {
	if c.ComparisonLevel == "" {
		return ComparisonGlobal
	}
	return c.ComparisonLevel
}

var validate = validator.New()

// Validate checks required company attributes.
func (c Company) Validate() error {
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "model: invalid company")
	}
	return nil
}

package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"financial_analysis/pkg/core/calc"
	"financial_analysis/pkg/core/reference"
	"financial_analysis/pkg/models"
)

// Request describes one analysis run. Identifiers refer to the reference lists.
type Request struct {
	CompanyName     string   `json:"company_name" validate:"required,max=200"`
	Sector          string   `json:"sector,omitempty" validate:"omitempty,sector"`
	Activity        string   `json:"activity,omitempty" validate:"max=500"`
	LegalEntity     string   `json:"legal_entity,omitempty" validate:"omitempty,legal_entity"`
	ComparisonLevel string   `json:"comparison_level,omitempty" validate:"omitempty,comparison_level"`
	AnalysisYears   int      `json:"analysis_years,omitempty" validate:"omitempty,min=1,max=10"`
	Language        string   `json:"language,omitempty" validate:"omitempty,oneof=en ar"`
	AnalysisTypes   []string `json:"analysis_types,omitempty" validate:"dive,category"`
}

// Defaults applied to optional request fields.
const (
	DefaultAnalysisYears = 1
	DefaultLanguage      = "en"
)

func (r Request) company() models.CompanyInfo {
	return models.CompanyInfo{
		Name:        r.CompanyName,
		Sector:      r.Sector,
		Activity:    r.Activity,
		LegalEntity: r.LegalEntity,
	}
}

func (r Request) withDefaults() Request {
	if r.AnalysisYears == 0 {
		r.AnalysisYears = DefaultAnalysisYears
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}

// newValidator registers the reference-list tags used by Request.
func newValidator(ref *reference.Data) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	register := func(tag string, ok func(string) bool) {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("analysis: register %s: %v", tag, err))
		}
	}
	register("sector", ref.HasSector)
	register("legal_entity", ref.HasLegalEntity)
	register("comparison_level", ref.HasComparisonLevel)
	register("category", func(s string) bool {
		_, ok := calc.CategoryIndex(s)
		return ok
	})
	return v
}

// describeValidation turns validator errors into one readable message.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	return strings.Join(parts, "; ")
}

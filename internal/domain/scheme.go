package domain

import (
	"fmt"
	"strings"
)

// UserProfile holds the demographic attributes used to match schemes.
// All fields are free-form strings; only non-emptiness is enforced.
type UserProfile struct {
	Age            string `json:"age" yaml:"age"`
	Gender         string `json:"gender" yaml:"gender"`
	AnnualIncome   string `json:"annualIncome" yaml:"annualIncome"`
	State          string `json:"state" yaml:"state"`
	Occupation     string `json:"occupation" yaml:"occupation"`
	SocialCategory string `json:"socialCategory" yaml:"socialCategory"`
}

// Fields returns the profile as ordered (name, value) pairs.
func (p UserProfile) Fields() [][2]string {
	return [][2]string{
		{"age", p.Age},
		{"gender", p.Gender},
		{"annualIncome", p.AnnualIncome},
		{"state", p.State},
		{"occupation", p.Occupation},
		{"socialCategory", p.SocialCategory},
	}
}

// Validate returns a validation error naming every blank field.
func (p UserProfile) Validate() error {
	var missing []string
	for _, f := range p.Fields() {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return Validationf("validate profile", "missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Scheme is a government welfare program recommended by the model.
type Scheme struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	Department          string   `json:"department,omitempty" yaml:"department,omitempty"`
	Description         string   `json:"description" yaml:"description"`
	EligibilityCriteria []string `json:"eligibilityCriteria" yaml:"eligibilityCriteria"`
	Benefits            string   `json:"benefits" yaml:"benefits"`
	ApplicationProcess  string   `json:"applicationProcess" yaml:"applicationProcess"`
	Link                string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// Check verifies that every mandatory text field is non-empty.
func (s Scheme) Check() error {
	for _, f := range [][2]string{
		{"id", s.ID},
		{"name", s.Name},
		{"description", s.Description},
		{"benefits", s.Benefits},
		{"applicationProcess", s.ApplicationProcess},
	} {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("scheme %q: empty %s", s.ID, f[0])
		}
	}
	return nil
}

// RecommendationResult is the ranked output of one recommendation request.
// Schemes is never nil; the first entry is the most relevant.
type RecommendationResult struct {
	Schemes []Scheme `json:"schemes" yaml:"schemes"`
	Summary string   `json:"summary" yaml:"summary"`
}

// Scheme returns the scheme with the given id.
func (r *RecommendationResult) Scheme(id string) (Scheme, bool) {
	for _, s := range r.Schemes {
		if s.ID == id {
			return s, true
		}
	}
	return Scheme{}, false
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/yojana/internal/domain"
)

// profileFlags binds the six profile attributes plus an optional profile
// file. Flags override values read from the file.
type profileFlags struct {
	file    string
	profile domain.UserProfile
}

func (f *profileFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.file, "profile", "", "YAML or JSON file with the profile")
	fl.StringVar(&f.profile.Age, "age", "", "age in years")
	fl.StringVar(&f.profile.Gender, "gender", "", "gender")
	fl.StringVar(&f.profile.AnnualIncome, "income", "", "annual income in rupees")
	fl.StringVar(&f.profile.State, "state", "", "state of residence")
	fl.StringVar(&f.profile.Occupation, "occupation", "", "occupation")
	fl.StringVar(&f.profile.SocialCategory, "category", "", "social category (General, OBC, SC, ST)")
}

// resolve merges the profile file and the flags.
func (f *profileFlags) resolve() (domain.UserProfile, error) {
	var p domain.UserProfile
	if f.file != "" {
		data, err := os.ReadFile(f.file)
		if err != nil {
			return p, fmt.Errorf("profile: %w", err)
		}
		if p, err = parseProfile(data); err != nil {
			return p, fmt.Errorf("profile %s: %w", f.file, err)
		}
	}
	overlay(&p.Age, f.profile.Age)
	overlay(&p.Gender, f.profile.Gender)
	overlay(&p.AnnualIncome, f.profile.AnnualIncome)
	overlay(&p.State, f.profile.State)
	overlay(&p.Occupation, f.profile.Occupation)
	overlay(&p.SocialCategory, f.profile.SocialCategory)
	return p, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseProfile reads a profile in YAML; JSON parses as YAML too.
func parseProfile(data []byte) (domain.UserProfile, error) {
	var p domain.UserProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}

var (
	recProfile profileFlags
	recFormat  string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print scheme recommendations for a profile",
	Long: `Ask the model for the most relevant welfare schemes and print them.

Examples:
  yojana recommend --age 45 --gender Male --income 50000 --state Gujarat \
    --occupation Farmer --category General --lang gu
  yojana recommend --profile farmer.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup("")
		if err != nil {
			return err
		}
		defer a.close()

		profile, err := recProfile.resolve()
		if err != nil {
			return err
		}
		if err := profile.Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()
		gem, err := a.gemini(ctx)
		if err != nil {
			return err
		}
		res, err := a.recommender(gem).FetchRecommendations(ctx, profile, a.cfg.Lang())
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), res, recFormat)
	},
}

func init() {
	recProfile.bind(recommendCmd)
	recommendCmd.Flags().StringVar(&recFormat, "format", "text", "output format: text, json, yaml")
	rootCmd.AddCommand(recommendCmd)
}

// writeResult renders res in the given format.
func writeResult(w io.Writer, res *domain.RecommendationResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeText(w, res)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeText(w io.Writer, res *domain.RecommendationResult) error {
	var b strings.Builder
	b.WriteString(res.Summary + "\n")
	for i, s := range res.Schemes {
		fmt.Fprintf(&b, "\n%d. %s", i+1, s.Name)
		if s.Department != "" {
			fmt.Fprintf(&b, " (%s)", s.Department)
		}
		fmt.Fprintf(&b, "  [%s]\n", s.ID)
		fmt.Fprintf(&b, "   %s\n", s.Description)
		fmt.Fprintf(&b, "   Benefits: %s\n", s.Benefits)
		if len(s.EligibilityCriteria) > 0 {
			b.WriteString("   Eligibility:\n")
			for _, c := range s.EligibilityCriteria {
				fmt.Fprintf(&b, "     - %s\n", c)
			}
		}
		fmt.Fprintf(&b, "   How to apply: %s\n", s.ApplicationProcess)
		if s.Link != "" {
			fmt.Fprintf(&b, "   %s\n", s.Link)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

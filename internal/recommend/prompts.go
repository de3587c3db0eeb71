package recommend

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/yojana/internal/domain"
)

// Prompts live here so wording changes are a single-file edit.

// ExampleSchemes are named in the prompt as guidance only; the model is
// free to recommend others.
var ExampleSchemes = []string{
	"PM-Kisan",
	"Ayushman Bharat",
	"MGNREGA",
	"PM Awas Yojana",
	"Ujjwala Yojana",
}

const promptTemplate = `Find and recommend the top %d relevant Indian Government Welfare Schemes for the following villager profile:
Age: %s
Gender: %s
Annual Family Income: ₹%s
State: %s
Occupation: %s
Social Category: %s

CRITICAL RULES:
1. THE ENTIRE RESPONSE CONTENT (names, descriptions, benefits, process, summary) MUST BE IN %s LANGUAGE.
2. Focus on schemes like %s, etc. These are examples only; include a scheme only if the profile is eligible.
3. Use simple, local terms that a villager can easily understand.
4. Ensure strict eligibility matching based on income and age.
5. Rank the schemes from most to least relevant and return at most %d of them, each with a unique id.`

// BuildPrompt renders the recommendation instruction. Profile values are
// embedded verbatim.
func BuildPrompt(p domain.UserProfile, lang domain.Language, limit int) string {
	return fmt.Sprintf(promptTemplate,
		limit,
		p.Age,
		p.Gender,
		p.AnnualIncome,
		p.State,
		p.Occupation,
		p.SocialCategory,
		strings.ToUpper(lang.Name()),
		strings.Join(ExampleSchemes, ", "),
		limit,
	)
}

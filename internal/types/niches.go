package types

// NicheOther is the catch-all industry entry; it carries no sub-specializations
// and accepts free-text input instead.
const NicheOther = "Other"

// nicheOrder fixes the display order of primary industries so configuration
// prompts are stable across runs.
var nicheOrder = []string{
	"Software Engineering",
	"Marketing",
	"Finance",
	"Healthcare",
	"Sales",
	"Product Management",
	NicheOther,
}

var nicheCatalog = map[string][]string{
	"Software Engineering": {"Frontend", "Backend", "Full Stack", "AI/ML", "DevOps", "Mobile", "Game Dev", "Cybersecurity", "Data Engineering"},
	"Marketing":            {"Digital Marketing", "Content Strategy", "SEO/SEM", "Product Marketing", "Brand Management", "Social Media"},
	"Finance":              {"Investment Banking", "Corporate Finance", "FinTech", "Accounting", "Wealth Management", "Private Equity"},
	"Healthcare":           {"Nursing", "Administration", "Medical Technology", "Pharmaceuticals", "Public Health"},
	"Sales":                {"B2B SaaS", "Enterprise", "Retail", "Account Management", "Business Development"},
	"Product Management":   {"B2B", "B2C", "Technical PM", "Growth PM"},
	NicheOther:             {},
}

// Niches returns the fixed catalog of primary industries in display order.
func Niches() []string {
	out := make([]string, len(nicheOrder))
	copy(out, nicheOrder)
	return out
}

// SubNiches returns the known sub-specializations for a primary industry.
// Unknown industries and the catch-all entry return an empty list.
func SubNiches(primary string) []string {
	subs, ok := nicheCatalog[primary]
	if !ok {
		return nil
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

// SeniorityLevels returns the selectable seniority levels in display order.
func SeniorityLevels() []string {
	return []string{"Intern", "Junior", "Mid", "Senior"}
}

// Tones returns the selectable writing tones in display order.
func Tones() []string {
	return []string{"Professional", "Confident", "Direct"}
}

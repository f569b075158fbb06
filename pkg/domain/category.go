package domain

// Category classifies the kind of support issue a ticket describes.
type Category string

const (
	CategoryTechnical      Category = "technical"
	CategoryBilling        Category = "billing"
	CategoryAccount        Category = "account"
	CategoryFeatureRequest Category = "feature_request"
	CategoryBugReport      Category = "bug_report"
	CategoryGeneral        Category = "general"
)

// Categories lists every detectable category in declaration order. The
// category detector iterates this slice, so ties between equal match counts
// resolve to the earliest entry.
var Categories = []Category{
	CategoryTechnical,
	CategoryBilling,
	CategoryAccount,
	CategoryFeatureRequest,
	CategoryBugReport,
}

var categoryDisplayNames = map[Category]string{
	CategoryTechnical:      "Technical Support",
	CategoryBilling:        "Billing & Payments",
	CategoryAccount:        "Account Management",
	CategoryFeatureRequest: "Feature Request",
	CategoryBugReport:      "Bug Report",
	CategoryGeneral:        "General Inquiry",
}

// DisplayName returns the human-readable label for c.
// Unknown categories render as "Unknown" rather than failing.
func (c Category) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return "Unknown"
}

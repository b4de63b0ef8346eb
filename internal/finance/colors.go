package finance

// OtherCategory is the catch-all category and the color fallback key.
const OtherCategory = "Other"

// CategoryColors maps category labels to chart colors.
var CategoryColors = map[string]string{
	"Food & Dining":     "#FF6384",
	"Transportation":    "#36A2EB",
	"Shopping":          "#FFCE56",
	"Entertainment":     "#4BC0C0",
	"Bills & Utilities": "#9966FF",
	"Healthcare":        "#FF9F40",
	"Education":         "#FF6384",
	"Travel":            "#C9CBCF",
	"Groceries":         "#4BC0C0",
	"Salary":            "#36A2EB",
	"Freelance":         "#FFCE56",
	"Investment":        "#4BC0C0",
	"Business":          "#9966FF",
	OtherCategory:       "#E7E9ED",
}

// ColorFor returns the color of a category, or the "Other" color for
// unknown labels.
func ColorFor(category string) string {
	if c, ok := CategoryColors[category]; ok {
		return c
	}
	return CategoryColors[OtherCategory]
}

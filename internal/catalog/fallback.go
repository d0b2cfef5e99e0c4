package catalog

// Fallback returns a fresh copy of the built-in data set used when the data
// files cannot be loaded.
func Fallback() *Catalog {
	return &Catalog{
		Categories: []Category{
			{ID: "ideation", Name: "Ideation & Validation"},
			{ID: "planning", Name: "Business Planning"},
			{ID: "branding", Name: "Branding & Design"},
			{ID: "development", Name: "Product Development"},
			{ID: "marketing", Name: "Marketing & Growth"},
			{ID: "sales", Name: "Sales & CRM"},
			{ID: "funding", Name: "Funding & Finance"},
			{ID: "operations", Name: "Operations & Productivity"},
			{ID: "analytics", Name: "Analytics & Feedback"},
		},
		Tools: []Tool{
			{
				Name:        "IdeaBuddy",
				Description: "A comprehensive business planning tool that helps entrepreneurs develop, test, and launch their ideas.",
				URL:         "https://ideabuddy.com/",
				Category:    "planning",
			},
			{
				Name:        "Canva",
				Description: "A graphic design platform to create social media graphics, presentations, and more.",
				URL:         "https://www.canva.com/",
				Category:    "branding",
			},
			{
				Name:        "Buffer",
				Description: "A social media management tool to schedule posts and analyze performance.",
				URL:         "https://buffer.com/",
				Category:    "marketing",
			},
		},
		Source: SourceFallback,
	}
}

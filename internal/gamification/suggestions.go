package gamification

// Suggestion is a static sustainability tip.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

var suggestions = []Suggestion{
	{
		Title:       "Use Public Transport",
		Description: "Opt for buses, trains, or subways to reduce your carbon emissions from personal vehicles.",
		Icon:        "bus",
		Category:    "Travel",
	},
	{
		Title:       "Unplug Electronics",
		Description: "Unplug chargers and appliances when not in use to avoid phantom energy consumption.",
		Icon:        "plug-zap",
		Category:    "Home",
	},
	{
		Title:       "Bring a Reusable Bag",
		Description: "Carry a reusable bag for shopping to reduce plastic waste from single-use bags.",
		Icon:        "shopping-bag",
		Category:    "Lifestyle",
	},
	{
		Title:       "Shorter Showers",
		Description: "Reduce your shower time by just a few minutes to save a significant amount of water and energy.",
		Icon:        "shower-head",
		Category:    "Home",
	},
	{
		Title:       "Bike or Walk",
		Description: "For short distances, choose to bike or walk instead of driving. It's great for you and the planet.",
		Icon:        "bike",
		Category:    "Travel",
	},
	{
		Title:       "Eat Local",
		Description: "Support local farmers and reduce the carbon footprint associated with long-distance food transport.",
		Icon:        "carrot",
		Category:    "Lifestyle",
	},
}

// Suggestions returns the fixed tip catalog. Tips are not personalised.
func Suggestions() []Suggestion {
	out := make([]Suggestion, len(suggestions))
	copy(out, suggestions)
	return out
}

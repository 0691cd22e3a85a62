package decor

// Style is a named decoration aesthetic selectable for a room. The
// registry is static; IDs are what clients send and what rooms store.
type Style struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Emoji       string `json:"emoji"`
}

var Styles = []Style{
	{
		ID:          "moderno",
		Name:        "Modern",
		Description: "Clean lines, minimalist design and contemporary furniture",
		Category:    "Modern",
		Emoji:       "✨",
	},
	{
		ID:          "minimalista",
		Name:        "Minimalist",
		Description: "Less is more - clean, uncluttered spaces",
		Category:    "Modern",
		Emoji:       "⚪",
	},
	{
		ID:          "escandinavo",
		Name:        "Scandinavian",
		Description: "Light color palette, pale wood and natural textures",
		Category:    "Modern",
		Emoji:       "🏔️",
	},
	{
		ID:          "contemporaneo",
		Name:        "Contemporary",
		Description: "A mix of modern styles with current elements",
		Category:    "Modern",
		Emoji:       "🎨",
	},
	{
		ID:          "classico",
		Name:        "Classic",
		Description: "Elegant furniture, traditional colors and refined details",
		Category:    "Traditional",
		Emoji:       "👑",
	},
	{
		ID:          "romantico",
		Name:        "Romantic",
		Description: "Delicate touches, soft colors and a cozy atmosphere",
		Category:    "Traditional",
		Emoji:       "💕",
	},
	{
		ID:          "industrial",
		Name:        "Industrial",
		Description: "Raw materials, exposed metals and an urban aesthetic",
		Category:    "Urban",
		Emoji:       "🏭",
	},
	{
		ID:          "rustico",
		Name:        "Rustic",
		Description: "Rustic wood, natural textures and countryside warmth",
		Category:    "Natural",
		Emoji:       "🌾",
	},
	{
		ID:          "bohemio",
		Name:        "Bohemian",
		Description: "Vibrant colors, ethnic patterns and eclectic decoration",
		Category:    "Eclectic",
		Emoji:       "🌺",
	},
}

// StyleByID returns the registry entry for an id.
func StyleByID(id string) (Style, bool) {
	for _, s := range Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

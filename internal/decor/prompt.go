package decor

import "strings"

// stylePrompts maps style ids to the English fragment handed to the
// image model. Entries beyond the public registry are kept for rooms
// that were saved before a style was retired from the catalog.
var stylePrompts = map[string]string{
	"moderno":       "modern minimalist design with clean lines, contemporary furniture, sleek surfaces, neutral colors",
	"minimalista":   "ultra minimal design, clean spaces, very few decorative elements, simple and uncluttered",
	"escandinavo":   "Scandinavian style with light color palette, light wood, natural textures, hygge atmosphere, cozy and warm",
	"contemporaneo": "contemporary design, mixing modern styles with current elements, trendy and up-to-date",
	"classico":      "classic elegant design, traditional furniture, refined details, sophisticated colors, timeless elegance",
	"romantico":     "romantic design with delicate touches, soft pastel colors, cozy atmosphere, floral patterns, gentle and warm",
	"industrial":    "industrial design with raw materials, exposed metals, urban aesthetic, brick walls, concrete surfaces",
	"rustico":       "rustic design with rustic wood, natural textures, country charm, warm earth tones, cozy farmhouse style",
	"bohemio":       "bohemian style with vibrant colors, ethnic patterns, eclectic decoration, artistic and free-spirited",
	"boho":          "boho chic interior with layered textures, natural fibers, indoor plants, warm earthy palette, artisanal decor, relaxed and inviting atmosphere",
	"japones":       "Japanese style with zen design, natural elements, neutral colors, traditional minimalism, tatami mats, shoji screens, clean lines",
	"mediterraneo":  "Mediterranean style with blues and whites, natural textures, decorative tiles, coastal inspiration, rustic charm, terracotta accents, light and airy",
}

// BuildPrompt turns a set of style ids into the generation instruction.
// It walks the registry in declaration order, so the result does not
// depend on the order of the input. Registry styles without a prompt
// fragment fall back to their lower-cased description; unknown ids are
// ignored. Callers are expected to reject empty style sets upstream -
// with zero matches the framing text is returned with an empty
// description clause.
func BuildPrompt(styleIDs []string) string {
	requested := make(map[string]bool, len(styleIDs))
	for _, id := range styleIDs {
		requested[id] = true
	}

	var fragments []string
	for _, style := range Styles {
		if !requested[style.ID] {
			continue
		}
		fragment, ok := stylePrompts[style.ID]
		if !ok {
			fragment = strings.ToLower(style.Description)
		}
		fragments = append(fragments, fragment)
	}

	return "Transform this interior space into a beautifully decorated room with " +
		strings.Join(fragments, ", ") +
		". High quality interior design, professional photography, detailed and realistic, 4k resolution. " +
		"Keep the same room layout and structure, only change the decoration style, furniture, and color scheme."
}

package analytics

// Display colors for the material breakdown. Materials outside the table
// fall back to the neutral shade.
var materialColors = map[string]string{
	"Zirconia":      "#6366f1",
	"PMMA":          "#f59e0b",
	"Wax":           "#10b981",
	"Titanium":      "#64748b",
	"Glass Ceramic": "#06b6d4",
	"Composite":     "#ec4899",
	"CoCr":          "#8b5cf6",
}

const defaultMaterialColor = "#94a3b8"

func materialColor(material string) string {
	if color, ok := materialColors[material]; ok {
		return color
	}
	return defaultMaterialColor
}

package lore

// Color is a palette token.
type Color string

// Palette tokens.
const (
	Purple Color = "purple"
	Green  Color = "green"
	Blue   Color = "blue"
	Orange Color = "orange"
	Teal   Color = "teal"
	Pink   Color = "pink"
	Amber  Color = "amber"
	Slate  Color = "slate"
)

// DefaultColor is used wherever a color is missing or unknown.
const DefaultColor = Slate

// Palette lists every token in display order.
var Palette = []Color{Purple, Green, Blue, Orange, Teal, Pink, Amber, Slate}

// typeColors maps the legacy tag "type" field to a color.
var typeColors = map[string]Color{
	"character": Purple,
	"place":     Green,
	"theme":     Blue,
	"person":    Slate,
}

// Valid reports whether c is a palette token.
func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// NormalizeColor returns c if it is in the palette, DefaultColor otherwise.
func NormalizeColor(c Color) Color {
	if c.Valid() {
		return c
	}
	return DefaultColor
}

// TypeColor returns the color implied by a legacy tag type.
func TypeColor(kind string) Color {
	if c, ok := typeColors[kind]; ok {
		return c
	}
	return DefaultColor
}

package ogimage

import (
	"fmt"
	"regexp"

	"github.com/repoglow/go-ogimage/internal/yamlutil"
)

// DefaultLanguageColor is used for languages missing from the table.
const DefaultLanguageColor = "#FFFFFF"

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// ColorTable maps language names to display colors. The zero value is an
// empty table. It is never modified after construction.
type ColorTable struct {
	colors map[string]string
}

// NewColorTable copies colors into a table, dropping entries that are not
// #RGB or #RRGGBB.
func NewColorTable(colors map[string]string) ColorTable {
	m := make(map[string]string, len(colors))
	for name, c := range colors {
		if hexColorPattern.MatchString(c) {
			m[name] = c
		}
	}
	return ColorTable{colors: m}
}

// LoadColorTable reads a YAML map of language name to hex color from src.
func LoadColorTable(src AssetSource, name string) (ColorTable, error) {
	data, err := src.ReadAsset(name)
	if err != nil {
		return ColorTable{}, fmt.Errorf("loading color table: %w", err)
	}
	var raw map[string]string
	if err := yamlutil.Unmarshal(data, &raw); err != nil {
		return ColorTable{}, fmt.Errorf("parsing color table %s: %w", name, err)
	}
	return NewColorTable(raw), nil
}

// Color returns the color for language, or DefaultLanguageColor.
func (t ColorTable) Color(language string) string {
	if c, ok := t.colors[language]; ok {
		return c
	}
	return DefaultLanguageColor
}

// Len returns the number of entries.
func (t ColorTable) Len() int {
	return len(t.colors)
}

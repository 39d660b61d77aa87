package state

import (
	"fmt"
	"regexp"
	"strings"
)

// Flavor is one palette color. Blocks match slots by flavor equality.
type Flavor struct {
	Name string
	Hex  string
}

var hexRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// DefaultPalette returns the five flavors of the original game, in slot order.
func DefaultPalette() []Flavor {
	return []Flavor{
		{Name: "strawberry", Hex: "#FF6B6B"},
		{Name: "mint", Hex: "#4ECB71"},
		{Name: "blueberry", Hex: "#4D96FF"},
		{Name: "vanilla", Hex: "#FFD93D"},
		{Name: "berry", Hex: "#FF8FD2"},
	}
}

// ParsePalette reads a comma separated list of flavors. Each entry is either
// "name=#RRGGBB" or a bare "#RRGGBB", in which case the hex doubles as name.
func ParsePalette(spec string) ([]Flavor, error) {
	var palette []Flavor
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, hex, found := strings.Cut(part, "=")
		if !found {
			name, hex = part, part
		}
		name = strings.TrimSpace(name)
		hex = strings.ToUpper(strings.TrimSpace(hex))

		if !hexRe.MatchString(hex) {
			return nil, fmt.Errorf("invalid flavor color %q (use #RRGGBB)", hex)
		}
		if name == "" {
			return nil, fmt.Errorf("flavor %q has an empty name", part)
		}
		palette = append(palette, Flavor{Name: name, Hex: hex})
	}

	if len(palette) == 0 {
		return nil, fmt.Errorf("palette %q has no flavors", spec)
	}
	if err := checkDistinct(palette); err != nil {
		return nil, err
	}
	return palette, nil
}

func checkDistinct(palette []Flavor) error {
	seen := make(map[string]string, len(palette))
	for _, f := range palette {
		if prev, ok := seen[f.Hex]; ok {
			return fmt.Errorf("flavors %q and %q share color %s", prev, f.Name, f.Hex)
		}
		seen[f.Hex] = f.Name
	}
	return nil
}

// PaletteString renders the palette in the form ParsePalette accepts.
func PaletteString(palette []Flavor) string {
	parts := make([]string, len(palette))
	for i, f := range palette {
		parts[i] = f.Name + "=" + f.Hex
	}
	return strings.Join(parts, ",")
}

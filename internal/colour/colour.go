// Package colour resolves the colour strings accepted by plot commands.
package colour

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Cycle is the default trace colour cycle, addressed as C0..C9.
var Cycle = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var tableau = map[string]string{
	"blue":   Cycle[0],
	"orange": Cycle[1],
	"green":  Cycle[2],
	"red":    Cycle[3],
	"purple": Cycle[4],
	"brown":  Cycle[5],
	"pink":   Cycle[6],
	"gray":   Cycle[7],
	"grey":   Cycle[7],
	"olive":  Cycle[8],
	"cyan":   Cycle[9],
}

var base = map[string]string{
	"b": "#0000ff",
	"g": "#008000",
	"r": "#ff0000",
	"c": "#00bfbf",
	"m": "#bf00bf",
	"y": "#bfbf00",
	"k": "#000000",
	"w": "#ffffff",
}

var (
	cyclePattern = regexp.MustCompile(`^C[0-9]+$`)
	hexPattern   = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
)

// Default returns the cycle colour name for the i-th trace.
func Default(i int) string {
	if i < 0 {
		i = -i
	}
	return fmt.Sprintf("C%d", i%len(Cycle))
}

// Valid reports whether s names a colour.
func Valid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Parse resolves s into a colour.
func Parse(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, false
	}

	if cyclePattern.MatchString(s) {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return colorful.Color{}, false
		}
		return mustHex(Cycle[n%len(Cycle)])
	}

	if hexPattern.MatchString(s) {
		if len(s) == 9 {
			// alpha is dropped, terminals have no use for it
			s = s[:7]
		}
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}

	// single letters are case sensitive
	if hex, ok := base[s]; ok {
		return mustHex(hex)
	}
	lower := strings.ToLower(s)
	if name, ok := strings.CutPrefix(lower, "tab:"); ok {
		if hex, ok := tableau[name]; ok {
			return mustHex(hex)
		}
		return colorful.Color{}, false
	}
	if rgba, ok := colornames.Map[lower]; ok {
		return colorful.MakeColor(rgba)
	}

	if grey, err := strconv.ParseFloat(s, 64); err == nil {
		if !(grey >= 0 && grey <= 1) {
			return colorful.Color{}, false
		}
		return colorful.Color{R: grey, G: grey, B: grey}, true
	}
	return colorful.Color{}, false
}

// Hex returns the #rrggbb form of s, or "" when s is not a colour.
func Hex(s string) string {
	c, ok := Parse(s)
	if !ok {
		return ""
	}
	return c.Clamped().Hex()
}

func mustHex(hex string) (colorful.Color, bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

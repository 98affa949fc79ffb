// Package icon renders the status symbols printed by the CLI in the variant
// chosen by icons.variant.
package icon

import (
	"github.com/karaberus/karaplay/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Variant is a family of glyphs.
type Variant string

const (
	Emoji   Variant = "emoji"
	Nerd    Variant = "nerd"
	Plain   Variant = "plain"
	Kaomoji Variant = "kaomoji"
	Squares Variant = "squares"
)

var variants = []Variant{Emoji, Nerd, Plain, Kaomoji, Squares}

// glyphs maps every variant to the rendering of one icon.
type glyphs map[Variant]string

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return lo.Map(variants, func(v Variant, _ int) string {
		return string(v)
	})
}

// Current is the configured variant. Values icons.variant does not accept
// fall back to Plain, which every terminal can show.
func Current() Variant {
	v := Variant(viper.GetString(key.IconsVariant))
	if !lo.Contains(variants, v) {
		return Plain
	}
	return v
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	return In(i, Current())
}

// In renders i in variant v, or "" for an unregistered icon.
func In(i Icon, v Variant) string {
	return icons[i][v]
}

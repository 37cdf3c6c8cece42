package aqi

import (
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"
)

// Level is an EPA air quality category.
type Level int

const (
	LevelUnknown Level = iota
	LevelGood
	LevelModerate
	LevelUnhealthySensitive
	LevelUnhealthy
	LevelVeryUnhealthy
	LevelHazardous
)

func (l Level) String() string {
	switch l {
	case LevelGood:
		return "good"
	case LevelModerate:
		return "moderate"
	case LevelUnhealthySensitive:
		return "unhealthy-for-sensitive"
	case LevelUnhealthy:
		return "unhealthy"
	case LevelVeryUnhealthy:
		return "very-unhealthy"
	case LevelHazardous:
		return "hazardous"
	default:
		return "unknown"
	}
}

// band is one row of the EPA AQI table (airnow.gov).
type band struct {
	low, high  int
	level      Level
	text       color.Color
	background color.Color
}

var bands = []band{
	{0, 50, LevelGood, colornames.Black, color.RGBA{0x00, 0xe4, 0x00, 0xff}},
	{51, 100, LevelModerate, colornames.Black, color.RGBA{0xff, 0xff, 0x00, 0xff}},
	{101, 150, LevelUnhealthySensitive, colornames.White, color.RGBA{0xff, 0x7e, 0x00, 0xff}},
	{151, 200, LevelUnhealthy, colornames.White, color.RGBA{0xff, 0x00, 0x00, 0xff}},
	{201, 300, LevelVeryUnhealthy, colornames.White, color.RGBA{0x8f, 0x3f, 0x97, 0xff}},
	{301, 500, LevelHazardous, colornames.White, color.RGBA{0x7e, 0x00, 0x23, 0xff}},
}

// LevelFor maps an index to its band. Values outside 0-500 are unknown.
func LevelFor(aqi int) Level {
	for _, b := range bands {
		if aqi >= b.low && aqi <= b.high {
			return b.level
		}
	}
	return LevelUnknown
}

// Colors is the text/background pair used to draw the AQI annotation.
type Colors struct {
	Text       color.Color
	Background color.Color
	Level      Level
}

// ResolveColors picks colors for a compact AQI string. Anything it cannot
// read, or an index outside the EPA table, gets defaultText on a transparent
// background.
func ResolveColors(info string, defaultText color.Color) Colors {
	fallback := Colors{Text: defaultText, Background: color.Transparent, Level: LevelUnknown}

	v, ok := Value(info)
	if !ok {
		return fallback
	}
	for _, b := range bands {
		if v >= b.low && v <= b.high {
			return Colors{Text: b.text, Background: b.background, Level: b.level}
		}
	}
	return fallback
}

// Hex renders c as #rrggbbaa.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// ParseHex reads #rrggbb or #rrggbbaa.
func ParseHex(s string) (color.Color, error) {
	var c color.NRGBA
	var err error
	switch len(s) {
	case 7:
		c.A = 0xff
		_, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("want #rrggbb or #rrggbbaa")
	}
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}

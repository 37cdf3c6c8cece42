package weather

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  string
		want  string
	}{
		{name: "nan", value: math.NaN(), unit: "°F", want: "-"},
		{name: "whole", value: 72, unit: "°F", want: "72°F"},
		{name: "rounds down", value: 72.4, unit: "%", want: "72%"},
		{name: "rounds up", value: 72.6, unit: "%", want: "73%"},
		{name: "half to even down", value: 72.5, unit: "", want: "72"},
		{name: "half to even up", value: 73.5, unit: "", want: "74"},
		{name: "negative", value: -3.7, unit: "°C", want: "-4°C"},
		{name: "negative zero", value: -0.4, unit: "°C", want: "0°C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value, tt.unit); got != tt.want {
				t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.unit, got, tt.want)
			}
		})
	}
}

func TestFormatWindSpeed(t *testing.T) {
	if got := FormatWindSpeed(-1, "mph"); got != Unknown {
		t.Errorf("FormatWindSpeed(-1) = %q, want %q", got, Unknown)
	}
	if got := FormatWindSpeed(12.2, "mph"); got != "12mph" {
		t.Errorf("FormatWindSpeed(12.2) = %q, want 12mph", got)
	}
}

func TestWindDirectionLabel(t *testing.T) {
	tests := []struct {
		deg  int
		want string
	}{
		{-1, Unknown},
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{45, "NE"},
		{68, "E"},
		{113, "SE"},
		{158, "S"},
		{203, "SW"},
		{248, "W"},
		{293, "NW"},
		{337, "NW"},
		{338, "N"},
		{359, "N"},
	}
	for _, tt := range tests {
		if got := WindDirectionLabel(tt.deg); got != tt.want {
			t.Errorf("WindDirectionLabel(%d) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func TestInfoFormatting(t *testing.T) {
	info := sampleInfo()

	if got := info.FormattedTemperature(); got != "72°F" {
		t.Errorf("FormattedTemperature() = %q, want 72°F", got)
	}
	if got := info.FormattedLow(); got != "55°" {
		t.Errorf("FormattedLow() = %q, want 55°", got)
	}
	if got := info.FormattedHigh(); got != "74°" {
		t.Errorf("FormattedHigh() = %q, want 74°", got)
	}
	if got := info.FormattedHumidity(); got != "48%" {
		t.Errorf("FormattedHumidity() = %q, want 48%%", got)
	}
	if got := info.FormattedWindSpeed(); got != "6mph" {
		t.Errorf("FormattedWindSpeed() = %q, want 6mph", got)
	}
	if got := info.WindDirectionLabel(); got != "W" {
		t.Errorf("WindDirectionLabel() = %q, want W", got)
	}

	info.Forecasts = nil
	if got := info.FormattedLow(); got != "-" {
		t.Errorf("FormattedLow() without forecasts = %q, want -", got)
	}
}

func TestConditionLookup(t *testing.T) {
	lookup := MapLookup{
		Text:  map[int]string{30: "Partly cloudy"},
		Icons: map[int]string{30: "weather_30", 32: "weather_32"},
	}
	info := sampleInfo()

	if got := info.ConditionText(lookup); got != "Partly cloudy" {
		t.Errorf("ConditionText = %q, want looked-up text", got)
	}
	if got := info.ConditionIcon(lookup); got != "weather_30" {
		t.Errorf("ConditionIcon = %q, want weather_30", got)
	}
	if got := info.Forecasts[0].ConditionText(lookup); got != "Sunny" {
		t.Errorf("forecast ConditionText = %q, want raw label Sunny", got)
	}
	if got := info.Forecasts[0].ConditionIcon(lookup); got != "weather_32" {
		t.Errorf("forecast ConditionIcon = %q, want weather_32", got)
	}
	if got := info.ConditionText(nil); got != "Partly Cloudy" {
		t.Errorf("ConditionText(nil) = %q, want raw label", got)
	}
	if got := info.ConditionIcon(nil); got != "" {
		t.Errorf("ConditionIcon(nil) = %q, want empty", got)
	}
}

func TestInfoString(t *testing.T) {
	info := sampleInfo()
	info.SetAQI("09:00;PM2.5:99.0; AQI:173;Unhealthy")
	s := info.String()
	for _, want := range []string{
		"WeatherInfo for Los Angeles (2442047)",
		"temperature 72°F",
		"wind 6mph at W",
		"day 2: high 70°, low 54°, Showers(11)",
		"AQI info: 09:00;PM2.5:99.0; AQI:173;Unhealthy",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}

	v2 := NewInfoV2("id", "Bright", "Wed", "Rain", 12, 8, 4, 11, "C", 90, -1, -1, "km/h", time.UnixMilli(0))
	if s := v2.String(); !strings.Contains(s, "wind unknown at unknown") {
		t.Errorf("InfoV2.String() = %q, want unknown wind", s)
	}
}

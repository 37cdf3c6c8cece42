package weather

import (
	"fmt"
	"strings"
	"time"
)

// DayForecast is one day of the legacy multi-day forecast.
type DayForecast struct {
	Low           float64
	High          float64
	Condition     string
	ConditionCode int
}

func (d DayForecast) FormattedLow() string  { return FormatValue(d.Low, degree) }
func (d DayForecast) FormattedHigh() string { return FormatValue(d.High, degree) }

// ConditionText returns the looked-up text for the day's condition code,
// falling back to the raw provider label.
func (d DayForecast) ConditionText(l Lookup) string {
	return conditionText(l, d.ConditionCode, d.Condition)
}

func (d DayForecast) ConditionIcon(l Lookup) string {
	return conditionIcon(l, d.ConditionCode)
}

func (d DayForecast) valid() bool {
	return !isNaN(d.Low) && !isNaN(d.High) && d.ConditionCode >= 0
}

// Info is a weather snapshot in the legacy schema: current conditions plus a
// multi-day forecast list.
type Info struct {
	ID            string
	City          string
	Condition     string
	ConditionCode int
	Temperature   float64 // NaN when unknown
	TempUnit      string
	Humidity      float64
	Wind          float64 // negative when unknown
	WindDirection int     // degrees, negative when unknown
	SpeedUnit     string
	Timestamp     time.Time
	Forecasts     []DayForecast

	aqi string
}

func NewInfo(id, city, condition string, conditionCode int, temp float64,
	tempUnit string, humidity, wind float64, windDir int, speedUnit string,
	forecasts []DayForecast, timestamp time.Time) *Info {
	return &Info{
		ID:            id,
		City:          city,
		Condition:     condition,
		ConditionCode: conditionCode,
		Temperature:   temp,
		TempUnit:      tempUnit,
		Humidity:      humidity,
		Wind:          wind,
		WindDirection: windDir,
		SpeedUnit:     speedUnit,
		Timestamp:     timestamp,
		Forecasts:     forecasts,
	}
}

// AQI returns the compact air quality annotation, or "" when none is set.
func (w *Info) AQI() string { return w.aqi }

// SetAQI attaches the compact AQI string. Only the first non-empty value
// sticks; it reports whether the value was applied.
func (w *Info) SetAQI(aqi string) bool {
	if w.aqi != "" || aqi == "" {
		return false
	}
	w.aqi = aqi
	return true
}

func (w *Info) ConditionText(l Lookup) string {
	return conditionText(l, w.ConditionCode, w.Condition)
}

func (w *Info) ConditionIcon(l Lookup) string {
	return conditionIcon(l, w.ConditionCode)
}

func (w *Info) FormattedTemperature() string {
	return FormatValue(w.Temperature, degree+w.TempUnit)
}

// FormattedLow and FormattedHigh report today's forecast, or "-" when the
// snapshot carries no forecast.
func (w *Info) FormattedLow() string {
	if len(w.Forecasts) == 0 {
		return missing
	}
	return w.Forecasts[0].FormattedLow()
}

func (w *Info) FormattedHigh() string {
	if len(w.Forecasts) == 0 {
		return missing
	}
	return w.Forecasts[0].FormattedHigh()
}

func (w *Info) FormattedHumidity() string {
	return FormatValue(w.Humidity, "%")
}

func (w *Info) FormattedWindSpeed() string {
	return FormatWindSpeed(w.Wind, w.SpeedUnit)
}

func (w *Info) WindDirectionLabel() string {
	return WindDirectionLabel(w.WindDirection)
}

func (w *Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "WeatherInfo for %s (%s) @ %s: %s(%d), temperature %s, low %s, high %s, humidity %s, wind %s at %s",
		w.City, w.ID, w.Timestamp.Format(time.RFC3339), w.Condition, w.ConditionCode,
		w.FormattedTemperature(), w.FormattedLow(), w.FormattedHigh(),
		w.FormattedHumidity(), w.FormattedWindSpeed(), w.WindDirectionLabel())
	if len(w.Forecasts) > 0 {
		b.WriteString(", forecasts:")
	}
	for i, d := range w.Forecasts {
		if i != 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, " day %d: high %s, low %s, %s(%d)",
			i+1, d.FormattedHigh(), d.FormattedLow(), d.Condition, d.ConditionCode)
	}
	if w.aqi != "" {
		fmt.Fprintf(&b, "; AQI info: %s", w.aqi)
	}
	return b.String()
}

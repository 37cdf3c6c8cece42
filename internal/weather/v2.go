package weather

import (
	"fmt"
	"time"
)

// InfoV2 is a weather snapshot in the v2 schema: a single low/high pair for
// ForecastDate instead of a forecast list.
type InfoV2 struct {
	ID            string
	City          string
	ForecastDate  string
	Condition     string
	ConditionCode int
	Temperature   float64
	Low           float64
	High          float64
	TempUnit      string
	Humidity      float64
	Wind          float64
	WindDirection int
	SpeedUnit     string
	Timestamp     time.Time

	aqi string
}

func NewInfoV2(id, city, forecastDate, condition string, conditionCode int,
	temp, low, high float64, tempUnit string, humidity, wind float64,
	windDir int, speedUnit string, timestamp time.Time) *InfoV2 {
	return &InfoV2{
		ID:            id,
		City:          city,
		ForecastDate:  forecastDate,
		Condition:     condition,
		ConditionCode: conditionCode,
		Temperature:   temp,
		Low:           low,
		High:          high,
		TempUnit:      tempUnit,
		Humidity:      humidity,
		Wind:          wind,
		WindDirection: windDir,
		SpeedUnit:     speedUnit,
		Timestamp:     timestamp,
	}
}

func (w *InfoV2) AQI() string { return w.aqi }

// SetAQI behaves like (*Info).SetAQI.
func (w *InfoV2) SetAQI(aqi string) bool {
	if w.aqi != "" || aqi == "" {
		return false
	}
	w.aqi = aqi
	return true
}

func (w *InfoV2) ConditionText(l Lookup) string {
	return conditionText(l, w.ConditionCode, w.Condition)
}

func (w *InfoV2) ConditionIcon(l Lookup) string {
	return conditionIcon(l, w.ConditionCode)
}

func (w *InfoV2) FormattedTemperature() string {
	return FormatValue(w.Temperature, degree+w.TempUnit)
}

func (w *InfoV2) FormattedLow() string  { return FormatValue(w.Low, degree) }
func (w *InfoV2) FormattedHigh() string { return FormatValue(w.High, degree) }

func (w *InfoV2) FormattedHumidity() string {
	return FormatValue(w.Humidity, "%")
}

func (w *InfoV2) FormattedWindSpeed() string {
	return FormatWindSpeed(w.Wind, w.SpeedUnit)
}

func (w *InfoV2) WindDirectionLabel() string {
	return WindDirectionLabel(w.WindDirection)
}

func (w *InfoV2) String() string {
	s := fmt.Sprintf("WeatherInfo for %s (%s) @ %s: %s(%d), temperature %s, forecast %s low %s, high %s, humidity %s, wind %s at %s",
		w.City, w.ID, w.Timestamp.Format(time.RFC3339), w.Condition, w.ConditionCode,
		w.FormattedTemperature(), w.ForecastDate, w.FormattedLow(), w.FormattedHigh(),
		w.FormattedHumidity(), w.FormattedWindSpeed(), w.WindDirectionLabel())
	if w.aqi != "" {
		s += "; AQI info: " + w.aqi
	}
	return s
}

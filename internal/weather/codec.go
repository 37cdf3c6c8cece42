package weather

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSnapshot wraps every decode failure. Callers should treat it as
// "no weather data available" and keep whatever they had cached before.
var ErrInvalidSnapshot = errors.New("invalid weather snapshot")

const (
	fieldSep    = "|"
	forecastSep = ";"

	legacyFields = 12
	v2Fields     = 14
)

// Parser decodes serialized snapshots. The zero value is ready to use.
type Parser struct {
	// StrictForecast fails the whole decode when a forecast token does not
	// parse. By default parsing stops at the bad token and keeps the entries
	// accepted before it.
	StrictForecast bool
}

// ParseInfo decodes a legacy snapshot with the default Parser.
func ParseInfo(s string) (*Info, error) { return Parser{}.ParseInfo(s) }

// ParseInfoV2 decodes a v2 snapshot with the default Parser.
func ParseInfoV2(s string) (*InfoV2, error) { return Parser{}.ParseInfoV2(s) }

// Serialize encodes the snapshot as
// id|city|condition|code|temp|tempUnit|humidity|wind|windDir|speedUnit|timestamp|forecasts[|aqi].
func (w *Info) Serialize() string {
	var b strings.Builder
	for _, f := range []string{
		w.ID,
		w.City,
		w.Condition,
		strconv.Itoa(w.ConditionCode),
		formatFloat(w.Temperature),
		w.TempUnit,
		formatFloat(w.Humidity),
		formatFloat(w.Wind),
		strconv.Itoa(w.WindDirection),
		w.SpeedUnit,
		strconv.FormatInt(w.Timestamp.UnixMilli(), 10),
	} {
		b.WriteString(f)
		b.WriteString(fieldSep)
	}

	b.WriteString(strconv.Itoa(len(w.Forecasts)))
	for _, d := range w.Forecasts {
		b.WriteString(forecastSep)
		b.WriteString(formatFloat(d.High))
		b.WriteString(forecastSep)
		b.WriteString(formatFloat(d.Low))
		b.WriteString(forecastSep)
		b.WriteString(d.Condition)
		b.WriteString(forecastSep)
		b.WriteString(strconv.Itoa(d.ConditionCode))
	}

	if w.aqi != "" {
		b.WriteString(fieldSep)
		b.WriteString(w.aqi)
	}
	return b.String()
}

func (p Parser) ParseInfo(s string) (*Info, error) {
	parts := splitFields(s, fieldSep)
	if len(parts) != legacyFields && len(parts) != legacyFields+1 {
		return nil, invalid("got %d fields, want %d or %d", len(parts), legacyFields, legacyFields+1)
	}

	var n numbers
	info := &Info{
		ID:            parts[0],
		City:          parts[1],
		Condition:     parts[2],
		ConditionCode: n.atoi("condition code", parts[3]),
		Temperature:   n.parseFloat("temperature", parts[4]),
		TempUnit:      parts[5],
		Humidity:      n.parseFloat("humidity", parts[6]),
		Wind:          n.parseFloat("wind", parts[7]),
		WindDirection: n.atoi("wind direction", parts[8]),
		SpeedUnit:     parts[9],
		Timestamp:     n.millis("timestamp", parts[10]),
	}
	if n.err != nil {
		return nil, n.err
	}

	forecasts, err := p.parseForecasts(parts[11])
	if err != nil {
		return nil, err
	}
	info.Forecasts = forecasts

	if len(parts) == legacyFields+1 {
		info.aqi = parts[legacyFields]
	}
	return info, nil
}

func (p Parser) parseForecasts(field string) ([]DayForecast, error) {
	tokens := splitFields(field, forecastSep)
	if len(tokens) == 0 {
		return nil, invalid("empty forecast field")
	}
	count, err := strconv.ParseInt(tokens[0], 10, 32)
	if err != nil {
		return nil, invalid("forecast count %q: %v", tokens[0], err)
	}
	if count <= 0 || (len(tokens)-1)%4 != 0 || int64((len(tokens)-1)/4) != count {
		return nil, invalid("forecast count %d does not match %d tokens", count, len(tokens))
	}

	forecasts := make([]DayForecast, 0, count)
	for i := 0; i < int(count); i++ {
		group := tokens[1+i*4 : 5+i*4]

		var n numbers
		d := DayForecast{
			High:          n.parseFloat("forecast high", group[0]),
			Low:           n.parseFloat("forecast low", group[1]),
			Condition:     group[2],
			ConditionCode: n.atoi("forecast condition code", group[3]),
		}
		if n.err != nil {
			if p.StrictForecast {
				return nil, n.err
			}
			break
		}
		if d.valid() {
			forecasts = append(forecasts, d)
		}
	}

	if len(forecasts) == 0 {
		return nil, invalid("no usable forecast entries")
	}
	return forecasts, nil
}

// Serialize encodes the snapshot as
// id|city|forecastDate|condition|code|temp|low|high|tempUnit|humidity|wind|windDir|speedUnit|timestamp[|aqi].
func (w *InfoV2) Serialize() string {
	fields := []string{
		w.ID,
		w.City,
		w.ForecastDate,
		w.Condition,
		strconv.Itoa(w.ConditionCode),
		formatFloat(w.Temperature),
		formatFloat(w.Low),
		formatFloat(w.High),
		w.TempUnit,
		formatFloat(w.Humidity),
		formatFloat(w.Wind),
		strconv.Itoa(w.WindDirection),
		w.SpeedUnit,
		strconv.FormatInt(w.Timestamp.UnixMilli(), 10),
	}
	if w.aqi != "" {
		fields = append(fields, w.aqi)
	}
	return strings.Join(fields, fieldSep)
}

func (p Parser) ParseInfoV2(s string) (*InfoV2, error) {
	parts := splitFields(s, fieldSep)
	if len(parts) != v2Fields && len(parts) != v2Fields+1 {
		return nil, invalid("got %d fields, want %d or %d", len(parts), v2Fields, v2Fields+1)
	}

	var n numbers
	info := &InfoV2{
		ID:            parts[0],
		City:          parts[1],
		ForecastDate:  parts[2],
		Condition:     parts[3],
		ConditionCode: n.atoi("condition code", parts[4]),
		Temperature:   n.parseFloat("temperature", parts[5]),
		Low:           n.parseFloat("low", parts[6]),
		High:          n.parseFloat("high", parts[7]),
		TempUnit:      parts[8],
		Humidity:      n.parseFloat("humidity", parts[9]),
		Wind:          n.parseFloat("wind", parts[10]),
		WindDirection: n.atoi("wind direction", parts[11]),
		SpeedUnit:     parts[12],
		Timestamp:     n.millis("timestamp", parts[13]),
	}
	if n.err != nil {
		return nil, n.err
	}

	if len(parts) == v2Fields+1 {
		info.aqi = parts[v2Fields]
	}
	return info, nil
}

// splitFields splits s on sep and drops trailing empty fields, so blobs
// written by older widget builds, whose splitter did the same, count alike.
func splitFields(s, sep string) []string {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// formatFloat is the one number-to-text function used for every float field.
// ParseFloat reads its output back to the same bits, NaN and ±Inf included.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// numbers parses required numeric fields and keeps the first failure.
type numbers struct {
	err error
}

// atoi reads a 32-bit int, the width the format has always used.
func (n *numbers) atoi(name, s string) int {
	if n.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		n.err = invalid("%s %q: %v", name, s, err)
		return 0
	}
	return int(v)
}

func (n *numbers) parseFloat(name, s string) float64 {
	if n.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		n.err = invalid("%s %q: %v", name, s, err)
	}
	return v
}

func (n *numbers) millis(name, s string) time.Time {
	if n.err != nil {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		n.err = invalid("%s %q: %v", name, s, err)
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}

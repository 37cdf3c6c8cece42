package aqi

import (
	"strconv"
	"strings"
)

// ParseText converts a provider AQI line such as
//
//	11-27-2013 09:00; PM2.5; 99.0; 173; Unhealthy (at 24-hour exposure at this level)
//
// into the compact form stored on a snapshot:
//
//	09:00;PM2.5:99.0; AQI:173;Unhealthy
//
// Lines that do not have the hourly "date time" shape are rejected; the
// 24-hour average variant is not supported. So are lines containing '|',
// which would break the snapshot field the result is stored in.
func ParseText(line string) (string, bool) {
	if strings.Contains(line, "|") {
		return "", false
	}
	segments := split(line, ";")
	if len(segments) != 5 {
		return "", false
	}

	stamp := strings.Fields(segments[0])
	if len(stamp) != 2 {
		return "", false
	}

	category := segments[4]
	if i := strings.LastIndexByte(category, '('); i > 0 {
		category = category[:i]
	}

	var b strings.Builder
	b.WriteString(stamp[1])
	b.WriteString(";")
	b.WriteString(strings.TrimSpace(segments[1]))
	b.WriteString(":")
	b.WriteString(strings.TrimSpace(segments[2]))
	b.WriteString("; AQI:")
	b.WriteString(strings.TrimSpace(segments[3]))
	b.WriteString(";")
	b.WriteString(strings.TrimSpace(category))
	return b.String(), true
}

// Value extracts the integer index from a compact AQI string.
func Value(info string) (int, bool) {
	if info == "" {
		return 0, false
	}
	segments := split(info, ";")
	if len(segments) != 4 {
		return 0, false
	}
	kv := split(segments[2], ":")
	if len(kv) != 2 {
		return 0, false
	}
	v, err := strconv.ParseInt(kv[1], 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// split drops trailing empty fields, the same way snapshot fields are split,
// so a dangling separator does not count as an extra segment.
func split(s, sep string) []string {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

package weather

// Lookup resolves condition codes to display text and icons. The widget host
// supplies it; this package never touches resources directly.
type Lookup interface {
	// ConditionText returns the display text for code, and false if the
	// host has none.
	ConditionText(code int) (string, bool)
	ConditionIcon(code int) string
}

// MapLookup is a Lookup backed by two maps.
type MapLookup struct {
	Text  map[int]string
	Icons map[int]string
}

func (m MapLookup) ConditionText(code int) (string, bool) {
	s, ok := m.Text[code]
	return s, ok
}

func (m MapLookup) ConditionIcon(code int) string {
	return m.Icons[code]
}

func conditionText(l Lookup, code int, fallback string) string {
	if l == nil {
		return fallback
	}
	if s, ok := l.ConditionText(code); ok {
		return s
	}
	return fallback
}

func conditionIcon(l Lookup, code int) string {
	if l == nil {
		return ""
	}
	return l.ConditionIcon(code)
}
